// Package settings persists operator answers in a flat INI file organized as
// named sections of key = value lines, and asks the operator for any answer
// that is missing.
package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"jobfill/internal/logging"

	"github.com/go-ini/ini"
)

// ErrInvalidSettingName is returned for section or key names that cannot be
// represented in the INI file.
var ErrInvalidSettingName = errors.New("invalid setting name")

// ErrInvalidSettingValue is returned for values the INI file cannot store
// and read back unchanged.
var ErrInvalidSettingValue = errors.New("invalid setting value")

const (
	// Default sections written on first run.
	SectionPersonal  = "PersonalInfo"
	SectionWork      = "WorkInfo"
	SectionEducation = "Education"
	SectionOthers    = "Others"
)

const emptyInputNotice = "Input must not be empty, please try again:"

// Entry is one key = value line.
type Entry struct {
	Key   string
	Value string
}

// Section is a named group of entries, in file order.
type Section struct {
	Name    string
	Entries []Entry
}

// Store reads and writes settings under (section, key) pairs.
// Keys are case-insensitive and stored lowercase; section names keep their case.
type Store struct {
	path     string
	file     *ini.File
	prompter Prompter
	out      io.Writer
}

// Option configures a Store.
type Option func(*Store)

// WithOutput sets where storage warnings for the operator are written.
func WithOutput(w io.Writer) Option {
	return func(s *Store) {
		s.out = w
	}
}

// Values are read back verbatim: quotes, trailing backslashes and comment
// characters are part of the value.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// Open loads the settings file at path. A missing file is created with the
// default layout. An unreadable file is reported and the store starts empty,
// so every value is treated as absent.
func Open(path string, prompter Prompter, opts ...Option) *Store {
	return open(path, prompter, true, opts)
}

// Load reads the settings file at path without creating it. A missing file
// yields the default layout in memory only. The returned store never prompts.
func Load(path string, opts ...Option) *Store {
	return open(path, nil, false, opts)
}

func open(path string, prompter Prompter, create bool, opts []Option) *Store {
	s := &Store{
		path:     path,
		prompter: prompter,
		out:      io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.file = defaultLayout()
		if !create {
			return s
		}
		if err := s.save(); err != nil {
			s.report("could not create settings file %s: %v", path, err)
		} else {
			logging.Settings("created default settings file %s", path)
		}
		return s
	}

	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		s.report("could not read settings file %s: %v", path, err)
		s.file = ini.Empty(loadOptions)
		return s
	}
	s.file = f
	logging.Settings("loaded settings file %s (%d sections)", path, len(s.Sections()))
	return s
}

func defaultLayout() *ini.File {
	f := ini.Empty(loadOptions)
	personal, _ := f.NewSection(SectionPersonal)
	for _, key := range []string{"name", "phone", "email"} {
		_, _ = personal.NewKey(key, "")
	}
	_, _ = f.NewSection(SectionWork)
	_, _ = f.NewSection(SectionEducation)
	_, _ = f.NewSection(SectionOthers)
	return f
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Resolve returns the stored value for (section, key) when it is non-blank.
// Otherwise it asks the operator until a non-blank answer is given, persists
// that answer and returns it. The only error is ErrPromptAborted.
func (s *Store) Resolve(section, key, prompt string) (string, error) {
	if v, ok := s.lookup(section, key); ok && strings.TrimSpace(v) != "" {
		logging.SettingsDebug("read %s.%s", section, normKey(key))
		return v, nil
	}

	answer, err := s.ask(prompt)
	for err == nil && answer == "" {
		answer, err = s.ask(emptyInputNotice)
	}
	if err != nil {
		return "", err
	}

	if err := s.Set(section, key, answer); err != nil {
		s.report("answer for %s.%s kept for this run only: %v", section, key, err)
	}
	return answer, nil
}

// ResolveOptional returns the stored value for (section, key) when it is
// non-blank. Otherwise it asks once; a non-blank answer is persisted, a blank
// one yields "" and nothing is written.
func (s *Store) ResolveOptional(section, key, prompt string) (string, error) {
	if v, ok := s.lookup(section, key); ok && strings.TrimSpace(v) != "" {
		return v, nil
	}

	answer, err := s.ask(prompt + " (optional, press Enter to skip)")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", nil
	}
	if err := s.Set(section, key, answer); err != nil {
		s.report("answer for %s.%s kept for this run only: %v", section, key, err)
	}
	return answer, nil
}

// Get returns the stored value for (section, key), or def when absent.
// It never prompts.
func (s *Store) Get(section, key, def string) string {
	if v, ok := s.lookup(section, key); ok {
		return v
	}
	return def
}

// Set overwrites (section, key) and writes the file. Values containing a
// triple quote or a line break, or with surrounding whitespace, are rejected.
func (s *Store) Set(section, key, value string) error {
	if err := validateName(section, key); err != nil {
		return err
	}
	if err := validateValue(value); err != nil {
		return err
	}
	s.file.Section(section).Key(normKey(key)).SetValue(value)
	if err := s.save(); err != nil {
		logging.SettingsError("persist %s.%s: %v", section, normKey(key), err)
		return fmt.Errorf("persist %s.%s: %w", section, key, err)
	}
	logging.Settings("saved %s.%s", section, normKey(key))
	return nil
}

// Delete removes (section, key) and writes the file. Deleting an absent pair
// is not an error.
func (s *Store) Delete(section, key string) error {
	sec, err := s.file.GetSection(section)
	if err != nil || !sec.HasKey(normKey(key)) {
		return nil
	}
	sec.DeleteKey(normKey(key))
	if err := s.save(); err != nil {
		return fmt.Errorf("persist delete of %s.%s: %w", section, key, err)
	}
	return nil
}

// Wipe removes the settings file and empties the store. The default layout
// is recreated the next time the file is opened.
func (s *Store) Wipe() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove settings file: %w", err)
	}
	s.file = ini.Empty(loadOptions)
	logging.Settings("wiped settings file %s", s.path)
	return nil
}

// Sections lists every section with its entries, in file order.
// The implicit default section is included only when it has keys.
func (s *Store) Sections() []Section {
	var out []Section
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		section := Section{Name: sec.Name()}
		for _, k := range sec.Keys() {
			section.Entries = append(section.Entries, Entry{Key: k.Name(), Value: k.Value()})
		}
		out = append(out, section)
	}
	return out
}

// Show writes every section in INI form.
func (s *Store) Show(w io.Writer) {
	for _, sec := range s.Sections() {
		fmt.Fprintf(w, "[%s]\n", sec.Name)
		for _, e := range sec.Entries {
			fmt.Fprintf(w, "%s = %s\n", e.Key, e.Value)
		}
		fmt.Fprintln(w)
	}
}

// ParseName splits a "Section.key" reference.
func ParseName(ref string) (section, key string, err error) {
	section, key, ok := strings.Cut(strings.TrimSpace(ref), ".")
	if !ok {
		return "", "", fmt.Errorf("%w: %q (expected Section.key)", ErrInvalidSettingName, ref)
	}
	if err := validateName(section, key); err != nil {
		return "", "", err
	}
	return section, normKey(key), nil
}

func (s *Store) lookup(section, key string) (string, bool) {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return "", false
	}
	k, err := sec.GetKey(normKey(key))
	if err != nil {
		return "", false
	}
	return k.String(), true
}

func (s *Store) ask(prompt string) (string, error) {
	if s.prompter == nil {
		return "", ErrPromptAborted
	}
	answer, err := s.prompter.Ask(prompt)
	return strings.TrimSpace(answer), err
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return s.file.SaveTo(s.path)
}

func (s *Store) report(format string, args ...interface{}) {
	logging.SettingsError(format, args...)
	fmt.Fprintf(s.out, "[settings] "+format+"\n", args...)
}

func normKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func validateName(section, key string) error {
	section = strings.TrimSpace(section)
	key = strings.TrimSpace(key)
	if section == "" || key == "" {
		return fmt.Errorf("%w: section and key are required", ErrInvalidSettingName)
	}
	if strings.ContainsAny(section, "[]\r\n") {
		return fmt.Errorf("%w: section %q", ErrInvalidSettingName, section)
	}
	if strings.ContainsAny(key, "=:[]\r\n") {
		return fmt.Errorf("%w: key %q", ErrInvalidSettingName, key)
	}
	return nil
}

// go-ini wraps values with line breaks in triple quotes and values with
// surrounding whitespace in double quotes. With quotes preserved neither reads
// back verbatim, and a triple quote inside a value ends a wrapped value early.
func validateValue(value string) error {
	if strings.Contains(value, `"""`) || strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: triple quotes and line breaks are not supported", ErrInvalidSettingValue)
	}
	if strings.TrimSpace(value) != value {
		return fmt.Errorf("%w: leading or trailing whitespace", ErrInvalidSettingValue)
	}
	return nil
}
