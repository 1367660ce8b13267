package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPromptAborted is returned when the operator input stream ends or is
// interrupted before an answer was given.
var ErrPromptAborted = errors.New("prompt aborted by operator")

// Prompter asks the operator a single question and returns the trimmed answer.
type Prompter interface {
	Ask(prompt string) (string, error)
}

// ConsolePrompter is a line-based Prompter over a text console.
type ConsolePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConsolePrompter reads answers from r and writes prompts to w.
func NewConsolePrompter(r io.Reader, w io.Writer) *ConsolePrompter {
	return &ConsolePrompter{reader: bufio.NewReader(r), writer: w}
}

// Ask prints the prompt and blocks until a full line is read.
func (p *ConsolePrompter) Ask(prompt string) (string, error) {
	fmt.Fprintf(p.writer, "%s\n> ", prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		// A final unterminated line still counts as an answer.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("%w: %v", ErrPromptAborted, err)
	}
	return strings.TrimSpace(line), nil
}

// ScriptedPrompter answers prompts from a fixed list, for tests and
// non-interactive runs. It returns ErrPromptAborted once the list is used up.
type ScriptedPrompter struct {
	Answers []string
	Asked   []string
}

// NewScriptedPrompter returns a prompter that replies with answers in order.
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

// Ask records the prompt and pops the next answer.
func (p *ScriptedPrompter) Ask(prompt string) (string, error) {
	p.Asked = append(p.Asked, prompt)
	if len(p.Answers) == 0 {
		return "", ErrPromptAborted
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return strings.TrimSpace(answer), nil
}
