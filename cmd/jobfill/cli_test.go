package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobfill/internal/settings"

	"github.com/spf13/cobra"
)

func TestInitCmd(t *testing.T) {
	ws := setupWorkspace(t)
	cmd := &cobra.Command{}

	output := captureOutput(t, func() {
		if err := runInit(cmd, []string{}); err != nil {
			t.Fatalf("runInit failed: %v", err)
		}
	})

	if _, err := os.Stat(filepath.Join(ws, ".jobfill", "config.yaml")); os.IsNotExist(err) {
		t.Error("config.yaml was not created")
	}
	if _, err := os.Stat(filepath.Join(ws, "config.ini")); os.IsNotExist(err) {
		t.Error("settings file was not created")
	}
	if !strings.Contains(output, "config.yaml") {
		t.Errorf("expected config path in output, got: %s", output)
	}

	// Running it again keeps the existing config
	output = captureOutput(t, func() {
		if err := runInit(cmd, []string{}); err != nil {
			t.Errorf("runInit second run failed: %v", err)
		}
	})
	if !strings.Contains(output, "Already initialized") {
		t.Errorf("expected idempotency notice, got: %s", output)
	}
}

func TestConfigSetGetShow(t *testing.T) {
	ws := setupWorkspace(t)
	cmd := &cobra.Command{}

	captureOutput(t, func() {
		if err := runConfigSet(cmd, []string{"PersonalInfo.name", "Li", "Wei"}); err != nil {
			t.Fatalf("runConfigSet failed: %v", err)
		}
	})

	output := captureOutput(t, func() {
		if err := runConfigGet(cmd, []string{"PersonalInfo.name"}); err != nil {
			t.Fatalf("runConfigGet failed: %v", err)
		}
	})
	if strings.TrimSpace(output) != "Li Wei" {
		t.Errorf("expected 'Li Wei', got %q", output)
	}

	output = captureOutput(t, func() {
		if err := runConfigShow(cmd, []string{}); err != nil {
			t.Fatalf("runConfigShow failed: %v", err)
		}
	})
	if !strings.Contains(output, "PersonalInfo") || !strings.Contains(output, "name = Li Wei") {
		t.Errorf("show output missing stored answer: %s", output)
	}

	store := settings.Open(filepath.Join(ws, "config.ini"), nil)
	if got := store.Get("PersonalInfo", "name", ""); got != "Li Wei" {
		t.Errorf("answer not persisted, got %q", got)
	}
}

func TestConfigGetShow_DoNotCreateSettingsFile(t *testing.T) {
	ws := setupWorkspace(t)
	cmd := &cobra.Command{}

	output := captureOutput(t, func() {
		if err := runConfigGet(cmd, []string{"PersonalInfo.name"}); err != nil {
			t.Fatalf("runConfigGet failed: %v", err)
		}
		if err := runConfigShow(cmd, []string{}); err != nil {
			t.Fatalf("runConfigShow failed: %v", err)
		}
	})

	if _, err := os.Stat(filepath.Join(ws, "config.ini")); !os.IsNotExist(err) {
		t.Error("reading answers must not create the settings file")
	}
	if !strings.Contains(output, "[PersonalInfo]") {
		t.Errorf("expected the default layout to be shown, got: %s", output)
	}
}

func TestConfigSet_Validation(t *testing.T) {
	setupWorkspace(t)
	cmd := &cobra.Command{}

	if err := runConfigSet(cmd, []string{"nodot", "value"}); err == nil {
		t.Error("expected error for missing Section.key format")
	}
	if err := runConfigSet(cmd, []string{"PersonalInfo.name", "  "}); err == nil {
		t.Error("expected error for blank value")
	}
	if err := runConfigSet(cmd, []string{"WorkInfo.self_introduction", `say """hi"""`}); err == nil {
		t.Error("expected error for a value the settings file cannot hold")
	}
}

func TestConfigEdit(t *testing.T) {
	ws := setupWorkspace(t)
	stdin = strings.NewReader("bad\nPersonalInfo.email\nli@example.com\nPersonalInfo.phone\n\nquit\n")

	output := captureOutput(t, func() {
		if err := runConfigEdit(&cobra.Command{}, []string{}); err != nil {
			t.Fatalf("runConfigEdit failed: %v", err)
		}
	})

	if !strings.Contains(output, "Section.key") {
		t.Errorf("expected format hint, got: %s", output)
	}
	if !strings.Contains(output, "Unchanged.") {
		t.Errorf("blank value should leave the answer unchanged: %s", output)
	}

	store := settings.Open(filepath.Join(ws, "config.ini"), nil)
	if got := store.Get("PersonalInfo", "email", ""); got != "li@example.com" {
		t.Errorf("expected edited email, got %q", got)
	}
}

func TestConfigClear(t *testing.T) {
	t.Run("cancelled without second confirmation", func(t *testing.T) {
		ws := setupWorkspace(t)
		store := settings.Open(filepath.Join(ws, "config.ini"), nil)
		if err := store.Set("PersonalInfo", "name", "Li Wei"); err != nil {
			t.Fatal(err)
		}
		stdin = strings.NewReader("yes\ndelete\n")

		output := captureOutput(t, func() {
			if err := runConfigClear(&cobra.Command{}, []string{}); err != nil {
				t.Fatalf("runConfigClear failed: %v", err)
			}
		})
		if !strings.Contains(output, "Cancelled") {
			t.Errorf("expected cancellation, got: %s", output)
		}
		if _, err := os.Stat(store.Path()); err != nil {
			t.Error("settings file should still exist")
		}
	})

	t.Run("confirmed twice", func(t *testing.T) {
		ws := setupWorkspace(t)
		path := filepath.Join(ws, "config.ini")
		settings.Open(path, nil)
		stdin = strings.NewReader("YES\nDELETE\n")

		captureOutput(t, func() {
			if err := runConfigClear(&cobra.Command{}, []string{}); err != nil {
				t.Fatalf("runConfigClear failed: %v", err)
			}
		})
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("settings file should be deleted")
		}
	})

	t.Run("force skips confirmation", func(t *testing.T) {
		ws := setupWorkspace(t)
		path := filepath.Join(ws, "config.ini")
		settings.Open(path, nil)
		clearForce = true
		defer func() { clearForce = false }()

		captureOutput(t, func() {
			if err := runConfigClear(&cobra.Command{}, []string{}); err != nil {
				t.Fatalf("runConfigClear failed: %v", err)
			}
		})
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("settings file should be deleted")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		setupWorkspace(t)
		output := captureOutput(t, func() {
			if err := runConfigClear(&cobra.Command{}, []string{}); err != nil {
				t.Fatalf("runConfigClear failed: %v", err)
			}
		})
		if !strings.Contains(output, "does not exist") {
			t.Errorf("expected missing-file notice, got: %s", output)
		}
	})
}
