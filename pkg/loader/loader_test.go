package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/stepwise/pkg/model"
)

const onboardingYAML = `title: Onboarding
orientation: vertical
variant: minimal
default_active_step: 2
indicators:
  completed: "✓"
steps:
  - ordinal: 1
    title: Account
    description: Create your account
  - ordinal: 2
    title: Profile
    loading: true
  - ordinal: 3
    title: Done
    disabled: true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "onboarding.yaml", onboardingYAML)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if def.Title != "Onboarding" {
		t.Errorf("Expected title Onboarding, got %q", def.Title)
	}
	if def.Orientation != "vertical" || def.Variant != "minimal" {
		t.Errorf("Unexpected presentation options %q/%q", def.Orientation, def.Variant)
	}
	if def.DefaultActiveStep != 2 || def.Controlled() {
		t.Errorf("Expected self-managed default 2, got %d controlled=%v", def.DefaultActiveStep, def.Controlled())
	}
	if len(def.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(def.Steps))
	}
	if !def.Steps[1].Loading || !def.Steps[2].Disabled {
		t.Errorf("Step flags not decoded: %+v", def.Steps)
	}
	if def.Indicators["completed"] != "✓" {
		t.Errorf("Indicators not decoded: %v", def.Indicators)
	}
	if !filepath.IsAbs(def.Path) {
		t.Errorf("Expected absolute path, got %q", def.Path)
	}
}

func TestParse_ControlledMode(t *testing.T) {
	def, err := Parse([]byte("active_step: 2\nsteps:\n  - {ordinal: 1, title: A}\n  - {ordinal: 2, title: B}\n"), "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !def.Controlled() || *def.ActiveStep != 2 {
		t.Errorf("Expected controlled at 2, got %v", def.ActiveStep)
	}
	if def.Title != "Untitled" {
		t.Errorf("Expected fallback title, got %q", def.Title)
	}
}

func TestParse_TitleFromFilename(t *testing.T) {
	def, err := Parse([]byte("steps:\n  - {ordinal: 1, title: A}\n"), "/tmp/setup-wizard.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if def.Title != "setup-wizard" {
		t.Errorf("Expected title from filename, got %q", def.Title)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "NoSteps",
			input: "title: Empty\n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNoSteps) {
					t.Errorf("Expected ErrNoSteps, got %v", err)
				}
			},
		},
		{
			name:  "Malformed",
			input: "steps: [unterminated\n",
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "parsing definition") {
					t.Errorf("Expected parse error, got %v", err)
				}
			},
		},
		{
			name:  "Invalid",
			input: "orientation: diagonal\nsteps:\n  - {ordinal: 1, title: A}\n",
			check: func(t *testing.T, err error) {
				var verr *model.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Expected *model.ValidationError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "test.yaml")
			tt.check(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		paths = append(paths, writeFile(t, dir, name, "steps:\n  - {ordinal: 1, title: First}\n"))
	}

	defs, err := LoadAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("Expected 3 definitions, got %d", len(defs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if defs[i].Title != want {
			t.Errorf("defs[%d].Title = %q, want %q", i, defs[i].Title, want)
		}
	}
}

func TestLoadAll_PropagatesError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "steps:\n  - {ordinal: 1, title: A}\n")
	bad := writeFile(t, dir, "bad.yaml", "title: nothing here\n")

	_, err := LoadAll(context.Background(), []string{good, bad})
	if !errors.Is(err, ErrNoSteps) {
		t.Errorf("Expected ErrNoSteps from LoadAll, got %v", err)
	}
}

func TestLoadAll_Cancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.yaml", "steps:\n  - {ordinal: 1, title: A}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := LoadAll(ctx, []string{path}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
