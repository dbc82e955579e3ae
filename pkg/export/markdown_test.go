package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

func TestGenerateMarkdown(t *testing.T) {
	def := sampleDefinition()
	md := GenerateMarkdown(NewSnapshot(def, nil), def)

	for _, want := range []string{
		"# Checkout",
		"- **Completed**: 1 (25%)",
		"- **Current**: 2. Shipping (active)",
		"- **Mode**: self-managed",
		"| ok | Cart | completed |  |",
		"| 3 | Payment | inactive | disabled |",
		"```mermaid",
		"s1 ==> s2",
		"s2 -.-> s3",
		"## 2. Shipping",
		"*Where to send it*",
		"Enter an address.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "s4 -.->") || strings.Contains(md, "s4 ==>") {
		t.Error("Last step must not have a connector")
	}
}

func TestGenerateMarkdown_MissingActive(t *testing.T) {
	def := sampleDefinition()
	md := GenerateMarkdown(NewSnapshot(def, stepper.ActiveAt(7)), def)

	if !strings.Contains(md, "active step 7 does not exist") {
		t.Error("Expected note about the missing active step")
	}
}

func TestMermaidLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Say "hi"`, "Say 'hi'"},
		{"Pay (card) [x]", "Pay card x"},
		{strings.Repeat("a", 40), strings.Repeat("a", 27) + "..."},
	}
	for _, tt := range tests {
		if got := mermaidLabel(tt.in); got != tt.want {
			t.Errorf("mermaidLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveMarkdownToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := SaveMarkdownToFile(sampleDefinition(), nil, path); err != nil {
		t.Fatalf("SaveMarkdownToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Checkout") {
		t.Errorf("Unexpected file content: %.40q", data)
	}

	if err := SaveMarkdownToFile(sampleDefinition(), nil, filepath.Join(path, "nested")); err == nil {
		t.Error("Expected error writing below a file")
	}
}
