package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/stepwise/pkg/model"
	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

// GenerateMarkdown creates a progress report for snap. Step bodies come
// from def, which must be the definition the snapshot was taken from.
func GenerateMarkdown(snap Snapshot, def *model.Definition) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", snap.Title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	sb.WriteString("## Progress\n\n")
	sb.WriteString(fmt.Sprintf("- **Steps**: %d\n", snap.Total))
	sb.WriteString(fmt.Sprintf("- **Completed**: %d (%d%%)\n", snap.Completed, snap.Percent()))
	if cur, ok := snap.Step(snap.ActiveStep); ok {
		sb.WriteString(fmt.Sprintf("- **Current**: %d. %s (%s)\n", cur.Ordinal, cur.Title, cur.State))
	} else {
		sb.WriteString(fmt.Sprintf("- **Current**: none (active step %d does not exist)\n", snap.ActiveStep))
	}
	mode := "self-managed"
	if snap.Controlled {
		mode = "controlled"
	}
	sb.WriteString(fmt.Sprintf("- **Mode**: %s\n\n", mode))

	sb.WriteString("| # | Step | State | |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, st := range snap.Steps {
		flags := []string{}
		if st.Selected {
			flags = append(flags, "current")
		}
		if st.Disabled {
			flags = append(flags, "disabled")
		}
		if st.Loading {
			flags = append(flags, "loading")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			st.Indicator, escapeCell(st.Title), st.State, strings.Join(flags, ", ")))
	}
	sb.WriteString("\n")

	sb.WriteString("## Flow\n\n")
	sb.WriteString("```mermaid\nflowchart LR\n")
	for _, st := range snap.Steps {
		sb.WriteString(fmt.Sprintf("    s%d[\"%d. %s\"]:::%s\n", st.Ordinal, st.Ordinal, mermaidLabel(st.Title), st.State))
	}
	for i, st := range snap.Steps {
		if st.Separator == nil || i+1 >= len(snap.Steps) {
			continue
		}
		arrow := "-.->"
		if st.Separator.Filled {
			arrow = "==>"
		}
		sb.WriteString(fmt.Sprintf("    s%d %s s%d\n", st.Ordinal, arrow, snap.Steps[i+1].Ordinal))
	}
	sb.WriteString("    classDef completed fill:#50fa7b,color:#282a36\n")
	sb.WriteString("    classDef active fill:#8be9fd,color:#282a36\n")
	sb.WriteString("    classDef loading fill:#f1fa8c,color:#282a36\n")
	sb.WriteString("    classDef inactive fill:#44475a,color:#f8f8f2\n")
	sb.WriteString("```\n\n")

	sb.WriteString("---\n\n")

	for i, st := range snap.Steps {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", st.Ordinal, st.Title))
		if st.Description != "" {
			sb.WriteString(fmt.Sprintf("*%s*\n\n", st.Description))
		}
		if def != nil && i < len(def.Steps) && def.Steps[i].Content != "" {
			sb.WriteString(strings.TrimRight(def.Steps[i].Content, "\n") + "\n\n")
		}
		if st.State == stepper.StateCompleted {
			sb.WriteString("> Completed\n\n")
		}
	}

	return sb.String()
}

// SaveMarkdownToFile writes the report for def at active to filename.
func SaveMarkdownToFile(def *model.Definition, active *int, filename string) error {
	content := GenerateMarkdown(NewSnapshot(def, active), def)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func mermaidLabel(s string) string {
	r := strings.NewReplacer("\"", "'", "[", "", "]", "", "(", "", ")", "")
	s = r.Replace(s)
	if len([]rune(s)) > 30 {
		s = string([]rune(s)[:27]) + "..."
	}
	return s
}
