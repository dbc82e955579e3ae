// Command stepwise runs step-by-step wizards in the terminal and exports
// their progress for scripts and browsers.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stepwise/pkg/config"
	"github.com/vanderheijden86/stepwise/pkg/loader"
	"github.com/vanderheijden86/stepwise/pkg/model"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	theme      string
	debug      bool
	cfg        config.Config
	logFile    io.Closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "stepwise",
		Short:         "Sequential step-by-step wizards for the terminal",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $STEPWISE_CONFIG or ~/.config/stepwise/config.yaml)")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "Color theme: dark, light or auto")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Write a debug log to $TMPDIR/stepwise-debug.log")

	root.AddCommand(runCmd(a))
	root.AddCommand(stateCmd(a))
	root.AddCommand(exportCmd(a))
	root.AddCommand(previewCmd(a))
	root.AddCommand(listCmd(a))
	return root
}

// setup loads the config and routes the standard logger: to a file when
// debugging is on, nowhere otherwise so it cannot draw over the UI.
func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.theme != "" {
		cfg.Theme = a.theme
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if a.debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	if cfg.Debug {
		f, err := tea.LogToFile(filepath.Join(os.TempDir(), "stepwise-debug.log"), "stepwise")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		a.logFile = f
		log.Printf("config: loaded %s", path)
	} else {
		log.SetOutput(io.Discard)
	}
	return nil
}

func (a *app) teardown() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// loadDefinition loads path and fills in orientation and variant from the
// config when the file leaves them out.
func (a *app) loadDefinition(path string) (*model.Definition, error) {
	def, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(def, a.cfg)
	return def, nil
}

func applyDefaults(def *model.Definition, cfg config.Config) {
	if def.Orientation == "" {
		def.Orientation = cfg.Orientation
	}
	if def.Variant == "" {
		def.Variant = cfg.Variant
	}
}

// wizards lists the discoverable definitions, current project first.
func (a *app) wizards() []config.Wizard {
	var result []config.Wizard
	seen := make(map[string]bool)
	if dir, ok := config.DetectCurrentProject(); ok {
		for _, w := range config.ProjectWizards(dir) {
			seen[w.ResolvedPath()] = true
			result = append(result, w)
		}
	}
	for _, w := range config.DiscoverWizards(a.cfg) {
		if !seen[w.ResolvedPath()] {
			seen[w.ResolvedPath()] = true
			result = append(result, w)
		}
	}
	return result
}
