package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/stepwise/pkg/config"
	"github.com/vanderheijden86/stepwise/pkg/ui"
)

// errNoWizards is returned when run has no file and discovery finds nothing.
var errNoWizards = errors.New("no wizard definitions found: pass a file or add one under " + config.DirName + "/")

func runCmd(a *app) *cobra.Command {
	var noReload bool

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a wizard interactively",
		Long:  "Runs a wizard definition in the terminal. Without a file, definitions are discovered from the config and the current project.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				w, err := a.chooseWizard()
				if err != nil {
					return err
				}
				path = w.ResolvedPath()
			}

			def, err := a.loadDefinition(path)
			if err != nil {
				return err
			}
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("run needs an interactive terminal; use 'stepwise state' for scripts")
			}

			theme := ui.ThemeForMode(lipgloss.DefaultRenderer(), a.cfg.Theme)
			zones := zone.New()
			defer zones.Close()

			m := ui.NewAppModel(def, theme).WithZones(zones)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

			if !noReload && !a.cfg.Reload.Disabled {
				worker, err := ui.NewReloadWorker(ui.WorkerConfig{
					Path:          def.Path,
					DebounceDelay: a.cfg.Reload.Debounce,
					Program:       p,
				})
				if err != nil {
					return err
				}
				if err := worker.Start(); err != nil {
					log.Printf("run: live reload disabled: %v", err)
				}
				defer worker.Stop()
			}

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running stepwise: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Do not watch the definition file for changes")
	return cmd
}

// chooseWizard picks the wizard to run from discovery. With more than one
// candidate the user chooses from a list.
func (a *app) chooseWizard() (config.Wizard, error) {
	wizards := a.wizards()
	switch len(wizards) {
	case 0:
		return config.Wizard{}, errNoWizards
	case 1:
		return wizards[0], nil
	}

	if !isTerminal(os.Stdin) {
		names := make([]string, len(wizards))
		for i, w := range wizards {
			names[i] = w.Name
		}
		return config.Wizard{}, fmt.Errorf("several wizards found (%s); pass a file", strings.Join(names, ", "))
	}

	options := make([]huh.Option[int], len(wizards))
	for i, w := range wizards {
		options[i] = huh.NewOption(w.Name, i)
	}
	choice := 0
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which wizard?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return config.Wizard{}, errors.New("cancelled")
		}
		return config.Wizard{}, err
	}
	return wizards[choice], nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
