package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/stepwise/pkg/export"
	"github.com/vanderheijden86/stepwise/pkg/loader"
)

func stateCmd(a *app) *cobra.Command {
	var active int

	cmd := &cobra.Command{
		Use:   "state <file>",
		Short: "Print the derived state of every step as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadDefinition(args[0])
			if err != nil {
				return err
			}
			return export.WriteJSON(cmd.OutOrStdout(), export.NewSnapshot(def, activeFlag(cmd, active)))
		},
	}
	cmd.Flags().IntVar(&active, "active", 0, "Active step ordinal (default: from the file)")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		active int
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export progress as Markdown, SVG, PNG or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			format = strings.ToLower(format)

			def, err := a.loadDefinition(args[0])
			if err != nil {
				return err
			}
			snap := export.NewSnapshot(def, activeFlag(cmd, active))

			var write func(io.Writer) error
			switch format {
			case "md", "markdown":
				write = func(w io.Writer) error {
					_, err := io.WriteString(w, export.GenerateMarkdown(snap, def))
					return err
				}
			case "svg":
				write = func(w io.Writer) error { return export.WriteSVG(w, snap) }
			case "png":
				write = func(w io.Writer) error { return export.WritePNG(w, snap) }
			case "json":
				write = func(w io.Writer) error { return export.WriteJSON(w, snap) }
			default:
				return fmt.Errorf("unknown format %q (want md, svg, png or json)", format)
			}

			if output == "" || output == "-" {
				w := cmd.OutOrStdout()
				if format == "png" && w == os.Stdout && isTerminal(os.Stdout) {
					return errors.New("refusing to write PNG to a terminal; use -o")
				}
				return write(w)
			}
			if err := writeOutput(output, write); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", format, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: md, svg, png or json (default: from -o, else md)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&active, "active", 0, "Active step ordinal (default: from the file)")
	return cmd
}

func previewCmd(a *app) *cobra.Command {
	var (
		addr   string
		active int
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Serve a live-reloading browser preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := export.NewPreviewServer(args[0], activeFlag(cmd, active))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Previewing %s at http://%s (Ctrl+C to stop)\n", args[0], displayAddr(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:9000", "Listen address")
	cmd.Flags().IntVar(&active, "active", 0, "Active step ordinal (default: from the file)")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered wizard definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wizards := a.wizards()
			out := cmd.OutOrStdout()
			if len(wizards) == 0 {
				fmt.Fprintln(out, "No wizards found.")
				return nil
			}

			if !check {
				for _, w := range wizards {
					fmt.Fprintf(out, "%-24s %s\n", w.Name, w.ResolvedPath())
				}
				return nil
			}

			paths := make([]string, len(wizards))
			for i, w := range wizards {
				paths[i] = w.ResolvedPath()
			}
			defs, err := loader.LoadAll(cmd.Context(), paths)
			if err != nil {
				return err
			}
			for i, def := range defs {
				fmt.Fprintf(out, "%-24s %2d steps  %s\n", wizards[i].Name, len(def.Steps), def.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Load and validate every definition")
	return cmd
}

// activeFlag returns the --active value if it was given.
func activeFlag(cmd *cobra.Command, active int) *int {
	if !cmd.Flags().Changed("active") {
		return nil
	}
	return &active
}

// formatFromPath infers the export format from an output file name.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "svg"
	case ".png":
		return "png"
	case ".json":
		return "json"
	default:
		return "md"
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// writeOutput creates path and runs write against it. A failed close is
// reported, since that is where buffered data can be lost.
func writeOutput(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
