// Package loader reads wizard definitions from YAML files.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/stepwise/pkg/model"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrNoSteps is returned for a definition file that parses but declares no steps.
var ErrNoSteps = errors.New("definition has no steps")

// maxConcurrentLoads bounds LoadAll's parallelism.
const maxConcurrentLoads = 8

// Load reads, parses and validates the definition at path.
func Load(path string) (*model.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes a YAML definition. path is recorded on the result and used
// in error messages; it may be empty.
func Parse(data []byte, path string) (*model.Definition, error) {
	var def model.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", displayPath(path), err)
	}
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	def.Path = path

	if len(def.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", displayPath(path), ErrNoSteps)
	}
	if def.Title == "" {
		def.Title = titleFromPath(path)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadAll loads every path concurrently. Results keep the order of paths.
// The first error cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string) ([]*model.Definition, error) {
	defs := make([]*model.Definition, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			def, err := Load(path)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return defs, nil
}

func displayPath(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}

func titleFromPath(path string) string {
	if path == "" {
		return "Untitled"
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
