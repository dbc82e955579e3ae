package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverWizards returns the registered wizards followed by every definition
// found in a .stepwise/ directory under the scan paths. Registered entries
// win when a path matches.
func DiscoverWizards(cfg Config) []Wizard {
	seen := make(map[string]bool)
	var result []Wizard

	for _, w := range cfg.Wizards {
		resolved := w.ResolvedPath()
		seen[resolved] = true
		if w.Name == "" {
			w.Name = stem(resolved)
		}
		result = append(result, w)
	}

	maxDepth := cfg.Discovery.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	for _, scanPath := range cfg.Discovery.ScanPaths {
		for _, project := range scanForProjects(scanPath, maxDepth) {
			for _, w := range ProjectWizards(project) {
				if !seen[w.Path] {
					seen[w.Path] = true
					result = append(result, w)
				}
			}
		}
	}

	return result
}

// ProjectWizards lists the definitions in dir/.stepwise, sorted by file name.
func ProjectWizards(dir string) []Wizard {
	entries, err := os.ReadDir(filepath.Join(dir, DirName))
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isDefinitionFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	project := filepath.Base(dir)
	wizards := make([]Wizard, 0, len(names))
	for _, name := range names {
		wizards = append(wizards, Wizard{
			Name: project + "/" + stem(name),
			Path: filepath.Join(dir, DirName, name),
		})
	}
	return wizards
}

// scanForProjects walks a directory tree up to maxDepth levels deep,
// looking for directories that contain a .stepwise/ subdirectory.
func scanForProjects(root string, maxDepth int) []string {
	root = expandHome(root)
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}

		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if currentDepth > maxDepth {
			return filepath.SkipDir
		}

		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}

		if info, err := os.Stat(filepath.Join(path, DirName)); err == nil && info.IsDir() {
			results = append(results, path)
			return filepath.SkipDir
		}

		return nil
	})

	return results
}

// DetectCurrentProject walks up from the working directory looking for a
// .stepwise/ directory.
func DetectCurrentProject() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findProjectRoot(dir)
}

func findProjectRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		if info, err := os.Stat(filepath.Join(dir, DirName)); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

func isDefinitionFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
