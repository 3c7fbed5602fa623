// Package registry discovers GGUF model files on disk so the daemon can
// resolve a model id to a loadable path.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"replyd/internal/common/fsutil"
	"replyd/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the full filename (including extension); Path is the
// absolute file path. Quantization and family are best-effort guesses from
// the filename. Results are sorted by ID for stable listings.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.Model{
			ID:     name,
			Name:   name,
			Path:   filepath.Join(abs, name),
			Quant:  guessQuant(name),
			Family: guessFamily(name),
		})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// ByID returns the model with the given id, if present.
func ByID(models []types.Model, id string) (types.Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}

// guessQuant extracts a llama.cpp quantization suffix like Q4_K_M from a
// filename, if one is present.
func guessQuant(name string) string {
	upper := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, part := range strings.FieldsFunc(upper, func(r rune) bool { return r == '.' || r == '-' }) {
		if len(part) >= 2 && part[0] == 'Q' && part[1] >= '0' && part[1] <= '9' {
			return part
		}
	}
	return ""
}

// guessFamily picks a known model family out of the filename.
func guessFamily(name string) string {
	lower := strings.ToLower(name)
	// tinyllama before llama: contains-matching picks the first hit.
	for _, fam := range []string{"qwen", "tinyllama", "llama", "mistral", "phi", "gemma"} {
		if strings.Contains(lower, fam) {
			return fam
		}
	}
	return ""
}
