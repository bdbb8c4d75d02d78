// Command gen-scripts checks every Lua script under assets/scripts and
// writes assets/scripts/index.yaml listing the hooks and props of each.
// Scripts whose hash matches the existing index are not parsed again.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"lava/internal/scripting"

	"gopkg.in/yaml.v3"
)

const indexName = "index.yaml"

type Index struct {
	Scripts []scripting.Info `yaml:"scripts"`
}

type result struct {
	info    scripting.Info
	skipped bool
	err     error
}

func main() {
	sourceDir := "assets/scripts"
	if len(os.Args) > 1 {
		sourceDir = os.Args[1]
	}

	if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
		fmt.Printf("❌ Source directory not found: %s\n", sourceDir)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(sourceDir, "*.lua"))
	if err != nil {
		fmt.Printf("❌ Failed to read source directory: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("⚠️  No .lua files found in %s\n", sourceDir)
		return
	}

	indexPath := filepath.Join(sourceDir, indexName)
	cached, err := readIndex(indexPath)
	if err != nil {
		fmt.Printf("⚠️  Ignoring unreadable index: %v\n", err)
	}

	fmt.Printf("🔧 Indexing scripts in %s...\n", sourceDir)

	var index Index
	generated, skipped, failed := 0, 0, 0
	for _, file := range files {
		r := processScript(file, cached)
		name := strings.TrimSuffix(filepath.Base(file), ".lua")
		switch {
		case r.err != nil:
			fmt.Printf("   ✗ %s: %v\n", name, r.err)
			failed++
			continue
		case r.skipped:
			skipped++
		default:
			fmt.Printf("   ✓ %s %v\n", name, r.info.Hooks)
			generated++
		}
		for _, u := range r.info.Unknown {
			fmt.Printf("   ⚠️  %s defines %s, which is not a hook\n", name, u)
		}
		index.Scripts = append(index.Scripts, r.info)
	}

	if err := writeIndex(indexPath, index); err != nil {
		fmt.Printf("❌ Failed to write %s: %v\n", indexPath, err)
		os.Exit(1)
	}

	fmt.Printf("✅ Indexed %d, skipped %d (cached) in %s\n", generated, skipped, indexPath)
	if failed > 0 {
		os.Exit(1)
	}
}

// processScript inspects one file unless cached already holds an entry
// with the same hash.
func processScript(path string, cached map[string]scripting.Info) result {
	src, err := os.ReadFile(path)
	if err != nil {
		return result{err: fmt.Errorf("failed to read file: %w", err)}
	}
	name := filepath.Base(path)
	if prev, ok := cached[name]; ok && prev.Hash == scripting.Hash(src) {
		return result{info: prev, skipped: true}
	}
	info, err := scripting.Inspect(name, src)
	if err != nil {
		return result{err: err}
	}
	return result{info: info}
}

// readIndex returns the entries of an existing index by script name. A
// missing index is empty, not an error.
func readIndex(path string) (map[string]scripting.Info, error) {
	out := make(map[string]scripting.Info)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, info := range idx.Scripts {
		out[info.Name] = info
	}
	return out, nil
}

func writeIndex(path string, idx Index) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return err
	}
	header := "# Generated by gen-scripts. Do not edit.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0644)
}
