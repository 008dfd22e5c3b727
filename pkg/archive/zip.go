// Package archive builds zip artifacts from in-memory file maps.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// BuildZip writes the given path->content map into a single zip archive.
// Entries are written in sorted path order so identical inputs produce
// identical archives.
func BuildZip(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		f, err := w.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", path, err)
		}
		if _, err := f.Write(files[path]); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", path, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}

// ReindentJSON normalizes a .json payload to two-space indentation. Content
// that does not parse is returned untouched; datapack files frequently embed
// mcfunction text under .json-looking names and must not be destroyed.
func ReindentJSON(content []byte) []byte {
	var v interface{}
	if err := json.Unmarshal(content, &v); err != nil {
		return content
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return content
	}
	return out
}

// NormalizeJSONFiles applies ReindentJSON to every *.json entry of a file map
// in place and returns the map.
func NormalizeJSONFiles(files map[string][]byte) map[string][]byte {
	for path, content := range files {
		if strings.HasSuffix(path, ".json") || path == "pack.mcmeta" {
			files[path] = ReindentJSON(content)
		}
	}
	return files
}
