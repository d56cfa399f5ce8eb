// Package logger writes run artifacts (parse trees, match results) as
// pretty-printed JSON files, one file per record.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Init creates the output directory if needed and clears any .json files
// left by a previous run.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".json") {
			_ = os.Remove(filepath.Join(dir, f.Name()))
		}
	}
	return nil
}

// WriteJSON writes data to <dir>/<name>.json.
func WriteJSON(dir, name string, data interface{}) error {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	file := filepath.Join(dir, fmt.Sprintf("%s.json", name))
	return os.WriteFile(file, bytes, 0o644)
}
