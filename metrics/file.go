package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the file written into the output directory.
const FileName = "metrics.json"

// Write stores the record as dir/metrics.json, creating dir if needed, and
// returns the path of the file.
func Write(dir string, r Record) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)

	err = os.WriteFile(path, append(data, '\n'), 0644)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}

// Read parses a metrics file.
func Read(path string) (Record, error) {
	r := Record{}

	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}

	err = json.Unmarshal(data, &r)
	if err != nil {
		return r, fmt.Errorf("parsing %s: %w", path, err)
	}

	return r, nil
}
