// Package downloads locates the Cronometer export files and keeps copies of raw API responses.
package downloads

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("no matching download")

// Latest returns the path of the '<prefix>_<timestamp>.csv' file in dir with the greatest timestamp.
// Timestamps are compared as strings and so are expected to be fixed width, e.g. 20240111.
func Latest(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	latest := ""
	found := false

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, prefix+"_") || !strings.HasSuffix(name, ".csv") {
			continue
		}

		timestamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"_"), ".csv")
		if timestamp == "" || strings.Contains(timestamp, "_") {
			continue
		}

		if !found || timestamp > latest {
			latest = timestamp
			found = true
		}
	}

	if !found {
		return "", fmt.Errorf("%w for '%s' in %v", ErrNotFound, prefix, dir)
	}

	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, latest)), nil
}

// SaveRaw writes an indented copy of a JSON response to the downloads directory.
func SaveRaw(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	var b bytes.Buffer
	if err := json.Indent(&b, data, "", "    "); err != nil {
		return fmt.Errorf("invalid JSON (%w)", err)
	}

	return os.WriteFile(filepath.Join(dir, name), b.Bytes(), 0660)
}
