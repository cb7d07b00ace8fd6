// Package storage provides atomic file operations for JSON state kept in the
// XDG data directory.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/jmgilman/go/errors"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "gitprov"

// DataDir returns $XDG_DATA_HOME/gitprov, creating it if needed.
func DataDir() (string, error) {
	dir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, errors.CodeInternal, "create data directory %s", dir)
	}
	return dir, nil
}

// DataFile returns the path of name inside DataDir.
func DataFile(name string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// SaveJSON atomically writes data as JSON to the specified path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create parent directory")
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "marshal json")
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o600); err != nil {
		return errors.Wrapf(err, errors.CodeInternal, "write %s", tempPath)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Wrapf(err, errors.CodeInternal, "rename %s", tempPath)
	}
	return nil
}

// LoadJSON reads JSON from the specified path into dest.
// A missing file is reported with os.ErrNotExist in the chain.
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, errors.CodeNotFound, "read %s", path)
		}
		return errors.Wrapf(err, errors.CodeInternal, "read %s", path)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidInput, "parse %s", path)
	}
	return nil
}
