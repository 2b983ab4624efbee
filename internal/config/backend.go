package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigBackend abstracts config storage so tests can substitute an
// in-memory implementation.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
}

// fileBackend stores keys in a flat JSON object on disk. Writes go through
// a temp file plus rename so a crashed write never corrupts the config.
type fileBackend struct {
	path string
}

func newFileBackend(path string) *fileBackend {
	return &fileBackend{path: path}
}

func (f *fileBackend) read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", f.path, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func (f *fileBackend) write(m map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *fileBackend) GetString(key string) (string, bool, error) {
	m, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("config key %s is not a string", key)
	}
	return s, true, nil
}

func (f *fileBackend) GetInt(key string) (int, bool, error) {
	m, err := f.read()
	if err != nil {
		return 0, false, err
	}
	v, ok := m[key]
	if !ok {
		return 0, false, nil
	}
	// JSON numbers decode as float64.
	n, ok := v.(float64)
	if !ok {
		return 0, false, fmt.Errorf("config key %s is not a number", key)
	}
	return int(n), true, nil
}

func (f *fileBackend) SetString(key, val string) error {
	m, err := f.read()
	if err != nil {
		return err
	}
	m[key] = val
	return f.write(m)
}

func (f *fileBackend) SetInt(key string, val int) error {
	m, err := f.read()
	if err != nil {
		return err
	}
	m[key] = val
	return f.write(m)
}
