// File: snowcfg/io.go
package snowcfg

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DumpTOML renders a flat resolved mapping back into nested TOML, the shape
// `snowcfg resolve -o toml` prints.
func DumpTOML(flat map[string]any) ([]byte, error) {
	nested := make(map[string]any)
	for key, value := range flat {
		setNestedValue(nested, key, value)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(nested); err != nil {
		return nil, fmt.Errorf("encode resolved config to TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// atomicWriteFile writes data through a temp file plus rename so a crashed
// export never leaves a truncated file behind.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("sync temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temporary file to %q: %w", path, err)
	}
	return nil
}
