package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog maps a message key (the English printf format used at the call
// site) to its localized format.
type Catalog map[string]string

// Lookup returns the localized format for key, or key itself when the
// catalog has no entry.
func (c Catalog) Lookup(key string) string {
	if c == nil {
		return key
	}
	if v, ok := c[key]; ok && v != "" {
		return v
	}
	return key
}

// LoadCatalog reads <dir>/messages_<language>.yaml. A missing file yields an
// empty catalog so the caller falls back to untranslated messages.
func LoadCatalog(dir, language string) (Catalog, error) {
	if dir == "" || language == "" {
		return Catalog{}, nil
	}

	path := filepath.Join(dir, fmt.Sprintf("messages_%s.yaml", language))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Catalog{}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c == nil {
		c = Catalog{}
	}

	return c, nil
}
