package doctypes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed doctypes.yaml
var defaultCatalog []byte

// Type is one uploadable document slot.
type Type struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// Catalog is the ordered list of document slots.
type Catalog struct {
	Types []Type `yaml:"documentTypes"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("doctypes: embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the built-in one when path is empty.
func Load(path string) (Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read doc types %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return Catalog{}, fmt.Errorf("parse doc types %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, err
	}
	if len(c.Types) == 0 {
		return Catalog{}, errors.New("no document types defined")
	}
	seen := make(map[string]struct{}, len(c.Types))
	for i, t := range c.Types {
		t.Key = strings.TrimSpace(t.Key)
		t.Label = strings.TrimSpace(t.Label)
		if t.Key == "" {
			return Catalog{}, fmt.Errorf("document type %d: key is required", i)
		}
		if _, dup := seen[t.Key]; dup {
			return Catalog{}, fmt.Errorf("document type %q defined twice", t.Key)
		}
		seen[t.Key] = struct{}{}
		if t.Label == "" {
			t.Label = t.Key
		}
		c.Types[i] = t
	}
	return c, nil
}

// Keys returns slot keys in catalog order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		keys = append(keys, t.Key)
	}
	return keys
}

// Lookup finds a slot by key.
func (c Catalog) Lookup(key string) (Type, bool) {
	for _, t := range c.Types {
		if t.Key == key {
			return t, true
		}
	}
	return Type{}, false
}

// Label returns the display label for key, falling back to the key itself.
func (c Catalog) Label(key string) string {
	if t, ok := c.Lookup(key); ok {
		return t.Label
	}
	return key
}
