package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"StrikeBand/internal/model"

	"gopkg.in/yaml.v3"
)

// Catalog is the ordered list of tradable symbols loaded at startup.
type Catalog struct {
	Symbols []model.Symbol
	index   map[model.Symbol]struct{}
}

// entry accepts either a bare ticker string or a record with a Symbol field.
type entry struct {
	Symbol string `json:"Symbol" yaml:"Symbol"`
}

func (e *entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Symbol = s
		return nil
	}
	var rec struct {
		Symbol string `json:"Symbol"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	e.Symbol = rec.Symbol
	return nil
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Symbol = node.Value
		return nil
	}
	var rec struct {
		Symbol string `yaml:"Symbol"`
	}
	if err := node.Decode(&rec); err != nil {
		return err
	}
	e.Symbol = rec.Symbol
	return nil
}

// Load reads the catalog file. Supported shapes, in JSON or YAML:
//
//	{"stocks": ["RELIANCE", "TCS"]}
//	{"stocks": [{"Symbol": "RELIANCE"}]}
//	[{"Symbol": "RELIANCE"}, {"Symbol": "TCS"}]
//
// Any failure is a CATALOG_UNAVAILABLE error; there is no partial catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewError(model.CodeCatalogUnavailable, "read catalog", err)
	}

	var entries []entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = decode(data, yaml.Unmarshal)
	default:
		entries, err = decode(data, json.Unmarshal)
	}
	if err != nil {
		return nil, model.NewError(model.CodeCatalogUnavailable, "parse catalog "+path, err)
	}

	return build(entries)
}

func decode(data []byte, unmarshal func([]byte, any) error) ([]entry, error) {
	var wrapped struct {
		Stocks []entry `json:"stocks" yaml:"stocks"`
	}
	if err := unmarshal(data, &wrapped); err == nil && wrapped.Stocks != nil {
		return wrapped.Stocks, nil
	}
	var list []entry
	if err := unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func build(entries []entry) (*Catalog, error) {
	c := &Catalog{index: make(map[model.Symbol]struct{}, len(entries))}
	for i, e := range entries {
		s := model.Symbol(strings.ToUpper(strings.TrimSpace(e.Symbol)))
		if s == "" {
			return nil, model.NewError(model.CodeCatalogUnavailable, fmt.Sprintf("record %d has no Symbol", i), nil)
		}
		if _, dup := c.index[s]; dup {
			continue
		}
		c.index[s] = struct{}{}
		c.Symbols = append(c.Symbols, s)
	}
	if len(c.Symbols) == 0 {
		return nil, model.NewError(model.CodeCatalogUnavailable, "catalog is empty", nil)
	}
	return c, nil
}

// New builds a catalog from an in-memory list, with the same rules as Load.
func New(symbols ...string) (*Catalog, error) {
	entries := make([]entry, len(symbols))
	for i, s := range symbols {
		entries[i] = entry{Symbol: s}
	}
	return build(entries)
}

// Contains reports whether the symbol is listed.
func (c *Catalog) Contains(s model.Symbol) bool {
	_, ok := c.index[s]
	return ok
}
