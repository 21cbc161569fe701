package data

import (
	"fmt"
	"os"

	"github.com/undergroundpolice/server/internal/host"
	"github.com/undergroundpolice/server/internal/world"
	"gopkg.in/yaml.v3"
)

// BlockEntry is one row of block_list.yaml.
type BlockEntry struct {
	Type         string   `yaml:"type"`
	Capabilities []string `yaml:"capabilities"`
	Functional   bool     `yaml:"functional"`
	Note         string   `yaml:"note"`
}

// BlockTable maps block type names to their definitions.
type BlockTable struct {
	blocks map[string]world.BlockType
}

// LoadBlockTable loads block_list.yaml.
func LoadBlockTable(path string) (*BlockTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block list: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse block list: %w", err)
	}
	if err := validateDoc("block_list.schema.json", doc); err != nil {
		return nil, fmt.Errorf("validate block list %s: %w", path, err)
	}
	var entries []BlockEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse block list: %w", err)
	}
	return newBlockTable(entries)
}

func newBlockTable(entries []BlockEntry) (*BlockTable, error) {
	t := &BlockTable{blocks: make(map[string]world.BlockType, len(entries))}
	for i, e := range entries {
		if e.Type == "" {
			return nil, fmt.Errorf("block list entry %d: missing type", i)
		}
		if _, dup := t.blocks[e.Type]; dup {
			return nil, fmt.Errorf("block list entry %d: duplicate type %q", i, e.Type)
		}
		caps, err := host.ParseCapabilities(e.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", e.Type, err)
		}
		// a body is what advertises capabilities
		functional := e.Functional || caps != 0
		t.blocks[e.Type] = world.BlockType{Name: e.Type, Capabilities: caps, Functional: functional}
	}
	return t, nil
}

// Lookup returns the block type registered under name.
func (t *BlockTable) Lookup(name string) (world.BlockType, bool) {
	bt, ok := t.blocks[name]
	return bt, ok
}

// Count returns the total number of block types loaded.
func (t *BlockTable) Count() int {
	return len(t.blocks)
}
