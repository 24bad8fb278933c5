package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ModuleDefinition is an authored module: its adaptivity settings plus
// the ordered list of learning units.
type ModuleDefinition struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Settings *AdaptiveSettings    `json:"adaptiveSettings,omitempty"`
	Units    []StaticLearningUnit `json:"units"`
}

// Load reads and validates a module definition from a JSON file.
func Load(path string) (*ModuleDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module file: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw JSON against the module schema, decodes it, and
// runs structural validation.
func Parse(raw []byte) (*ModuleDefinition, error) {
	if err := validateAgainstSchema(raw); err != nil {
		return nil, err
	}

	var def ModuleDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}

	if err := validateModule(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// UnitsBySequence returns the units sorted by their sequence field.
// The engine consumes units in list order; this helper is for display
// surfaces that want authored ordering regardless of list order.
func (d *ModuleDefinition) UnitsBySequence() []StaticLearningUnit {
	units := make([]StaticLearningUnit, len(d.Units))
	copy(units, d.Units)
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Sequence < units[j].Sequence
	})
	return units
}

// UnitIndex builds a lookup from unit ID to unit.
func (d *ModuleDefinition) UnitIndex() map[string]*StaticLearningUnit {
	idx := make(map[string]*StaticLearningUnit, len(d.Units))
	for i := range d.Units {
		idx[d.Units[i].ID] = &d.Units[i]
	}
	return idx
}
