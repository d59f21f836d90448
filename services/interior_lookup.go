package services

import (
	"encoding/json"
	"fmt"
	"os"
)

// The car-interior tables resolve each interior attribute's status
// through a fixed (attribute, equipment category) -> checklist-id
// mapping. This is configuration, not logic: the table below ships as
// the default and CAR_INTERIOR_LOOKUP_PATH can point at a JSON file
// replacing it. The mapping is intentionally partial; attributes with
// no entry (lights among them) have no dedicated checklist item and
// render a blank status.

type interiorKey struct {
	Attribute string
	Category  string
}

// CarInteriorAttributes is the fixed row list of the car-interior
// tables, in render order. The first element of each pair is the
// attribute key inside the car_interior group, the second the row
// label.
var CarInteriorAttributes = [][2]string{
	{"flooring", "Flooring"},
	{"walls", "Walls"},
	{"ceiling", "Ceiling"},
	{"handrail", "Handrail"},
	{"mirror", "Mirror"},
	{"operating_panel", "Car Operating Panel"},
	{"lights", "Lights"},
}

var interiorChecklist = map[interiorKey]string{
	{"flooring", "passenger"}:        "chk-car-flooring",
	{"walls", "passenger"}:           "chk-car-walls",
	{"ceiling", "passenger"}:         "chk-car-ceiling",
	{"handrail", "passenger"}:        "chk-car-handrail",
	{"mirror", "passenger"}:          "chk-car-mirror",
	{"operating_panel", "passenger"}: "chk-car-cop",
	{"flooring", "goods"}:            "chk-car-flooring",
	{"walls", "goods"}:               "chk-car-walls",
	{"ceiling", "goods"}:             "chk-car-ceiling",
	{"operating_panel", "goods"}:     "chk-car-cop",
}

// InteriorChecklistID resolves the checklist item recording an interior
// attribute's condition for an equipment category. The second return
// is false when the mapping has no entry.
func InteriorChecklistID(attribute, category string) (string, bool) {
	id, ok := interiorChecklist[interiorKey{Attribute: attribute, Category: category}]
	return id, ok
}

// LoadInteriorLookup replaces the built-in mapping from a JSON file of
// the shape {"category": {"attribute": "checklist-id"}}.
func LoadInteriorLookup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read interior lookup file: %v", err)
	}

	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("bad interior lookup file: %v", err)
	}

	table := make(map[interiorKey]string)
	for category, attrs := range raw {
		for attribute, id := range attrs {
			table[interiorKey{Attribute: attribute, Category: category}] = id
		}
	}
	interiorChecklist = table
	return nil
}
