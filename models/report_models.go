package models

import (
	"strings"
	"time"
)

// StatusCode is the inspector's recorded finding for one checklist
// item on one equipment unit. Empty or unrecognized values render as
// blank, never as an error.
type StatusCode string

const (
	StatusPass      StatusCode = "pass"
	StatusPriority1 StatusCode = "priority1"
	StatusPriority2 StatusCode = "priority2"
	StatusNA        StatusCode = "na"
	StatusUnknown   StatusCode = ""
)

// ParseStatusCode maps a raw stored value onto the enum. Anything it
// does not recognize collapses to StatusUnknown.
func ParseStatusCode(s string) StatusCode {
	switch StatusCode(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPass:
		return StatusPass
	case StatusPriority1:
		return StatusPriority1
	case StatusPriority2:
		return StatusPriority2
	case StatusNA:
		return StatusNA
	}
	return StatusUnknown
}

// IsDefective reports whether the status marks a priority finding.
func (s StatusCode) IsDefective() bool {
	return s == StatusPriority1 || s == StatusPriority2
}

// Inspection locations, in the canonical order both renderers group
// checklist items by.
const (
	LocationMachineRoom = "machine_room"
	LocationLiftCarTop  = "lift_car_top"
	LocationLiftWell    = "lift_well"
	LocationLiftPit     = "lift_pit"
	LocationLandings    = "landings"
	LocationLiftCar     = "lift_car"
)

// InspectionLocations is the fixed canonical ordering of the physical
// inspection zones.
var InspectionLocations = []string{
	LocationMachineRoom,
	LocationLiftCarTop,
	LocationLiftWell,
	LocationLiftPit,
	LocationLandings,
	LocationLiftCar,
}

// ProjectReport is the immutable request-scoped model both renderers
// consume. Built once per report request, read-only afterwards.
type ProjectReport struct {
	ProjectID      int               `json:"project_id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Contractor     string            `json:"contractor"`
	Address        Address           `json:"address"`
	AccountName    string            `json:"account_name,omitempty"`
	InspectionDate time.Time         `json:"inspection_date"`
	Equipment      []EquipmentReport `json:"equipment"`
}

// EquipmentNames returns the unit names comma-joined in model order.
func (p *ProjectReport) EquipmentNames() string {
	names := make([]string, 0, len(p.Equipment))
	for _, eq := range p.Equipment {
		names = append(names, eq.Name)
	}
	return strings.Join(names, ", ")
}

// Address is the structured project address plus its rendered form.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Text renders the address as a comma-joined single line, skipping
// empty parts, in fixed field order.
func (a Address) Text() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// EquipmentReport is one unit inside a ProjectReport with its floors,
// attachments and checklist answers attached.
type EquipmentReport struct {
	EquipmentID       int               `json:"equipment_id"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Load              int               `json:"load"`
	Speed             float64           `json:"speed"`
	FloorsServedFront int               `json:"floors_served_front"`
	FloorsServedRear  int               `json:"floors_served_rear"`
	Attributes        AttributeGroups   `json:"attributes"`
	Answers           map[string]Answer `json:"answers"`
	Floors            []Floor           `json:"floors"`
	Attachments       []Attachment      `json:"attachments"`
}

// Answer returns the recorded answer for a checklist id. An absent key
// means "no answer" and reads back as a blank answer.
func (e *EquipmentReport) Answer(checklistID string) Answer {
	if a, ok := e.Answers[checklistID]; ok {
		return a
	}
	return Answer{Status: StatusUnknown}
}

// FloorByDesignation finds the floor record matching a designation, or
// nil when the unit does not serve it.
func (e *EquipmentReport) FloorByDesignation(designation string) *Floor {
	for i := range e.Floors {
		if e.Floors[i].Designation == designation {
			return &e.Floors[i]
		}
	}
	return nil
}

// AttachmentsForItem returns the attachments illustrating one
// checklist item, in stored order.
func (e *EquipmentReport) AttachmentsForItem(checklistID string) []Attachment {
	var out []Attachment
	for _, att := range e.Attachments {
		if att.InspectionItem == checklistID {
			out = append(out, att)
		}
	}
	return out
}
