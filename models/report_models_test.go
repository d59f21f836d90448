package models

import (
	"reflect"
	"testing"
)

func TestParseStatusCode(t *testing.T) {
	cases := []struct {
		in   string
		want StatusCode
	}{
		{"pass", StatusPass},
		{"PASS", StatusPass},
		{"  Priority1 ", StatusPriority1},
		{"priority2", StatusPriority2},
		{"na", StatusNA},
		{"N/A", StatusUnknown},
		{"fail", StatusUnknown},
		{"", StatusUnknown},
	}
	for _, tc := range cases {
		if got := ParseStatusCode(tc.in); got != tc.want {
			t.Errorf("ParseStatusCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatusCodeIsDefective(t *testing.T) {
	cases := []struct {
		status StatusCode
		want   bool
	}{
		{StatusPass, false},
		{StatusPriority1, true},
		{StatusPriority2, true},
		{StatusNA, false},
		{StatusUnknown, false},
	}
	for _, tc := range cases {
		if got := tc.status.IsDefective(); got != tc.want {
			t.Errorf("%q.IsDefective() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestAddressText(t *testing.T) {
	cases := []struct {
		name string
		addr Address
		want string
	}{
		{
			"all fields",
			Address{Line1: "1 Quay St", Line2: "Level 4", City: "Auckland", State: "AKL", PostalCode: "1010", Country: "NZ"},
			"1 Quay St, Level 4, Auckland, AKL, 1010, NZ",
		},
		{
			"sparse",
			Address{Line1: "1 Quay St", City: "Auckland", Country: "NZ"},
			"1 Quay St, Auckland, NZ",
		},
		{"empty", Address{}, ""},
		{"city only", Address{City: "Wellington"}, "Wellington"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.addr.Text(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEquipmentReportAnswer(t *testing.T) {
	eq := EquipmentReport{
		Answers: map[string]Answer{
			"chk-pit-oil": {Status: StatusPriority2, Comment: "oil film"},
		},
	}

	if got := eq.Answer("chk-pit-oil"); got.Status != StatusPriority2 || got.Comment != "oil film" {
		t.Errorf("recorded answer came back as %+v", got)
	}
	if got := eq.Answer("chk-missing"); got.Status != StatusUnknown || got.Comment != "" {
		t.Errorf("absent answer came back as %+v, want blank", got)
	}

	var unanswered EquipmentReport
	if got := unanswered.Answer("chk-pit-oil"); got.Status != StatusUnknown {
		t.Errorf("nil answer map came back as %+v, want blank", got)
	}
}

func TestFloorByDesignation(t *testing.T) {
	eq := EquipmentReport{
		Floors: []Floor{
			{FloorID: 1, Designation: "B1"},
			{FloorID: 2, Designation: "L1"},
		},
	}

	floor := eq.FloorByDesignation("L1")
	if floor == nil || floor.FloorID != 2 {
		t.Fatalf("got %+v, want floor 2", floor)
	}
	// pointer into the slice, not a copy
	floor.Levelling = "pass"
	if eq.Floors[1].Levelling != "pass" {
		t.Error("FloorByDesignation returned a copy")
	}

	if got := eq.FloorByDesignation("L9"); got != nil {
		t.Errorf("unserved designation returned %+v, want nil", got)
	}
}

func TestAttachmentsForItem(t *testing.T) {
	eq := EquipmentReport{
		Attachments: []Attachment{
			{AttachmentID: 1, InspectionItem: "chk-pit-oil"},
			{AttachmentID: 2, InspectionItem: "chk-mr-guard"},
			{AttachmentID: 3, InspectionItem: "chk-pit-oil"},
			{AttachmentID: 4},
		},
	}

	got := eq.AttachmentsForItem("chk-pit-oil")
	ids := make([]int, 0, len(got))
	for _, att := range got {
		ids = append(ids, att.AttachmentID)
	}
	if want := []int{1, 3}; !reflect.DeepEqual(ids, want) {
		t.Errorf("got attachments %v, want %v", ids, want)
	}

	if got := eq.AttachmentsForItem("chk-none"); got != nil {
		t.Errorf("unreferenced item returned %v, want none", got)
	}
}

func TestEquipmentNames(t *testing.T) {
	report := ProjectReport{
		Equipment: []EquipmentReport{
			{Name: "Lift 1"},
			{Name: "Lift 2"},
			{Name: "Goods Lift"},
		},
	}
	if got, want := report.EquipmentNames(), "Lift 1, Lift 2, Goods Lift"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	var empty ProjectReport
	if got := empty.EquipmentNames(); got != "" {
		t.Errorf("got %q for zero equipment, want empty", got)
	}
}
