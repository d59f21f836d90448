package services

import (
	"reflect"
	"testing"

	"backend/models"
)

func TestDisplayLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lift_pit", "Lift Pit"},
		{"machine_room", "Machine Room"},
		{"landings", "Landings"},
		{"lift_car_top", "Lift Car Top"},
	}
	for _, tt := range tests {
		if got := DisplayLocation(tt.in); got != tt.want {
			t.Errorf("DisplayLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestItemsForLocation(t *testing.T) {
	catalog := []models.ChecklistItem{
		{ID: "c", EquipmentType: "passenger", Location: "lift_pit", Order: 30},
		{ID: "a", EquipmentType: "passenger", Location: "lift_pit", Order: 10},
		{ID: "x", EquipmentType: "goods", Location: "lift_pit", Order: 5},
		{ID: "b", EquipmentType: "passenger", Location: "lift_pit", Order: 10},
		{ID: "other", EquipmentType: "passenger", Location: "lift_car", Order: 1},
		{ID: "z", EquipmentType: "passenger", Location: "lift_pit"}, // no order -> sorts last
	}

	items := ItemsForLocation(catalog, "passenger", "lift_pit")
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	// a and b share order 10; catalog order breaks the tie.
	want := []string{"a", "b", "c", "z"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestItemsForCategories(t *testing.T) {
	catalog := []models.ChecklistItem{
		{ID: "r1", EquipmentType: "passenger", Category: "reliability", Order: 2},
		{ID: "h1", EquipmentType: "passenger", Category: "housekeeping", Order: 1},
		{ID: "o1", EquipmentType: "passenger", Category: "outage_risk", Order: 3},
		{ID: "r2", EquipmentType: "goods", Category: "reliability", Order: 1},
	}

	items := ItemsForCategories(catalog, "passenger", "reliability", "outage_risk")
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	want := []string{"r1", "o1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func defectTestModel() *models.ProjectReport {
	return &models.ProjectReport{
		Name: "Harbour Towers",
		Equipment: []models.EquipmentReport{
			{
				EquipmentID: 1,
				Name:        "Lift 1",
				Category:    "passenger",
				Answers: map[string]models.Answer{
					"chk-commented":    {Status: models.StatusPriority1, Comment: "worn rope"},
					"chk-bare":         {Status: models.StatusPriority1},
					"chk-pass-comment": {Status: models.StatusPass, Comment: "fine"},
					"chk-evidence":     {Status: models.StatusPriority2},
					"chk-na":           {Status: models.StatusNA, Comment: "not fitted"},
				},
				Attachments: []models.Attachment{
					{AttachmentID: 9, InspectionItem: "chk-evidence", Name: "photo"},
				},
			},
		},
	}
}

func TestCollectDefectiveItems(t *testing.T) {
	catalog := []models.ChecklistItem{
		{ID: "chk-commented", EquipmentType: "passenger", Order: 1},
		{ID: "chk-bare", EquipmentType: "passenger", Order: 2},
		{ID: "chk-pass-comment", EquipmentType: "passenger", Order: 3},
		{ID: "chk-evidence", EquipmentType: "passenger", Order: 4},
		{ID: "chk-na", EquipmentType: "passenger", Order: 5},
	}

	items := CollectDefectiveItems(defectTestModel(), catalog)

	var ids []string
	for _, d := range items {
		ids = append(ids, d.Item.ID)
	}
	// priority + comment and priority + attachment qualify; a bare
	// priority, a commented pass and a commented n/a do not.
	want := []string{"chk-commented", "chk-evidence"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("defective ids = %v, want %v", ids, want)
	}

	if items[0].Answer.Comment != "worn rope" {
		t.Errorf("comment = %q", items[0].Answer.Comment)
	}
	if len(items[1].Attachments) != 1 || items[1].Attachments[0].AttachmentID != 9 {
		t.Errorf("attachments = %+v", items[1].Attachments)
	}
}

func TestCollectDefectiveItemsSkipsOtherEquipmentType(t *testing.T) {
	model := defectTestModel()
	catalog := []models.ChecklistItem{
		{ID: "chk-commented", EquipmentType: "goods", Order: 1},
	}
	if items := CollectDefectiveItems(model, catalog); len(items) != 0 {
		t.Errorf("catalog for another equipment type matched %d items", len(items))
	}
}

func TestFloorDesignationAxis(t *testing.T) {
	model := &models.ProjectReport{
		Equipment: []models.EquipmentReport{
			{Floors: []models.Floor{{Designation: "B1"}, {Designation: "L1"}, {Designation: "L2"}}},
			{Floors: []models.Floor{{Designation: "L1"}, {Designation: "L3"}}},
		},
	}
	want := []string{"B1", "L1", "L2", "L3"}
	if got := FloorDesignationAxis(model); !reflect.DeepEqual(got, want) {
		t.Errorf("axis = %v, want %v", got, want)
	}
}

func TestFloorDesignationAxisEmpty(t *testing.T) {
	if got := FloorDesignationAxis(&models.ProjectReport{}); len(got) != 0 {
		t.Errorf("axis of empty model = %v", got)
	}
}
