package services

import (
	"sort"
	"strings"

	"backend/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var locationTitleCaser = cases.Title(language.Und)

// DisplayLocation renders a location key as its heading form, e.g.
// "lift_pit" -> "Lift Pit".
func DisplayLocation(location string) string {
	return locationTitleCaser.String(strings.ReplaceAll(location, "_", " "))
}

// ItemsForLocation filters the catalog to items matching an equipment
// category and location, sorted by display order ascending with stable
// ties (catalog order preserved).
func ItemsForLocation(catalog []models.ChecklistItem, equipmentType, location string) []models.ChecklistItem {
	var items []models.ChecklistItem
	for _, item := range catalog {
		if item.EquipmentType == equipmentType && item.Location == location {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return checklistOrder(items[i]) < checklistOrder(items[j])
	})
	return items
}

// ItemsForCategories filters the catalog to an equipment category and
// a set of narrative grouping tags, in display order.
func ItemsForCategories(catalog []models.ChecklistItem, equipmentType string, categories ...string) []models.ChecklistItem {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	var items []models.ChecklistItem
	for _, item := range catalog {
		if item.EquipmentType == equipmentType && wanted[item.Category] {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return checklistOrder(items[i]) < checklistOrder(items[j])
	})
	return items
}

func checklistOrder(item models.ChecklistItem) int {
	if item.Order == 0 {
		return models.DefaultChecklistOrder
	}
	return item.Order
}

// DefectiveItem is one row of the defective-items table: a priority
// finding with commentary or photographic evidence.
type DefectiveItem struct {
	Equipment   *models.EquipmentReport
	Item        models.ChecklistItem
	Answer      models.Answer
	Attachments []models.Attachment
}

// CollectDefectiveItems walks every equipment unit against the catalog
// and keeps the items whose recorded status is priority1/priority2 and
// which carry a non-empty comment or at least one attachment. Pass,
// n/a and unanswered items never qualify, commented or not.
func CollectDefectiveItems(model *models.ProjectReport, catalog []models.ChecklistItem) []DefectiveItem {
	var out []DefectiveItem
	for i := range model.Equipment {
		eq := &model.Equipment[i]
		for _, item := range sortedCatalog(catalog) {
			if item.EquipmentType != eq.Category {
				continue
			}
			answer := eq.Answer(item.ID)
			if !answer.Status.IsDefective() {
				continue
			}
			atts := eq.AttachmentsForItem(item.ID)
			if answer.Comment == "" && len(atts) == 0 {
				continue
			}
			out = append(out, DefectiveItem{
				Equipment:   eq,
				Item:        item,
				Answer:      answer,
				Attachments: atts,
			})
		}
	}
	return out
}

func sortedCatalog(catalog []models.ChecklistItem) []models.ChecklistItem {
	items := make([]models.ChecklistItem, len(catalog))
	copy(items, catalog)
	sort.SliceStable(items, func(i, j int) bool {
		return checklistOrder(items[i]) < checklistOrder(items[j])
	})
	return items
}

// FloorDesignationAxis is the shared pivot row axis: the union of
// floor designations across all equipment, first-seen order, no
// duplicates.
func FloorDesignationAxis(model *models.ProjectReport) []string {
	seen := make(map[string]bool)
	var axis []string
	for _, eq := range model.Equipment {
		for _, f := range eq.Floors {
			if !seen[f.Designation] {
				seen[f.Designation] = true
				axis = append(axis, f.Designation)
			}
		}
	}
	return axis
}
