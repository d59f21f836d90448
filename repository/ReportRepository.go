package repository

import (
	"backend/models"
	"backend/utils"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrProjectNotFound is returned when the requested project does not
// exist or has been soft-deleted.
var ErrProjectNotFound = errors.New("project not found")

// ReportRepository assembles the read-only project report model. Rows
// come from the plain sql connection; the checklist catalog comes from
// the GORM connection.
type ReportRepository struct {
	db     *sql.DB
	gormDB *gorm.DB
}

func NewReportRepository(db *sql.DB, gormDB *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db, gormDB: gormDB}
}

// FetchProjectReport builds the full report model for one project:
// project + account, the equipment list in source order, then floors
// and attachments for the union of equipment ids in two batch queries
// run in parallel and grouped locally.
func (r *ReportRepository) FetchProjectReport(ctx context.Context, projectID int) (*models.ProjectReport, error) {
	ctx, cancel := utils.GetSlowQueryContext(ctx)
	defer cancel()

	report, err := r.fetchProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	equipment, err := r.fetchEquipment(ctx, projectID)
	if err != nil {
		return nil, err
	}
	report.Equipment = equipment

	if len(equipment) == 0 {
		return report, nil
	}

	ids := make([]int, 0, len(equipment))
	for _, eq := range equipment {
		ids = append(ids, eq.EquipmentID)
	}

	var (
		floorsByEquipment      map[int][]models.Floor
		attachmentsByEquipment map[int][]models.Attachment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		floorsByEquipment, err = r.fetchFloors(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		attachmentsByEquipment, err = r.fetchAttachments(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range report.Equipment {
		id := report.Equipment[i].EquipmentID
		report.Equipment[i].Floors = floorsByEquipment[id]
		report.Equipment[i].Attachments = attachmentsByEquipment[id]
	}

	return report, nil
}

func (r *ReportRepository) fetchProject(ctx context.Context, projectID int) (*models.ProjectReport, error) {
	query := `
		SELECT p.project_id, p.name, p.category, p.contractor,
		       p.address_line1, p.address_line2, p.city, p.state, p.postal_code, p.country,
		       p.inspection_date, COALESCE(a.name, '')
		FROM project p
		LEFT JOIN account a ON p.account_id = a.account_id
		WHERE p.project_id = $1 AND p.deleted = false
	`

	var report models.ProjectReport
	var line2, state sql.NullString
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&report.ProjectID, &report.Name, &report.Category, &report.Contractor,
		&report.Address.Line1, &line2, &report.Address.City, &state,
		&report.Address.PostalCode, &report.Address.Country,
		&report.InspectionDate, &report.AccountName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project %d: %v", projectID, err)
	}
	report.Address.Line2 = line2.String
	report.Address.State = state.String

	return &report, nil
}

// fetchEquipment preserves the equipment source ordering; display
// ordering is the renderers' concern.
func (r *ReportRepository) fetchEquipment(ctx context.Context, projectID int) ([]models.EquipmentReport, error) {
	query := `
		SELECT equipment_id, name, category, load_kg, speed,
		       floors_served_front, floors_served_rear,
		       COALESCE(attribute_groups, '{}'), COALESCE(answers, '{}')
		FROM equipment
		WHERE project_id = $1
		ORDER BY equipment_id
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch equipment: %v", err)
	}
	defer rows.Close()

	var equipment []models.EquipmentReport
	for rows.Next() {
		var eq models.EquipmentReport
		var groupsRaw, answersRaw []byte
		if err := rows.Scan(&eq.EquipmentID, &eq.Name, &eq.Category, &eq.Load, &eq.Speed,
			&eq.FloorsServedFront, &eq.FloorsServedRear, &groupsRaw, &answersRaw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(groupsRaw, &eq.Attributes); err != nil {
			return nil, fmt.Errorf("bad attribute_groups for equipment %d: %v", eq.EquipmentID, err)
		}
		if err := json.Unmarshal(answersRaw, &eq.Answers); err != nil {
			return nil, fmt.Errorf("bad answers for equipment %d: %v", eq.EquipmentID, err)
		}
		equipment = append(equipment, eq)
	}

	return equipment, rows.Err()
}

func (r *ReportRepository) fetchFloors(ctx context.Context, equipmentIDs []int) (map[int][]models.Floor, error) {
	query := `
		SELECT floor_id, equipment_id, designation,
		       COALESCE(door_opening, ''), COALESCE(levelling, ''), COALESCE(call_button, ''),
		       COALESCE(chime, ''), COALESCE(indication, ''), COALESCE(comments, '')
		FROM floor
		WHERE equipment_id = ANY($1)
		ORDER BY equipment_id, floor_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(equipmentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch floors: %v", err)
	}
	defer rows.Close()

	grouped := make(map[int][]models.Floor)
	for rows.Next() {
		var f models.Floor
		if err := rows.Scan(&f.FloorID, &f.EquipmentID, &f.Designation,
			&f.DoorOpening, &f.Levelling, &f.CallButton,
			&f.Chime, &f.Indication, &f.Comments); err != nil {
			return nil, err
		}
		grouped[f.EquipmentID] = append(grouped[f.EquipmentID], f)
	}

	return grouped, rows.Err()
}

func (r *ReportRepository) fetchAttachments(ctx context.Context, equipmentIDs []int) (map[int][]models.Attachment, error) {
	query := `
		SELECT attachment_id, equipment_id, COALESCE(inspection_item, ''), name,
		       low_name, thumb_name, large_name,
		       COALESCE(low_url, ''), COALESCE(thumb_url, ''), COALESCE(large_url, '')
		FROM attachment
		WHERE equipment_id = ANY($1)
		ORDER BY equipment_id, attachment_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(equipmentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %v", err)
	}
	defer rows.Close()

	grouped := make(map[int][]models.Attachment)
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.AttachmentID, &a.EquipmentID, &a.InspectionItem, &a.Name,
			&a.LowName, &a.ThumbName, &a.LargeName,
			&a.LowURL, &a.ThumbURL, &a.LargeURL); err != nil {
			return nil, err
		}
		grouped[a.EquipmentID] = append(grouped[a.EquipmentID], a)
	}

	return grouped, rows.Err()
}

// FetchChecklistCatalog reads the full checklist definition catalog in
// id order so repeated calls see an identical sequence.
func (r *ReportRepository) FetchChecklistCatalog(ctx context.Context) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	if err := r.gormDB.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch checklist catalog: %v", err)
	}
	return items, nil
}
