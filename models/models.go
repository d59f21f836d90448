package models

import (
	"time"

	_ "github.com/lib/pq"
)

type User struct {
	ID         int       `json:"id" example:"1"`
	Email      string    `json:"email" example:"user@example.com"`
	Password   string    `json:"password" example:""`
	FirstName  string    `json:"first_name" example:"John"`
	LastName   string    `json:"last_name" example:"Doe"`
	CreatedAt  time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	LastAccess time.Time `json:"last_access,omitempty" example:"2024-01-15T10:30:00Z"`
	IsAdmin    bool      `json:"is_admin" example:"false"`
	PhoneNo    string    `json:"phone_no" example:"9876543210"`
	Suspended  bool      `json:"suspended" example:"false"`
}

type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

// Account represents the account (customer) table.
type Account struct {
	AccountID   int       `json:"account_id" example:"1"`
	Name        string    `json:"name" example:"Harbour Towers Pte Ltd"`
	ContactName string    `json:"contact_name,omitempty" example:"Jane Tan"`
	Email       string    `json:"email,omitempty" example:"facilities@harbourtowers.example"`
	PhoneNo     string    `json:"phone_no,omitempty" example:"65123456"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// Project represents the project table. Deleted projects are kept as
// rows with the deleted flag set, never removed.
type Project struct {
	ProjectID      int       `json:"project_id" example:"1"`
	AccountID      int       `json:"account_id" example:"1"`
	Name           string    `json:"name" example:"Harbour Towers"`
	Category       string    `json:"category" example:"Commercial"`
	Contractor     string    `json:"contractor" example:"LiftCare Services"`
	AddressLine1   string    `json:"address_line1" example:"10 Harbour Front"`
	AddressLine2   string    `json:"address_line2,omitempty" example:"Tower B"`
	City           string    `json:"city" example:"Singapore"`
	State          string    `json:"state,omitempty" example:""`
	PostalCode     string    `json:"postal_code" example:"098633"`
	Country        string    `json:"country" example:"Singapore"`
	InspectionDate time.Time `json:"inspection_date" example:"2024-03-18T00:00:00Z"`
	Deleted        bool      `json:"deleted" example:"false"`
	CreatedAt      time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt      time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	AccountName    string    `json:"account_name,omitempty" example:"Harbour Towers Pte Ltd"`
}

// Equipment represents one lift/escalator unit belonging to a project.
// AttributeGroups and Answers are stored as jsonb columns.
type Equipment struct {
	EquipmentID       int               `json:"equipment_id" example:"1"`
	ProjectID         int               `json:"project_id" example:"1"`
	Name              string            `json:"name" example:"Passenger Lift 1"`
	Category          string            `json:"category" example:"passenger"`
	Load              int               `json:"load" example:"1000"`
	Speed             float64           `json:"speed" example:"1.75"`
	FloorsServedFront int               `json:"floors_served_front" example:"12"`
	FloorsServedRear  int               `json:"floors_served_rear" example:"0"`
	AttributeGroups   AttributeGroups   `json:"attribute_groups"`
	Answers           map[string]Answer `json:"answers"`
	CreatedAt         time.Time         `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt         time.Time         `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// AttributeGroups holds the nested attribute groups recorded against a
// unit (lift, lift_car, landings, lift_shaft, machine_room,
// car_interior, maintenance). Each group is a flat name -> value map.
type AttributeGroups map[string]map[string]string

// Attr returns the named attribute, or "" when the group or key is
// absent.
func (g AttributeGroups) Attr(group, key string) string {
	if g == nil {
		return ""
	}
	return g[group][key]
}

// Answer is the inspector's recorded finding for one checklist item.
type Answer struct {
	Status  StatusCode `json:"status"`
	Comment string     `json:"comment,omitempty"`
}

// Floor represents the floor table: one row per landing served by an
// equipment unit. The status-valued fields hold StatusCode strings.
type Floor struct {
	FloorID     int    `json:"floor_id" example:"1"`
	EquipmentID int    `json:"equipment_id" example:"1"`
	Designation string `json:"designation" example:"L1"`
	DoorOpening string `json:"door_opening,omitempty" example:"pass"`
	Levelling   string `json:"levelling,omitempty" example:"pass"`
	CallButton  string `json:"call_button,omitempty" example:"pass"`
	Chime       string `json:"chime,omitempty" example:"priority2"`
	Indication  string `json:"indication,omitempty" example:"pass"`
	Comments    string `json:"comments,omitempty" example:""`
}

// Attachment represents the attachment table: photographic evidence
// uploaded against an equipment unit, in three stored variants.
type Attachment struct {
	AttachmentID   int       `json:"attachment_id" example:"1"`
	EquipmentID    int       `json:"equipment_id" example:"1"`
	InspectionItem string    `json:"inspection_item,omitempty" example:"chk-pit-oil"`
	Name           string    `json:"name" example:"pit oil stain"`
	LowName        string    `json:"low_name" example:"3f1c_low.jpg"`
	ThumbName      string    `json:"thumb_name" example:"3f1c_thumb.jpg"`
	LargeName      string    `json:"large_name" example:"3f1c_large.jpg"`
	LowURL         string    `json:"low_url,omitempty"`
	ThumbURL       string    `json:"thumb_url,omitempty"`
	LargeURL       string    `json:"large_url,omitempty"`
	CreatedAt      time.Time `json:"created_at" example:"2024-03-18T10:30:00Z"`
}

// ChecklistItem represents the checklist_item table, read through the
// GORM connection.
type ChecklistItem struct {
	ID            string `json:"id" gorm:"column:id;primaryKey" example:"chk-pit-oil"`
	EquipmentType string `json:"equipment_type" gorm:"column:equipment_type" example:"passenger"`
	Title         string `json:"title" gorm:"column:title" example:"Pit free of oil and debris"`
	Location      string `json:"location" gorm:"column:location" example:"lift_pit"`
	Category      string `json:"category" gorm:"column:category" example:"housekeeping"`
	Order         int    `json:"order" gorm:"column:sort_order;default:1000" example:"1000"`
}

// TableName keeps GORM on the existing table.
func (ChecklistItem) TableName() string { return "checklist_item" }

// DefaultChecklistOrder is assumed when a catalog row carries no
// explicit sort order.
const DefaultChecklistOrder = 1000
