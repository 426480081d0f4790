package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TechnicianType represents how a technician operates
type TechnicianType string

const (
	TechnicianFreelance TechnicianType = "freelance"
	TechnicianShop      TechnicianType = "shop"
)

// ApprovalStatus represents the moderation status of a technician profile
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Location geographic coordinates in degrees
type Location struct {
	Latitude  float64
	Longitude float64
}

// User the end user booking a repair (only fields the booking engine reads)
type User struct {
	ID       int64
	FullName string
	Location *Location // nil, если пользователь не указал местоположение
}

// Technician represents a repair technician (freelance or shop-based)
type Technician struct {
	ID       int64
	Username string
	FullName string
	Phone    string
	Address  string
	Location *Location

	Type   TechnicianType
	ShopID *int64 // Только для TechnicianShop
	// ServiceCategories пустой список или "All" означает "любая категория"
	ServiceCategories []string

	WorkingDays  []string     // "Mon", "Monday", ...
	WorkingHours WorkingHours // структура или свободный текст (legacy)

	ApprovalStatus ApprovalStatus
	Suspended      bool
	Banned         bool
	Blocked        bool
	Deleted        bool

	RatingAverage float64 // [0, 5], округлено до 0.1
	RatingCount   int
}

// IsApproved returns true if the profile passed moderation
func (t *Technician) IsApproved() bool {
	return t.ApprovalStatus == ApprovalApproved
}

// IsRestricted returns true if the technician is suspended, banned, blocked or deleted
func (t *Technician) IsRestricted() bool {
	return t.Suspended || t.Banned || t.Blocked || t.Deleted
}

// IsShop returns true for shop-based technicians
func (t *Technician) IsShop() bool {
	return t.Type == TechnicianShop
}

// HandlesCategory returns true if the technician serves the given diagnosis category.
// A technician without declared categories or with "All" is a wildcard.
func (t *Technician) HandlesCategory(category string) bool {
	if len(t.ServiceCategories) == 0 {
		return true
	}
	for _, c := range t.ServiceCategories {
		if strings.EqualFold(c, AllCategories) || strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(category)) {
			return true
		}
	}
	return false
}

// Shop is the authoritative source of name, address, hours and days for shop technicians
type Shop struct {
	ID           int64
	OwnerID      int64
	Name         string
	Address      string
	WorkingDays  []string
	WorkingHours WorkingHours
}

// StructuredHours working hours stored as a {startTime, endTime} pair in 24-hour "HH:MM"
type StructuredHours struct {
	StartTime string
	EndTime   string
}

// WorkingHours is a tagged variant: either Structured, Text (free-form legacy range
// like "9:00 AM - 5:00 PM") or Malformed (raw stored payload of an unknown shape).
// Zero value means "not set".
type WorkingHours struct {
	Structured *StructuredHours
	Text       string
	Malformed  string
}

// NewStructuredHours creates structured working hours
func NewStructuredHours(start, end string) WorkingHours {
	return WorkingHours{Structured: &StructuredHours{StartTime: start, EndTime: end}}
}

// NewTextHours creates free-text working hours
func NewTextHours(text string) WorkingHours {
	return WorkingHours{Text: text}
}

// IsEmpty returns true if no working hours are declared
func (w WorkingHours) IsEmpty() bool {
	if w.Malformed != "" {
		return false
	}
	if w.Structured != nil {
		return strings.TrimSpace(w.Structured.StartTime) == "" && strings.TrimSpace(w.Structured.EndTime) == ""
	}
	return strings.TrimSpace(w.Text) == ""
}

// IsStructured returns true for the {startTime, endTime} variant
func (w WorkingHours) IsStructured() bool {
	return w.Structured != nil
}

// IsMalformed returns true when the stored value matched none of the known shapes
func (w WorkingHours) IsMalformed() bool {
	return w.Malformed != ""
}

// legacyHours все известные варианты ключей объектного формата
type legacyHours struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Start     *string `json:"start"`
	End       *string `json:"end"`
}

// UnmarshalJSON accepts an object ({startTime,endTime} or {start,end}), a string, or null.
// Any other payload is kept as Malformed, never an error.
func (w *WorkingHours) UnmarshalJSON(data []byte) error {
	*w = WorkingHours{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			w.Text = text
			return nil
		}
	case '{':
		var raw legacyHours
		if err := json.Unmarshal(trimmed, &raw); err == nil {
			w.Structured = &StructuredHours{
				StartTime: firstNonEmpty(raw.StartTime, raw.Start),
				EndTime:   firstNonEmpty(raw.EndTime, raw.End),
			}
			return nil
		}
	}

	w.Malformed = string(trimmed)
	return nil
}

// MarshalJSON writes the variant back in its own shape
func (w WorkingHours) MarshalJSON() ([]byte, error) {
	if w.Structured != nil {
		return json.Marshal(map[string]string{
			"startTime": w.Structured.StartTime,
			"endTime":   w.Structured.EndTime,
		})
	}
	if w.Malformed != "" {
		if json.Valid([]byte(w.Malformed)) {
			return []byte(w.Malformed), nil
		}
		return json.Marshal(w.Malformed)
	}
	if w.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(w.Text)
}

// Scan реализует sql.Scanner для JSONB колонки
func (w *WorkingHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = WorkingHours{}
		return nil
	case []byte:
		return w.UnmarshalJSON(v)
	case string:
		return w.UnmarshalJSON([]byte(v))
	default:
		*w = WorkingHours{Malformed: fmt.Sprint(v)}
		return nil
	}
}

// Value реализует driver.Valuer
func (w WorkingHours) Value() (driver.Value, error) {
	if w.Structured == nil && w.Text == "" && w.Malformed == "" {
		return nil, nil
	}
	data, err := w.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

// AvailabilitySummary human-readable technician availability shown when a slot is rejected
type AvailabilitySummary struct {
	WorkingDays  []string // полные названия дней
	WorkingHours string   // "9:00 AM - 5:00 PM" или пустая строка
}
