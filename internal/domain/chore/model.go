package chore

import "time"

// Chore belongs to exactly one apartment; ApartmentID never changes and
// bounds both visibility and assignability. Completed and CompletedAt move
// together: completed ⇔ completed_at set.
type Chore struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"not null"`
	Category    string     `gorm:"not null;index"`
	ApartmentID string     `gorm:"type:uuid;not null;index"`
	AssignedTo  string     `gorm:"not null;default:''"`
	Completed   bool       `gorm:"not null;default:false"`
	CompletedAt *time.Time
	SortOrder   int `gorm:"not null;default:0"`
}

// Unassigned is the sentinel for a chore without an assignee.
const Unassigned = ""

// CategoryGroup is one display section: chores sorted by SortOrder with
// stable ties.
type CategoryGroup struct {
	Category string
	Chores   []Chore
}

// Assignee is the roster projection the engine needs for eligibility checks.
type Assignee struct {
	ID          string
	DisplayName string
}

type Progress struct {
	Total      int
	Completed  int
	Percentage float64
}
