package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportRunStatus string

const (
	ImportRunStatusRunning   ImportRunStatus = "running"
	ImportRunStatusCompleted ImportRunStatus = "completed"
	ImportRunStatusFailed    ImportRunStatus = "failed"
)

// RowFailure records the validation messages for one spreadsheet row.
type RowFailure struct {
	Row        int      `json:"row"`
	Place      string   `json:"place"`
	Dedication string   `json:"dedication"`
	Stored     bool     `json:"stored"`
	Errors     []string `json:"errors"`
}

type ImportRun struct {
	BaseUUIDModel
	Source          string                          `gorm:"type:text;not null"              json:"source"`
	Status          ImportRunStatus                 `gorm:"type:text;not null;index"        json:"status"`
	RowsRead        int                             `gorm:"type:integer;default:0;not null" json:"rowsRead"`
	TowersCreated   int                             `gorm:"type:integer;default:0;not null" json:"towersCreated"`
	ContactsCreated int                             `gorm:"type:integer;default:0;not null" json:"contactsCreated"`
	RowsInvalid     int                             `gorm:"type:integer;default:0;not null" json:"rowsInvalid"`
	RowsSkipped     int                             `gorm:"type:integer;default:0;not null" json:"rowsSkipped"`
	Failures        datatypes.JSONSlice[RowFailure] `gorm:"type:jsonb"                      json:"failures"`
	StartedAt       time.Time                       `gorm:"not null"                        json:"startedAt"`
	CompletedAt     *time.Time                      `                                       json:"completedAt,omitempty"`
	ErrorMessage    *string                         `gorm:"type:text"                       json:"errorMessage,omitempty"`
}
