package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportBatch records one bulk CSV upload: how many rows made it in and a
// JSON report of the ones that were skipped.
type ImportBatch struct {
	gorm.Model
	Reference    string         `json:"reference" gorm:"uniqueIndex"`
	UploadedBy   int            `json:"uploadedBy"`
	Filename     string         `json:"filename"`
	ImportedRows int            `json:"importedRows"`
	SkippedRows  int            `json:"skippedRows"`
	SkipReport   datatypes.JSON `json:"skipReport"`
}
