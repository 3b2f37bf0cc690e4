package models

import (
	"gorm.io/gorm"
)

// ExportedRecord is one flat row written by the sqlite output mode. Payload
// holds the row as JSON, using the same field names as the CSV columns.
type ExportedRecord struct {
	gorm.Model
	Kind       string `gorm:"index"`
	ExternalID string
	Name       string
	Payload    string
}
