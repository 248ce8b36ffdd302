package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Invoice amounts are stored as integer cents.
type Invoice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID      `gorm:"type:uuid;index;not null"`
	Amount     int64          `gorm:"not null"`
	Status     string         `gorm:"type:varchar(255);index;not null"`
	Date       datatypes.Date `gorm:"not null"`
}
