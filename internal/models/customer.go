package models

import "github.com/google/uuid"

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(255);index;not null"`
	Email    string    `gorm:"type:varchar(255);not null"`
	ImageURL string    `gorm:"type:varchar(255)"`
}
