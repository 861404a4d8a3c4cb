package models

import "time"

// Snapshot is one persisted state slice of a device namespace. Every write
// replaces the whole value.
type Snapshot struct {
	Namespace string    `gorm:"primaryKey;size:128" json:"namespace"`
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
