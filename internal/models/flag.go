package models

import "time"

// Flag represents a feature flag: a named boolean toggle scoped to a project.
// The key is the machine-readable identifier consumers evaluate by; it is
// unique within a project, enforced by the composite unique index.
type Flag struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Key         string    `json:"key" gorm:"uniqueIndex:idx_flags_project_key;type:varchar(100);not null" validate:"required"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	Enabled     bool      `json:"enabled"`
	ProjectID   string    `json:"projectId" gorm:"uniqueIndex:idx_flags_project_key;type:varchar(36);not null"`
	Project     Project   `json:"-" gorm:"foreignKey:ProjectID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FlagState is the result of evaluating a flag: the key queried and its
// current boolean state.
type FlagState struct {
	Flag    string `json:"flag"`
	Enabled bool   `json:"enabled"`
}
