package models

import "time"

// Project is an owned namespace containing feature flags. A user cannot have
// two projects with the same name; the composite unique index backs that
// invariant at the store level.
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"uniqueIndex:idx_projects_owner_name;type:varchar(100);not null" validate:"required"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	OwnerID     string    `json:"-" gorm:"uniqueIndex:idx_projects_owner_name;type:varchar(36);not null"`
	Owner       User      `json:"-" gorm:"foreignKey:OwnerID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
