package models

import "gorm.io/gorm"

// Comment content is immutable after creation; only deletion is supported.
type Comment struct {
	gorm.Model

	TaskID   uint `gorm:"not null;index"`
	AuthorID uint `gorm:"not null;index"`
	Content  string

	// Relationships
	Task   Task    `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author Profile `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
