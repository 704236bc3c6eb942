package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	BoardID     uint   `gorm:"not null;index"`
	CreatorID   uint   `gorm:"not null;index"`
	AssigneeID  *uint  `gorm:"index"`
	ReviewerID  *uint  `gorm:"index"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:to-do"`
	Priority    string `gorm:"not null;default:medium"`
	DueDate     time.Time

	// Relationships
	Board    Board     `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator  Profile   `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *Profile  `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Reviewer *Profile  `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
