package models

import "gorm.io/gorm"

type Profile struct {
	gorm.Model

	UserID   uint   `gorm:"uniqueIndex;not null"`
	FullName string `gorm:"not null"`

	// Relationships
	User          *User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OwnedBoards   []Board `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedTasks  []Task  `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTasks []Task  `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ReviewedTasks []Task  `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
