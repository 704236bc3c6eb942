package models

import "gorm.io/gorm"

type Board struct {
	gorm.Model

	Title   string `gorm:"not null"`
	OwnerID uint   `gorm:"not null;index"`

	// Relationships. The owner is not implicitly part of Members.
	Owner   Profile   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members []Profile `gorm:"many2many:board_members"`
	Tasks   []Task    `gorm:"foreignKey:BoardID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
