package models

import (
	"gorm.io/gorm"
)

type DMCAStatus string

const (
	DMCAStatusRequested DMCAStatus = "requested"
)

// DMCARequest 表示一筆侵權下架請求
type DMCARequest struct {
	gorm.Model
	InfringingURL string     `gorm:"not null" json:"infringing_url"`
	OriginalWork  string     `gorm:"not null" json:"original_work"`
	Status        DMCAStatus `gorm:"type:varchar(20)" json:"status"`
}
