package models

import (
	"gorm.io/gorm"
)

// Fingerprint 是上傳檔案內容的 sha256 指紋與其中繼資料
type Fingerprint struct {
	gorm.Model
	Hash        string `gorm:"uniqueIndex;not null;size:64" json:"hash"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
