package models

import (
	"gorm.io/gorm"
)

// ChainRecordKind 定義上鏈操作的種類
type ChainRecordKind string

const (
	ChainRecordUpload ChainRecordKind = "upload" // 檔案內容寫入交易 data
	ChainRecordStore  ChainRecordKind = "record" // 指紋與 IPFS hash 寫入合約
	ChainRecordDeploy ChainRecordKind = "deploy" // 部署合約
)

// ChainRecord 記錄一筆已送出的交易
type ChainRecord struct {
	gorm.Model
	Kind            ChainRecordKind `gorm:"type:varchar(20);not null" json:"kind"`
	TxHash          string          `gorm:"index;size:66" json:"tx_hash"`
	Fingerprint     string          `gorm:"index" json:"fingerprint,omitempty"`
	IPFSHash        string          `json:"ipfs_hash,omitempty"`
	ContractAddress string          `json:"contract_address,omitempty"`
}
