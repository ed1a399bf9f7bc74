package repository

import "kai_shield/internal/storage"

type Repositories struct {
	User        UserRepository
	Fingerprint FingerprintRepository
	ChainRecord ChainRecordRepository
	DMCA        DMCARepository
}

func NewRepositories(db *storage.Database) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Fingerprint: NewFingerprintRepository(db),
		ChainRecord: NewChainRecordRepository(db),
		DMCA:        NewDMCARepository(db),
	}
}
