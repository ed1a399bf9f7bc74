package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"kai_shield/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uint(len(m.users) + 1)
	m.users = append(m.users, u)
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memFingerprints struct {
	byHash map[string]*models.Fingerprint
}

func (m *memFingerprints) FirstOrCreate(_ context.Context, fp *models.Fingerprint) (bool, error) {
	if m.byHash == nil {
		m.byHash = map[string]*models.Fingerprint{}
	}
	if existing, ok := m.byHash[fp.Hash]; ok {
		*fp = *existing
		return false, nil
	}
	fp.ID = uint(len(m.byHash) + 1)
	stored := *fp
	m.byHash[fp.Hash] = &stored
	return true, nil
}

func (m *memFingerprints) FindByHash(_ context.Context, hash string) (*models.Fingerprint, error) {
	if fp, ok := m.byHash[hash]; ok {
		return fp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memRecords struct {
	records   []models.ChainRecord
	createErr error
}

func (m *memRecords) Create(_ context.Context, r *models.ChainRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.records = append(m.records, *r)
	return nil
}

func (m *memRecords) List(_ context.Context, fingerprint string, _ int) ([]models.ChainRecord, error) {
	var out []models.ChainRecord
	for _, r := range m.records {
		if fingerprint == "" || r.Fingerprint == fingerprint {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeChain struct {
	txHash  string
	address string
	err     error

	uploaded    []byte
	fingerprint string
	ipfsHash    string
}

func (f *fakeChain) Upload(_ context.Context, data []byte) (string, error) {
	f.uploaded = data
	return f.txHash, f.err
}

func (f *fakeChain) StoreRecord(_ context.Context, fingerprint, ipfsHash string) (string, error) {
	f.fingerprint, f.ipfsHash = fingerprint, ipfsHash
	return f.txHash, f.err
}

func (f *fakeChain) DeployContract(context.Context) (string, string, error) {
	return f.address, f.txHash, f.err
}

type fakeIntel struct {
	platform, keyword, videoURL string
	result                      json.RawMessage
	err                         error
}

func (f *fakeIntel) Crawl(_ context.Context, platform, keyword string) (json.RawMessage, error) {
	f.platform, f.keyword = platform, keyword
	return f.result, f.err
}

func (f *fakeIntel) Analyze(_ context.Context, videoURL string) (json.RawMessage, error) {
	f.videoURL = videoURL
	return f.result, f.err
}

type fakeStore struct {
	got    []byte
	result string
}

func (f *fakeStore) Add(_ context.Context, r io.Reader) (string, error) {
	f.got, _ = io.ReadAll(r)
	return f.result, nil
}

func (f *fakeStore) Upload(_ context.Context, r io.Reader) (string, error) {
	f.got, _ = io.ReadAll(r)
	return f.result, nil
}
