package iocache

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetDocumentCache implements the StoreManager interface.
func (m *MockStoreManager) GetDocumentCache() contract.DocumentCache {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DocumentCache)
	return store
}

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockDocumentCache is a mock implementation of DocumentCache for testing.
type MockDocumentCache struct {
	mock.Mock
}

var _ contract.DocumentCache = &MockDocumentCache{} // Compile-time check

// Get implements the DocumentCache interface.
func (m *MockDocumentCache) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the DocumentCache interface.
func (m *MockDocumentCache) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the DocumentCache interface.
func (m *MockDocumentCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the DocumentCache interface.
func (m *MockDocumentCache) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// BeginSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) BeginSnapshot(source string, contentHash string, startTime time.Time) (int64, error) {
	args := m.Called(source, contentHash, startTime)
	return args.Get(0).(int64), args.Error(1)
}

// EndSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) EndSnapshot(snapshotID int64, endTime time.Time, featureCount int) error {
	args := m.Called(snapshotID, endTime, featureCount)
	return args.Error(0)
}

// RecordFeatureMetrics implements the SnapshotStore interface.
func (m *MockSnapshotStore) RecordFeatureMetrics(record schema.FeatureMetricsRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

// ListSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) ListSnapshots(limit int) ([]schema.SnapshotRecord, error) {
	args := m.Called(limit)
	records, _ := args.Get(0).([]schema.SnapshotRecord)
	return records, args.Error(1)
}

// GetAllSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAllSnapshots() ([]schema.SnapshotRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.SnapshotRecord)
	return records, args.Error(1)
}

// GetAllFeatureMetrics implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAllFeatureMetrics() ([]schema.FeatureMetricsRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.FeatureMetricsRecord)
	return records, args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}
