package iostore

import (
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, source, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalFiles int) error {
	args := m.Called(runID, endTime, totalFiles)
	return args.Error(0)
}

// RecordFileMetrics implements the HistoryStore interface.
func (m *MockHistoryStore) RecordFileMetrics(runID int64, metrics []schema.FileMetrics) error {
	args := m.Called(runID, metrics)
	return args.Error(0)
}

// RecordSurvivalCurves implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSurvivalCurves(runID int64, curves []schema.SurvivalCurve) error {
	args := m.Called(runID, curves)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllFileMetrics implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllFileMetrics() ([]schema.FileMetricsRecord, error) {
	args := m.Called()
	metrics, _ := args.Get(0).([]schema.FileMetricsRecord)
	return metrics, args.Error(1)
}

// GetAllSurvivalSamples implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSurvivalSamples() ([]schema.SurvivalSampleRecord, error) {
	args := m.Called()
	samples, _ := args.Get(0).([]schema.SurvivalSampleRecord)
	return samples, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
