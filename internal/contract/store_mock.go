package contract

import (
	"context"

	"github.com/huangsam/siri/schema"
	"github.com/stretchr/testify/mock"
)

// MockScoreStore is a mock implementation of ScoreStore for testing.
type MockScoreStore struct {
	mock.Mock
}

var _ ScoreStore = &MockScoreStore{} // Compile-time check

// RecordRun implements the ScoreStore interface.
func (m *MockScoreStore) RecordRun(ctx context.Context, report schema.ScoreReport) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}

// ListRuns implements the ScoreStore interface.
func (m *MockScoreStore) ListRuns(ctx context.Context, limit int) ([]schema.ScoreRunRecord, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]schema.ScoreRunRecord)
	return runs, args.Error(1)
}

// GetStatus implements the ScoreStore interface.
func (m *MockScoreStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}

// Close implements the ScoreStore interface.
func (m *MockScoreStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
