package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/andyballingall/stacv/internal/config"
	"github.com/andyballingall/stacv/internal/schema"
)

type MockManager struct {
	mock.Mock
	cfg *config.Config
}

func newMockManager() *MockManager {
	return &MockManager{cfg: config.Default()}
}

func (m *MockManager) Config() *config.Config {
	return m.cfg
}

func (m *MockManager) Validate(ctx context.Context, inputs []string, opts ValidateOptions) error {
	args := m.Called(ctx, inputs, opts)
	return args.Error(0)
}

func (m *MockManager) WatchValidation(ctx context.Context, inputs []string, opts ValidateOptions,
	readyChan chan<- struct{},
) error {
	args := m.Called(ctx, inputs, opts, readyChan)
	return args.Error(0)
}

func (m *MockManager) Resolve(ctx context.Context, input string) (schema.Resolution, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(schema.Resolution)
	return res, args.Error(1)
}

func (m *MockManager) RoundTrip(ctx context.Context, input string) ([]byte, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).([]byte)
	return res, args.Error(1)
}
