package playground

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// MockBackend implements Backend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListModels(ctx context.Context) ([]api.Model, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.Model), args.Error(1)
}

func (m *MockBackend) Schema(ctx context.Context, modelID string) (*api.InputSchema, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.InputSchema), args.Error(1)
}

func (m *MockBackend) Generate(ctx context.Context, req api.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) FetchImage(ctx context.Context, ref string) ([]byte, error) {
	if data, err := api.DecodeDataURL(ref); err == nil {
		return data, nil
	}
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) ListImages(ctx context.Context) ([]api.R2Image, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.R2Image), args.Error(1)
}

func (m *MockBackend) ImageURL(key string) string {
	return "/api/image?key=" + key
}

// exampleSchema is {prompt: string (required), steps: integer default 20, 1..50}.
func exampleSchema(t *testing.T) *api.InputSchema {
	t.Helper()

	var s api.InputSchema
	require.NoError(t, json.Unmarshal([]byte(`{
		"properties": {
			"prompt": {"type": "string", "description": "Prompt"},
			"steps": {"type": "integer", "default": 20, "minimum": 1, "maximum": 50}
		},
		"required": ["prompt"]
	}`), &s))
	return &s
}

func ptr(f float64) *float64 { return &f }
