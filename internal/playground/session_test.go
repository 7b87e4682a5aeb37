package playground

import (
	"context"
	"testing"

	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSession_EndToEnd(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListModels", mock.Anything).Return([]api.Model{{ID: "m", Name: "Model"}}, nil)
	backend.On("Schema", mock.Anything, "m").Return(exampleSchema(t), nil)
	backend.On("Generate", mock.Anything, api.GenerateRequest{
		Model:  "m",
		Inputs: map[string]any{"prompt": "a cat", "steps": int64(20)},
	}).Return(pngRef, nil)

	s := NewSession(context.Background(), backend, zap.NewNop(), WithRevealDelay(0))

	s.Drive(s.Init())
	require.Len(t, s.Catalog.Models(), 1)
	assert.False(t, s.Valid(), "nothing selected")
	assert.Nil(t, s.Submit())

	s.Drive(s.Select("m"))
	assert.False(t, s.CanSubmit(), "prompt missing")

	require.NoError(t, s.Set("prompt", "a cat"))
	assert.True(t, s.CanSubmit())

	s.Drive(s.Submit())

	assert.Equal(t, Success, s.Orchestrator.State())
	assert.True(t, s.Orchestrator.Revealed())
	backend.AssertExpectations(t)
}

func TestSession_SetWithoutSchema(t *testing.T) {
	s := NewSession(context.Background(), new(MockBackend), zap.NewNop())
	assert.Error(t, s.Set("prompt", "x"))
}

func TestSession_StaleFormCannotSubmit(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Schema", mock.Anything, "a").Return(exampleSchema(t), nil)
	backend.On("Schema", mock.Anything, "b").Return(nil, errBoom)

	s := NewSession(context.Background(), backend, zap.NewNop(), WithRevealDelay(0))
	s.Drive(s.Select("a"))
	require.NoError(t, s.Set("prompt", "a cat"))
	require.True(t, s.CanSubmit())

	cmd := s.Select("b")
	assert.False(t, s.CanSubmit(), "schema for b still pending")

	s.Drive(cmd)
	require.True(t, s.Resolver.Stale())
	assert.Equal(t, "a", s.Resolver.Form().Model())
	assert.False(t, s.Valid())
	assert.False(t, s.CanSubmit())
	assert.Nil(t, s.Submit())
	assert.Equal(t, Idle, s.Orchestrator.State())
	backend.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
