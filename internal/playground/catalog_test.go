package playground

import (
	"context"
	"testing"

	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestCatalog_Load(t *testing.T) {
	models := []api.Model{{ID: "@cf/a", Name: "A"}, {ID: "@cf/b", Name: "B"}}
	backend := new(MockBackend)
	backend.On("ListModels", mock.Anything).Return(models, nil)

	c := NewCatalog(context.Background(), backend, zap.NewNop())
	cmd := c.Load()
	assert.True(t, c.Loading())

	c.Update(cmd())

	assert.False(t, c.Loading())
	assert.Equal(t, models, c.Models())
	assert.Equal(t, "B", c.Name("@cf/b"))
	assert.Equal(t, "@cf/z", c.Name("@cf/z"))
}

func TestCatalog_FailureLeavesListEmpty(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListModels", mock.Anything).Return(nil, errBoom)

	c := NewCatalog(context.Background(), backend, zap.NewNop())
	c.Update(c.Load()())

	assert.Empty(t, c.Models())
	assert.False(t, c.Loading())
}

func TestCatalog_ReloadFetchesAgain(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListModels", mock.Anything).Return([]api.Model{{ID: "old"}}, nil).Once()
	backend.On("ListModels", mock.Anything).Return([]api.Model{{ID: "new"}}, nil).Once()

	c := NewCatalog(context.Background(), backend, zap.NewNop())
	first := c.Load()
	second := c.Load()

	// the latest load runs first and answers "old"; the earlier load answers
	// "new" afterwards and must be ignored
	c.Update(second())
	c.Update(first())

	assert.Equal(t, []api.Model{{ID: "old"}}, c.Models())
	backend.AssertNumberOfCalls(t, "ListModels", 2)
}
