package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/image-playground/internal/config"
	"github.com/nulzo/image-playground/internal/httpclient"
	"github.com/nulzo/image-playground/internal/server"
	v1 "github.com/nulzo/image-playground/internal/server/v1"
	"github.com/nulzo/image-playground/internal/store/cache"
	"github.com/nulzo/image-playground/internal/store/sqlite"
	"github.com/nulzo/image-playground/internal/workersai"
	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockInference is a mock implementation of v1.Inference
type MockInference struct {
	mock.Mock
}

func (m *MockInference) Schema(ctx context.Context, model string) (*api.ModelSchema, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ModelSchema), args.Error(1)
}

func (m *MockInference) Run(ctx context.Context, model string, inputs map[string]any) (*workersai.Image, error) {
	args := m.Called(ctx, model, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workersai.Image), args.Error(1)
}

var catalog = []api.Model{
	{ID: "@cf/test/flux", Name: "Flux"},
	{ID: "@cf/test/sdxl", Name: "SDXL"},
}

func setup(t *testing.T) (*MockInference, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ai := new(MockInference)
	repo, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	keys := []string{"0001.png", "0002.png"}
	h := v1.NewHandler(catalog, ai, repo, zap.NewNop(),
		v1.WithSchemaCache(cache.NewMemoryCache(), time.Minute),
		v1.WithKeyFunc(func() string {
			k := keys[0]
			keys = keys[1:]
			return k
		}),
	)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	return ai, server.New(cfg, zap.NewNop(), h).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	_, h := setup(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListModels(t *testing.T) {
	_, h := setup(t)

	w := do(t, h, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []api.Model
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, catalog, got)
}

func TestGetSchema_CachedAfterFirstFetch(t *testing.T) {
	ai, h := setup(t)

	schema := &api.ModelSchema{Input: *api.NewInputSchema("prompt").
		Set("prompt", api.SchemaProperty{Type: api.TypeString}).
		Set("steps", api.SchemaProperty{Type: api.TypeInteger, Default: 20.0})}
	ai.On("Schema", mock.Anything, "@cf/test/flux").Return(schema, nil).Once()

	first := do(t, h, http.MethodGet, "/api/schema?model=%40cf%2Ftest%2Fflux", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(t, h, http.MethodGet, "/api/schema?model=%40cf%2Ftest%2Fflux", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var got api.ModelSchema
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &got))
	assert.Equal(t, []string{"prompt", "steps"}, got.Input.Names())

	ai.AssertExpectations(t)
}

func TestGetSchema_Errors(t *testing.T) {
	ai, h := setup(t)
	ai.On("Schema", mock.Anything, "missing").
		Return(nil, &httpclient.UpstreamError{StatusCode: http.StatusNotFound})
	ai.On("Schema", mock.Anything, "down").Return(nil, errors.New("dial tcp: refused"))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/schema", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/schema?model=missing", nil).Code)

	w := do(t, h, http.MethodGet, "/api/schema?model=down", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "failed to fetch model schema")
}

func TestGenerateImage_StoresAndListsImage(t *testing.T) {
	ai, h := setup(t)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	ai.On("Run", mock.Anything, "@cf/test/flux", map[string]any{"prompt": "a cat", "steps": 20.0}).
		Return(&workersai.Image{ContentType: "image/png", Data: png}, nil)

	w := do(t, h, http.MethodPost, "/api/generate_image", []byte(`{"model":"@cf/test/flux","prompt":"a cat","steps":20}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, api.DataURL("image/png", png), w.Body.String())

	w = do(t, h, http.MethodGet, "/api/images", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var images []api.R2Image
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &images))
	require.Len(t, images, 1)
	assert.Equal(t, "0001.png", images[0].Key)
	_, err := time.Parse(time.RFC3339, images[0].Uploaded)
	assert.NoError(t, err)

	w = do(t, h, http.MethodGet, "/api/image?key=0001.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())
}

func TestGenerateImage_Rejections(t *testing.T) {
	ai, h := setup(t)
	ai.On("Run", mock.Anything, "@cf/test/sdxl", mock.Anything).
		Return(nil, &httpclient.UpstreamError{StatusCode: http.StatusBadRequest})

	w := do(t, h, http.MethodPost, "/api/generate_image", []byte(`{"prompt":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "model is a required field")

	w = do(t, h, http.MethodPost, "/api/generate_image", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/generate_image", []byte(`{"model":"@cf/unknown"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown model")

	w = do(t, h, http.MethodPost, "/api/generate_image", []byte(`{"model":"@cf/test/sdxl"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "the model rejected the request")

	w = do(t, h, http.MethodGet, "/api/images", nil)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetImage_Missing(t *testing.T) {
	_, h := setup(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/image", nil).Code)

	w := do(t, h, http.MethodGet, "/api/image?key=nope.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no image with key nope.png")
}
