package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nulzo/image-playground/internal/playground"
	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var png = []byte("\x89PNG\r\n\x1a\nimage")

func newService(t *testing.T, got *map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/models", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"@cf/test/flux","name":"Flux"}]`)
	})
	mux.HandleFunc("GET /api/schema", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"input":{"type":"object","properties":{
			"prompt":{"type":"string","description":"What to draw"},
			"steps":{"type":"integer","default":4,"minimum":1,"maximum":8}
		},"required":["prompt"]}}`)
	})
	mux.HandleFunc("POST /api/generate_image", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(got)
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, api.DataURL("image/png", png))
	})
	mux.HandleFunc("GET /api/images", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	generateInputs = nil
	generateOut = ""
	schemaJSON = false
	galleryPlain = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate_SavesImage(t *testing.T) {
	var body map[string]any
	srv := newService(t, &body)
	dir := t.TempDir()

	out, err := execute(t, "generate", "--server", srv.URL, "--model", "@cf/test/flux",
		"--set", "prompt=a red fox", "--out", dir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Generating with Flux")
	assert.Equal(t, map[string]any{"model": "@cf/test/flux", "prompt": "a red fox", "steps": 4.0}, body)

	data, err := os.ReadFile(filepath.Join(dir, playground.DownloadFilename))
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

func TestGenerate_Errors(t *testing.T) {
	srv := newService(t, &map[string]any{})

	_, err := execute(t, "generate", "--server", srv.URL, "--model", "@cf/test/flux")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required parameters: prompt")

	_, err = execute(t, "generate", "--server", srv.URL, "--model", "@cf/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model")

	_, err = execute(t, "generate", "--server", srv.URL, "--model", "@cf/test/flux", "--set", "steps=many")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps")

	_, err = execute(t, "generate", "--server", srv.URL, "--model", "@cf/test/flux", "--set", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=value")
}

func TestSchema_ListsFieldsInOrder(t *testing.T) {
	srv := newService(t, &map[string]any{})

	out, err := execute(t, "schema", "--server", srv.URL, "@cf/test/flux")
	require.NoError(t, err)

	prompt := bytes.Index([]byte(out), []byte("Prompt *"))
	steps := bytes.Index([]byte(out), []byte("Steps"))
	require.NotEqual(t, -1, prompt)
	require.NotEqual(t, -1, steps)
	assert.Less(t, prompt, steps)
	assert.Contains(t, out, "default=4")
	assert.Contains(t, out, "range=[1..8]")
}

func TestGalleryPlain_Empty(t *testing.T) {
	srv := newService(t, &map[string]any{})

	out, err := execute(t, "gallery", "--plain", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, playground.EmptyMessage)
}

func TestCheckForUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v1.2.0"}`)
	}))
	defer srv.Close()

	latest, newer, err := checkForUpdates(context.Background(), srv.Client(), srv.URL, "v1.1.9")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", latest)
	assert.True(t, newer)

	_, newer, err = checkForUpdates(context.Background(), srv.Client(), srv.URL, "v1.2.0")
	require.NoError(t, err)
	assert.False(t, newer)

	_, _, err = checkForUpdates(context.Background(), srv.Client(), srv.URL, "not-a-version")
	assert.Error(t, err)
}
