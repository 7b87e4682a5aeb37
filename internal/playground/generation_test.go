package playground

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const pngRef = "data:image/png;base64,iVBORw0K"

var catRequest = api.GenerateRequest{Model: "m", Inputs: map[string]any{"prompt": "a cat", "steps": int64(20)}}

func newOrchestrator(backend *MockBackend, opts ...OrchestratorOption) *Orchestrator {
	opts = append([]OrchestratorOption{WithRevealDelay(time.Millisecond)}, opts...)
	return NewOrchestrator(context.Background(), backend, backend, zap.NewNop(), opts...)
}

func TestOrchestrator_Success(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, catRequest).Return(pngRef, nil)
	o := newOrchestrator(backend)
	assert.Equal(t, Idle, o.State())

	cmd := o.Submit(catRequest, true)
	require.NotNil(t, cmd)
	assert.Equal(t, Loading, o.State())
	_, held := o.Result()
	assert.False(t, held)

	reveal := o.Update(cmd())

	assert.Equal(t, Success, o.State())
	ref, held := o.Result()
	assert.True(t, held)
	assert.Equal(t, pngRef, ref)
	assert.False(t, o.Revealed(), "reveal must come on a later message")
	require.NotNil(t, reveal)

	o.Update(reveal())
	assert.True(t, o.Revealed())
}

func TestOrchestrator_SubmitNoops(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).Return(pngRef, nil)
	o := newOrchestrator(backend)

	assert.Nil(t, o.Submit(catRequest, false), "invalid form")
	assert.Equal(t, Idle, o.State())

	cmd := o.Submit(catRequest, true)
	require.NotNil(t, cmd)
	assert.False(t, o.CanSubmit(true))
	assert.Nil(t, o.Submit(catRequest, true), "already loading")

	o.Update(cmd())
	backend.AssertNumberOfCalls(t, "Generate", 1)
	assert.True(t, o.CanSubmit(true))
}

func TestOrchestrator_FailureThenSuccess(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).Return("", errBoom).Once()
	backend.On("Generate", mock.Anything, mock.Anything).Return(pngRef, nil).Once()
	o := newOrchestrator(backend)

	next := o.Update(o.Submit(catRequest, true)())
	assert.Nil(t, next)
	assert.Equal(t, Failed, o.State())
	_, held := o.Result()
	assert.False(t, held)

	o.Update(o.Submit(catRequest, true)())
	assert.Equal(t, Success, o.State())
}

func TestOrchestrator_EmptyReferenceFails(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).Return("", nil)
	o := newOrchestrator(backend)

	o.Update(o.Submit(catRequest, true)())
	assert.Equal(t, Failed, o.State())
}

func TestOrchestrator_ResubmitClearsResultAndReveal(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).Return(pngRef, nil)
	o := newOrchestrator(backend)

	staleReveal := o.Update(o.Submit(catRequest, true)())
	require.NotNil(t, staleReveal)
	msg := staleReveal()

	cmd := o.Submit(catRequest, true)
	require.NotNil(t, cmd)
	_, held := o.Result()
	assert.False(t, held)
	assert.False(t, o.Revealed())

	o.Update(msg)
	assert.False(t, o.Revealed(), "reveal from the previous submission is ignored")
	assert.Equal(t, Loading, o.State())
}

func TestOrchestrator_Timeout(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)
	o := newOrchestrator(backend, WithTimeout(10*time.Millisecond))

	o.Update(o.Submit(catRequest, true)())
	assert.Equal(t, Failed, o.State())
}

func TestOrchestrator_Download(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).Return(pngRef, nil)
	o := newOrchestrator(backend)
	dir := t.TempDir()

	path, err := o.Download(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, path, "nothing held, nothing saved")
	assert.Nil(t, o.DownloadCmd(dir))
	_, statErr := os.Stat(filepath.Join(dir, DownloadFilename))
	assert.True(t, os.IsNotExist(statErr))

	o.Update(o.Submit(catRequest, true)())

	cmd := o.DownloadCmd(dir)
	require.NotNil(t, cmd)
	msg, ok := cmd().(DownloadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, filepath.Join(dir, "generated-image.png"), msg.Path)

	data, err := os.ReadFile(msg.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}, data)
}

func TestOrchestrator_DownloadFetchesRemoteReference(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Generate", mock.Anything, mock.Anything).Return("/api/image?key=k.png", nil)
	backend.On("FetchImage", mock.Anything, "/api/image?key=k.png").Return([]byte("img"), nil)
	o := newOrchestrator(backend)
	o.Update(o.Submit(catRequest, true)())

	path, err := o.Download(context.Background(), t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestState_String(t *testing.T) {
	for state, want := range map[State]string{Idle: "idle", Loading: "loading", Success: "success", Failed: "failed"} {
		assert.Equal(t, want, state.String())
	}
}
