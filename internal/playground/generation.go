package playground

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

const (
	// DownloadFilename is the fixed name a downloaded result is saved under.
	DownloadFilename = "generated-image.png"

	DefaultRevealDelay = 50 * time.Millisecond
)

var errEmptyImage = errors.New("empty image reference")

// State of the generation state machine.
type State int

const (
	Idle State = iota
	Loading
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

type generatedMsg struct {
	seq int
	ref string
	err error
}

type revealMsg struct {
	seq int
}

// DownloadedMsg reports the outcome of DownloadCmd.
type DownloadedMsg struct {
	Path string
	Err  error
}

type OrchestratorOption func(*Orchestrator)

// WithRevealDelay sets the pause between a result arriving and it being revealed.
func WithRevealDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.revealDelay = d
	}
}

// WithTimeout bounds each generation request; zero waits indefinitely.
func WithTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// Orchestrator sequences a submission through Idle, Loading, Success and
// Failed. A result is held only in Success, and the reveal flag is only set
// by a later message than the one that stored the result.
type Orchestrator struct {
	ctx    context.Context
	gen    ImageGenerator
	fetch  ImageFetcher
	logger *zap.Logger

	revealDelay time.Duration
	timeout     time.Duration

	state    State
	seq      int
	result   string
	revealed bool
}

func NewOrchestrator(ctx context.Context, gen ImageGenerator, fetch ImageFetcher, logger *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		ctx:         ctx,
		gen:         gen,
		fetch:       fetch,
		logger:      logger,
		revealDelay: DefaultRevealDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CanSubmit mirrors the enabled state of the submit control.
func (o *Orchestrator) CanSubmit(valid bool) bool {
	return valid && o.state != Loading
}

// Submit enters Loading and returns the request command. It is a no-op while
// the form is invalid or a request is in flight.
func (o *Orchestrator) Submit(req api.GenerateRequest, valid bool) tea.Cmd {
	if !o.CanSubmit(valid) {
		return nil
	}

	o.result = ""
	o.revealed = false
	o.state = Loading
	o.seq++

	seq, ctx, gen, timeout := o.seq, o.ctx, o.gen, o.timeout
	o.logger.Info("submitting generation", zap.String("model", req.Model), zap.Int("seq", seq))

	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ref, err := gen.Generate(ctx, req)
		return generatedMsg{seq: seq, ref: ref, err: err}
	}
}

func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case generatedMsg:
		if m.seq != o.seq || o.state != Loading {
			return nil
		}
		if m.err == nil && m.ref == "" {
			m.err = errEmptyImage
		}
		if m.err != nil {
			o.state = Failed
			o.logger.Error("error generating image", zap.Int("seq", m.seq), zap.Error(m.err))
			return nil
		}

		o.state = Success
		o.result = m.ref
		seq := m.seq
		return tea.Tick(o.revealDelay, func(time.Time) tea.Msg {
			return revealMsg{seq: seq}
		})

	case revealMsg:
		if m.seq == o.seq && o.state == Success {
			o.revealed = true
		}
	}
	return nil
}

func (o *Orchestrator) State() State   { return o.state }
func (o *Orchestrator) Loading() bool  { return o.state == Loading }
func (o *Orchestrator) Revealed() bool { return o.revealed }

// Result returns the held image reference, if any.
func (o *Orchestrator) Result() (string, bool) {
	return o.result, o.state == Success
}

// Download saves the held image as dir/generated-image.png and returns the
// path. Without a result it does nothing and returns "".
func (o *Orchestrator) Download(ctx context.Context, dir string) (string, error) {
	ref, ok := o.Result()
	if !ok {
		return "", nil
	}
	return save(ctx, o.fetch, ref, dir)
}

func save(ctx context.Context, fetch ImageFetcher, ref, dir string) (string, error) {
	data, err := fetch.FetchImage(ctx, ref)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, DownloadFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}

// DownloadCmd runs Download off the UI goroutine. It returns nil when no
// result is held.
func (o *Orchestrator) DownloadCmd(dir string) tea.Cmd {
	ref, ok := o.Result()
	if !ok {
		return nil
	}
	ctx, fetch := o.ctx, o.fetch
	return func() tea.Msg {
		path, err := save(ctx, fetch, ref, dir)
		return DownloadedMsg{Path: path, Err: err}
	}
}
