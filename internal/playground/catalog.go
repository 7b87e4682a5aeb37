package playground

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

type catalogLoadedMsg struct {
	seq    int
	models []api.Model
	err    error
}

// Catalog holds the selectable models of one view activation.
type Catalog struct {
	ctx    context.Context
	src    CatalogSource
	logger *zap.Logger

	seq     int
	loading bool
	models  []api.Model
}

func NewCatalog(ctx context.Context, src CatalogSource, logger *zap.Logger) *Catalog {
	return &Catalog{ctx: ctx, src: src, logger: logger}
}

// Load issues a fresh retrieval. Responses to earlier loads are dropped.
func (c *Catalog) Load() tea.Cmd {
	c.seq++
	c.loading = true
	seq, ctx, src := c.seq, c.ctx, c.src

	return func() tea.Msg {
		models, err := src.ListModels(ctx)
		return catalogLoadedMsg{seq: seq, models: models, err: err}
	}
}

func (c *Catalog) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(catalogLoadedMsg)
	if !ok || m.seq != c.seq {
		return nil
	}

	c.loading = false
	if m.err != nil {
		c.models = nil
		c.logger.Error("failed to load model catalog", zap.Error(m.err))
		return nil
	}

	c.models = m.models
	c.logger.Debug("model catalog loaded", zap.Int("count", len(m.models)))
	return nil
}

func (c *Catalog) Models() []api.Model { return c.models }
func (c *Catalog) Loading() bool       { return c.loading }

// Name resolves a model id to its display name, falling back to the id.
func (c *Catalog) Name(id string) string {
	for _, m := range c.models {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}
