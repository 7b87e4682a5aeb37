package playground

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

type schemaLoadedMsg struct {
	seq    int
	model  string
	schema *api.InputSchema
	err    error
}

// Resolver follows the selected model and keeps the form of its schema.
// Each retrieval is tagged with the selection it was issued for; an answer
// for a selection that has since been replaced is discarded, even when the
// same model was picked again.
type Resolver struct {
	ctx    context.Context
	src    SchemaSource
	logger *zap.Logger

	seq      int
	selected string
	pending  bool
	form     *Form
}

func NewResolver(ctx context.Context, src SchemaSource, logger *zap.Logger) *Resolver {
	return &Resolver{ctx: ctx, src: src, logger: logger}
}

// Select changes the selected model. A retrieval is issued only when the
// selection changes to a non-empty id.
func (r *Resolver) Select(id string) tea.Cmd {
	if id == r.selected {
		return nil
	}
	r.selected = id
	r.seq++
	if id == "" {
		r.pending = false
		return nil
	}

	r.pending = true
	seq, ctx, src := r.seq, r.ctx, r.src
	return func() tea.Msg {
		schema, err := src.Schema(ctx, id)
		return schemaLoadedMsg{seq: seq, model: id, schema: schema, err: err}
	}
}

func (r *Resolver) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(schemaLoadedMsg)
	if !ok {
		return nil
	}

	if m.seq != r.seq {
		r.logger.Debug("discarding schema for superseded model",
			zap.String("model", m.model),
			zap.String("selected", r.selected),
		)
		return nil
	}

	r.pending = false
	if m.err != nil {
		// the previous form, if any, stays in place
		r.logger.Error("failed to load schema", zap.String("model", m.model), zap.Error(m.err))
		return nil
	}
	if m.schema == nil {
		m.schema = api.NewInputSchema()
	}
	if err := m.schema.Validate(); err != nil {
		r.logger.Warn("schema is inconsistent", zap.String("model", m.model), zap.Error(err))
	}

	r.form = NewForm(m.model, m.schema)
	return nil
}

func (r *Resolver) Selected() string { return r.selected }

// Form is the form currently displayed, nil until a schema arrives.
func (r *Resolver) Form() *Form { return r.form }

// Pending reports an outstanding retrieval for the selected model.
func (r *Resolver) Pending() bool { return r.pending }

// Stale reports that the displayed form belongs to another model than the
// selected one, either while a retrieval is pending or after it failed.
func (r *Resolver) Stale() bool {
	return r.form != nil && r.form.Model() != r.selected
}
