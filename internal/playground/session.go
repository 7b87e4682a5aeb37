package playground

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Session wires the generator view together: the catalog feeds the
// selection, the selection drives the resolver, and submissions hand the
// selected model and current values to the orchestrator.
type Session struct {
	Catalog      *Catalog
	Resolver     *Resolver
	Orchestrator *Orchestrator
}

func NewSession(ctx context.Context, backend Backend, logger *zap.Logger, opts ...OrchestratorOption) *Session {
	return &Session{
		Catalog:      NewCatalog(ctx, backend, logger),
		Resolver:     NewResolver(ctx, backend, logger),
		Orchestrator: NewOrchestrator(ctx, backend, backend, logger, opts...),
	}
}

// Init starts the activation by loading the catalog.
func (s *Session) Init() tea.Cmd {
	return s.Catalog.Load()
}

func (s *Session) Select(id string) tea.Cmd {
	return s.Resolver.Select(id)
}

// Set commits one control entry of the current form.
func (s *Session) Set(name, raw string) error {
	return s.Resolver.Form().Set(name, raw)
}

// Valid reports whether the displayed form can be submitted for the selected
// model. A form kept from a previous selection never is.
func (s *Session) Valid() bool {
	if s.Resolver.Stale() {
		return false
	}
	return s.Resolver.Form().Valid(s.Resolver.Selected())
}

func (s *Session) CanSubmit() bool {
	return s.Orchestrator.CanSubmit(s.Valid())
}

func (s *Session) Submit() tea.Cmd {
	selected := s.Resolver.Selected()
	return s.Orchestrator.Submit(s.Resolver.Form().Request(selected), s.Valid())
}

// Update routes a message to every component; each ignores what is not its own.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	return tea.Batch(
		s.Catalog.Update(msg),
		s.Resolver.Update(msg),
		s.Orchestrator.Update(msg),
	)
}

// Drive runs cmd and every follow-up command to completion on the calling
// goroutine. It backs the non-interactive CLI.
func (s *Session) Drive(cmd tea.Cmd) {
	Drive(cmd, s.Update)
}

// Drive executes cmd, feeds its message to update and repeats with whatever
// command update returns, until there is none.
func Drive(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case nil:
		default:
			queue = append(queue, update(msg))
		}
	}
}
