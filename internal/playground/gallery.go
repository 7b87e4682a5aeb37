package playground

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

// EmptyMessage is shown whenever the gallery has nothing to display.
const EmptyMessage = "No images yet."

// GalleryItem is one stored image ready for display. URL always goes through
// the image proxy, never straight to storage.
type GalleryItem struct {
	Key      string
	Uploaded string
	URL      string
}

type galleryLoadedMsg struct {
	seq    int
	images []api.R2Image
	err    error
}

type Gallery struct {
	ctx    context.Context
	src    ImageLister
	logger *zap.Logger

	seq     int
	loading bool
	items   []GalleryItem
}

func NewGallery(ctx context.Context, src ImageLister, logger *zap.Logger) *Gallery {
	return &Gallery{ctx: ctx, src: src, logger: logger}
}

// Load issues a fresh retrieval of the image list.
func (g *Gallery) Load() tea.Cmd {
	g.seq++
	g.loading = true
	seq, ctx, src := g.seq, g.ctx, g.src

	return func() tea.Msg {
		images, err := src.ListImages(ctx)
		return galleryLoadedMsg{seq: seq, images: images, err: err}
	}
}

func (g *Gallery) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(galleryLoadedMsg)
	if !ok || m.seq != g.seq {
		return nil
	}

	g.loading = false
	if m.err != nil {
		g.items = nil
		g.logger.Error("failed to load images", zap.Error(m.err))
		return nil
	}

	items := make([]GalleryItem, 0, len(m.images))
	for _, img := range m.images {
		items = append(items, GalleryItem{
			Key:      img.Key,
			Uploaded: img.Uploaded,
			URL:      g.src.ImageURL(img.Key),
		})
	}
	g.items = items
	return nil
}

func (g *Gallery) Items() []GalleryItem { return g.items }
func (g *Gallery) Loading() bool        { return g.loading }
func (g *Gallery) Empty() bool          { return len(g.items) == 0 }
