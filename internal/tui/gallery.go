package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nulzo/image-playground/internal/playground"
)

// GalleryView lists previously generated images with their proxy URLs.
type GalleryView struct {
	gallery *playground.Gallery
	spinner spinner.Model
	cursor  int
}

func NewGalleryView(gallery *playground.Gallery) *GalleryView {
	return &GalleryView{gallery: gallery, spinner: newSpinner()}
}

func (v *GalleryView) Init() tea.Cmd {
	return tea.Batch(v.gallery.Load(), v.spinner.Tick)
}

func (v *GalleryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return v, tea.Quit
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.gallery.Items())-1 {
				v.cursor++
			}
		case "r":
			return v, v.gallery.Load()
		}
		return v, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}
	return v, v.gallery.Update(msg)
}

func (v *GalleryView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Generated Images"))
	b.WriteString("\n\n")

	switch {
	case v.gallery.Loading():
		b.WriteString(v.spinner.View() + " Loading images...\n")
	case v.gallery.Empty():
		b.WriteString(mutedStyle.Render(playground.EmptyMessage) + "\n")
	default:
		for i, item := range v.gallery.Items() {
			cursor := "  "
			if i == v.cursor {
				cursor = focusedStyle.Render("> ")
			}
			b.WriteString(cursor + selectedStyle.Render(item.Key) + "  " + mutedStyle.Render(item.Uploaded) + "\n")
			b.WriteString("    " + urlStyle.Render(item.URL) + "\n")
		}
	}

	b.WriteString("\n" + mutedStyle.Render("r refresh • q back"))
	return b.String()
}
