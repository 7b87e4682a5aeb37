package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nulzo/image-playground/internal/cli"
	"github.com/nulzo/image-playground/internal/playground"
	"github.com/nulzo/image-playground/pkg/api"
)

const (
	SubmitLabel     = "Generate"
	LoadingLabel    = "Generating..."
	PlaceholderText = "Your generated image will appear here."

	fadeFrames = 8
	fadeStep   = 40 * time.Millisecond
)

type fadeMsg struct{ frame int }

func fadeTick(frame int) tea.Cmd {
	return tea.Tick(fadeStep, func(time.Time) tea.Msg { return fadeMsg{frame: frame} })
}

// Generator is the interactive generation view. Focus cycles through the
// model list, one input per schema property and the submit button.
type Generator struct {
	session *playground.Session
	dir     string

	cursor int
	focus  int

	form   *playground.Form
	fields []playground.Field
	inputs []textinput.Model

	spinner spinner.Model
	fade    int
	size    int
	notice  string
	width   int
}

func NewGenerator(session *playground.Session, downloadDir string) *Generator {
	return &Generator{
		session: session,
		dir:     downloadDir,
		spinner: newSpinner(),
	}
}

func (g *Generator) Init() tea.Cmd {
	return tea.Batch(g.session.Init(), g.spinner.Tick)
}

func (g *Generator) submitFocus() int { return len(g.inputs) + 1 }

func (g *Generator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		return g, nil
	case tea.KeyMsg:
		return g.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		g.spinner, cmd = g.spinner.Update(msg)
		return g, cmd
	case fadeMsg:
		g.fade = max(g.fade, msg.frame)
		if g.fade < fadeFrames {
			return g, fadeTick(g.fade + 1)
		}
		return g, nil
	case playground.DownloadedMsg:
		if msg.Err != nil {
			g.notice = "Download failed: " + msg.Err.Error()
		} else {
			g.notice = "Saved " + msg.Path
		}
		return g, nil
	}

	wasRevealed := g.session.Orchestrator.Revealed()
	cmd := g.session.Update(msg)
	g.sync()

	if !wasRevealed && g.session.Orchestrator.Revealed() {
		g.fade = 0
		if ref, ok := g.session.Orchestrator.Result(); ok {
			if data, err := api.DecodeDataURL(ref); err == nil {
				g.size = len(data)
			} else {
				g.size = 0
			}
		}
		return g, tea.Batch(cmd, fadeTick(1))
	}
	return g, cmd
}

func (g *Generator) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return g, tea.Quit
	case "tab":
		g.commitFocused()
		g.setFocus(g.focus + 1)
		return g, nil
	case "shift+tab":
		g.commitFocused()
		g.setFocus(g.focus - 1)
		return g, nil
	case "ctrl+s":
		if cmd := g.session.Orchestrator.DownloadCmd(g.dir); cmd != nil {
			g.notice = "Saving..."
			return g, cmd
		}
		return g, nil
	}

	switch {
	case g.focus == 0:
		return g, g.handleModelKey(msg)
	case g.focus == g.submitFocus():
		if msg.Type == tea.KeyEnter {
			return g, g.submit()
		}
		return g, nil
	default:
		if msg.Type == tea.KeyEnter {
			g.commitFocused()
			g.setFocus(g.focus + 1)
			return g, nil
		}
		i := g.focus - 1
		var cmd tea.Cmd
		g.inputs[i], cmd = g.inputs[i].Update(msg)
		return g, cmd
	}
}

func (g *Generator) handleModelKey(msg tea.KeyMsg) tea.Cmd {
	models := g.session.Catalog.Models()
	switch msg.String() {
	case "up", "k":
		if g.cursor > 0 {
			g.cursor--
		}
	case "down", "j":
		if g.cursor < len(models)-1 {
			g.cursor++
		}
	case "enter":
		if g.cursor < len(models) {
			g.notice = ""
			return g.session.Select(models[g.cursor].ID)
		}
	}
	return nil
}

func (g *Generator) submit() tea.Cmd {
	g.commitAll()
	if !g.session.CanSubmit() {
		if missing := g.session.Resolver.Form().Missing(); len(missing) > 0 {
			g.notice = "Required: " + strings.Join(missing, ", ")
		}
		return nil
	}
	g.notice = ""
	return tea.Batch(g.session.Submit(), g.spinner.Tick)
}

// commit writes one input to the form, only when its text differs from the
// committed value so untouched optional fields stay absent.
func (g *Generator) commit(i int) {
	raw := g.inputs[i].Value()
	if raw == g.fields[i].Value {
		return
	}
	if err := g.session.Set(g.fields[i].Name, raw); err != nil {
		g.notice = err.Error()
		return
	}
	g.fields[i].Value = raw
	g.notice = ""
}

func (g *Generator) commitFocused() {
	if i := g.focus - 1; i >= 0 && i < len(g.inputs) {
		g.commit(i)
	}
}

func (g *Generator) commitAll() {
	for i := range g.inputs {
		g.commit(i)
	}
}

func (g *Generator) setFocus(n int) {
	total := g.submitFocus() + 1
	n = ((n % total) + total) % total

	for i := range g.inputs {
		g.inputs[i].Blur()
	}
	g.focus = n
	if i := n - 1; i >= 0 && i < len(g.inputs) {
		g.inputs[i].Focus()
	}
}

// sync rebuilds the inputs when the resolver produced a new form.
func (g *Generator) sync() {
	form := g.session.Resolver.Form()
	if form == g.form {
		return
	}
	g.form = form
	g.fields = form.Fields()
	g.inputs = make([]textinput.Model, len(g.fields))
	for i, f := range g.fields {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.Placeholder = f.Placeholder
		ti.SetValue(f.Value)
		if f.Numeric() {
			ti.CharLimit = 32
		}
		g.inputs[i] = ti
	}
	if g.focus > g.submitFocus() {
		g.focus = g.submitFocus()
	}
	g.setFocus(g.focus)
}

func (g *Generator) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Image Playground"))
	b.WriteString("\n")

	b.WriteString(g.modelsView())
	b.WriteString(g.formView())
	b.WriteString("\n")
	b.WriteString(g.resultView())

	if g.notice != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(g.notice))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab/shift+tab move • enter select/submit • ctrl+s save • esc quit"))
	return b.String()
}

func (g *Generator) modelsView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Model"))
	b.WriteString("\n")

	cat := g.session.Catalog
	if cat.Loading() {
		b.WriteString(g.spinner.View() + " Loading models...\n")
		return b.String()
	}
	if len(cat.Models()) == 0 {
		b.WriteString(mutedStyle.Render("No models available.") + "\n")
		return b.String()
	}

	selected := g.session.Resolver.Selected()
	for i, m := range cat.Models() {
		cursor := "  "
		if i == g.cursor && g.focus == 0 {
			cursor = focusedStyle.Render("> ")
		}
		line := m.Name
		if m.ID == selected {
			line = selectedStyle.Render(m.Name) + " " + cli.CheckMark()
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (g *Generator) formView() string {
	res := g.session.Resolver
	if res.Selected() == "" {
		return mutedStyle.Render("Select a model to see its parameters.") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Parameters"))
	b.WriteString("\n")

	switch {
	case res.Pending():
		b.WriteString(g.spinner.View() + " Loading schema...\n")
	case res.Stale():
		b.WriteString(errorStyle.Render(fmt.Sprintf("Schema for %s is unavailable; showing the form of %s.",
			g.session.Catalog.Name(res.Selected()), g.session.Catalog.Name(g.form.Model()))) + "\n")
	}

	for i, f := range g.fields {
		label := playground.Marker(f)
		if g.focus == i+1 {
			label = focusedStyle.Render(label)
		}
		b.WriteString(label)
		if hint := bounds(f); hint != "" {
			b.WriteString(" " + mutedStyle.Render(hint))
		}
		b.WriteString("\n" + g.inputs[i].View() + "\n")
	}

	b.WriteString("\n" + g.buttonView() + "\n")
	return b.String()
}

func (g *Generator) buttonView() string {
	label := SubmitLabel
	if g.session.Orchestrator.Loading() {
		label = LoadingLabel
	}
	switch {
	case !g.session.CanSubmit():
		return buttonDisabledStyle.Render(label)
	case g.focus == g.submitFocus():
		return buttonFocusedStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}

func (g *Generator) resultView() string {
	o := g.session.Orchestrator
	switch o.State() {
	case playground.Loading:
		return panelStyle.Render(g.spinner.View() + " Generating image...")
	case playground.Failed:
		return panelStyle.Render(errorStyle.Render(cli.CrossMark() + " Generation failed. See the log for details."))
	case playground.Success:
		progress := 0.0
		if o.Revealed() {
			progress = float64(g.fade) / fadeFrames
		}
		color := cli.Lerp(dim, cli.BrandPurple, progress)
		style := panelStyle.BorderForeground(lipgloss.Color(color.Hex())).Foreground(lipgloss.Color(color.Hex()))

		body := "Image ready"
		if g.size > 0 {
			body += fmt.Sprintf(" (%s)", humanSize(g.size))
		}
		body += "\n" + mutedStyle.Render("ctrl+s to save as "+filepath.Join(g.dir, playground.DownloadFilename))
		return style.Render(body)
	default:
		return panelStyle.Render(mutedStyle.Render(PlaceholderText))
	}
}

func bounds(f playground.Field) string {
	if !f.Numeric() || (f.Min == nil && f.Max == nil) {
		return ""
	}
	format := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return fmt.Sprintf("[%s..%s]", format(f.Min), format(f.Max))
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
