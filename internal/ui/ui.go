package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/progress"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TemplateListView ViewState = iota
	ConfirmView
	ProgressView
	ResultView
)

// TemplateLister fetches the templates offered in the launch view.
type TemplateLister interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	client   TemplateLister
	tracker  *progress.Tracker
	config   models.GenerationConfig
	width    int
	height   int
	ready    bool
	list     list.Model
	selected *models.Template
	snapshot *models.GenerationProgress
	err      error
	help     help.Model
	keys     keyMap
}

type templatesFetchedMsg struct {
	templates []models.Template
	err       error
}

type generationStartedMsg struct {
	id  string
	err error
}

type cancelRequestedMsg struct {
	err error
}

type trackerUpdateMsg progress.Update

type tickMsg time.Time

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, client TemplateLister, tracker *progress.Tracker, config models.GenerationConfig) *Model {
	return &Model{
		ctx:     ctx,
		view:    TemplateListView,
		client:  client,
		tracker: tracker,
		config:  config,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching templates from the backend.
func (m *Model) Init() tea.Cmd {
	return m.fetchTemplates()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.list.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TemplateListView:
			return m.handleTemplateListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ProgressView:
			return m.handleProgressKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case templatesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.templates))
		for i, template := range msg.templates {
			items[i] = templateItem{template: template}
		}
		m.list = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.list.Title = "Newsletter Templates"
		m.list.SetSize(m.width-4, m.height-8)
		m.ready = true
		return m, nil

	case generationStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.view = ProgressView
		return m, tea.Batch(m.waitForUpdate(), m.tick())

	case cancelRequestedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case trackerUpdateMsg:
		if msg.Progress != nil {
			m.snapshot = msg.Progress
			if m.snapshot.Terminal() {
				m.view = ResultView
				return m, nil
			}
		}
		if msg.Err != nil {
			m.err = msg.Err
			if errors.Is(msg.Err, shared.ErrStreamExhausted) {
				m.view = ResultView
				return m, nil
			}
		}
		return m, m.waitForUpdate()

	case tickMsg:
		if m.view == ProgressView {
			return m, m.tick()
		}
		return m, nil
	}

	if m.view == TemplateListView && m.ready {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView && m.view != ProgressView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TemplateListView:
		return m.renderTemplateList()
	case ConfirmView:
		return m.renderConfirm()
	case ProgressView:
		return m.renderProgress()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTemplateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.ready {
		if key := msg.String(); key == "q" || key == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected := m.list.SelectedItem(); selected != nil {
			if item, ok := selected.(templateItem); ok {
				template := item.template
				m.selected = &template
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TemplateListView
		m.selected = nil
		return m, nil
	case "y", "enter":
		return m, m.startGeneration()
	}
	return m, nil
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "c":
		return m, m.cancelGeneration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "o":
		if m.snapshot != nil && m.snapshot.GhostPostURL != "" {
			// Browser launch failures are not fatal to the TUI.
			_ = shared.OpenBrowser(m.snapshot.GhostPostURL)
		}
		return m, nil
	case "r":
		m.tracker.Clear()
		m.view = TemplateListView
		m.selected = nil
		m.snapshot = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) fetchTemplates() tea.Cmd {
	return func() tea.Msg {
		templates, err := m.client.ListTemplates(m.ctx)
		return templatesFetchedMsg{templates: templates, err: err}
	}
}

func (m *Model) startGeneration() tea.Cmd {
	config := m.config
	if m.selected != nil {
		config.TemplateID = m.selected.ID
	}

	return func() tea.Msg {
		id, err := m.tracker.Start(m.ctx, config)
		return generationStartedMsg{id: id, err: err}
	}
}

func (m *Model) cancelGeneration() tea.Cmd {
	return func() tea.Msg {
		return cancelRequestedMsg{err: m.tracker.Cancel(m.ctx)}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case update := <-m.tracker.Updates():
			return trackerUpdateMsg(update)
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) renderTemplateList() string {
	if !m.ready {
		return styles.title.Render("Loading templates...")
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.list.View(), helpView)
}

func (m *Model) renderConfirm() string {
	name := "default template"
	if m.selected != nil {
		name = m.selected.Name
	}
	title := styles.title.Render(fmt.Sprintf("Generate newsletter with '%s'?", name))
	info := fmt.Sprintf("\nPublication mode: %s\n", m.config.PublicationMode)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func stepGlyph(status models.StepStatus) string {
	switch status {
	case models.StepSuccess:
		return styles.ok.Render("✓")
	case models.StepFailed:
		return styles.err.Render("✗")
	case models.StepRunning:
		return styles.warn.Render("▸")
	case models.StepSkipped:
		return styles.help.Render("-")
	default:
		return styles.help.Render("·")
	}
}

func (m *Model) renderProgress() string {
	title := styles.title.Render("Generating Newsletter")
	if m.snapshot == nil {
		return fmt.Sprintf("%s\n\nStarting...", title)
	}

	body := fmt.Sprintf("%d%%  elapsed %s\n\n", m.snapshot.Progress, shared.FormatElapsed(m.snapshot.Elapsed(time.Now())))
	for _, step := range m.snapshot.Steps {
		line := fmt.Sprintf("%s %s", stepGlyph(step.Status), step.Step)
		if step.Status == models.StepRunning && step.Message != "" {
			line += styles.help.Render(fmt.Sprintf("  %s", step.Message))
		}
		if step.ItemsCount != nil {
			line += styles.help.Render(fmt.Sprintf("  (%d items)", *step.ItemsCount))
		}
		body += line + "\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.cancel, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s\n%s", title, body, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}

	if m.snapshot != nil && m.snapshot.IsComplete {
		title := styles.ok.Render("✓ Newsletter Published!")
		info := ""
		if m.snapshot.GhostPostURL != "" {
			info = fmt.Sprintf("\nPost: %s\n", m.snapshot.GhostPostURL)
			helpKeys = []key.Binding{m.keys.open, m.keys.restart, m.keys.quit}
		}
		helpView := m.help.ShortHelpView(helpKeys)
		return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
	}

	if m.snapshot != nil && m.snapshot.IsCancelled {
		title := styles.warn.Render("Generation cancelled")
		helpView := m.help.ShortHelpView(helpKeys)
		return fmt.Sprintf("%s\n\n%s", title, helpView)
	}

	reason := "unknown failure"
	if m.err != nil {
		reason = m.err.Error()
	} else if m.snapshot != nil && m.snapshot.Error != "" {
		reason = m.snapshot.Error
	}
	title := styles.err.Render(fmt.Sprintf("Generation failed: %s", reason))
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\nPress r to start over\n%s", title, helpView)
}
