package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dougal-McGuire/api-research/internal/client"
	"github.com/Dougal-McGuire/api-research/internal/models"
	"github.com/Dougal-McGuire/api-research/internal/render"
)

// searcher is the slice of the backend client the UI needs; tests fake it.
type searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (models.SearchResult, error)
}

// uiState is the controller's state machine: idle → searching →
// displaying-result | displaying-error, back to idle on new input.
type uiState int

const (
	stateIdle uiState = iota
	stateSearching
	stateResult
	stateError
)

// searchStatuses are the rotating progress strings shown while a search is
// in flight. Purely cosmetic: the underlying call is a single request.
var searchStatuses = []string{
	"Contacting research model...",
	"Searching regulatory sources...",
	"Reading assessment reports...",
	"Cross-checking approvals...",
	"Compiling findings...",
}

const statusInterval = 3 * time.Second

// Messages for tea updates
type (
	resultMsg     models.SearchResult
	searchErrMsg  struct{ err error }
	statusTickMsg struct{}
)

type searchUI struct {
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	state      uiState
	api        searcher
	prefs      client.Prefs
	modelID    string
	debug      bool
	raw        bool
	result     *models.SearchResult
	errText    string
	validation string
	statusIdx  int
	width      int
	height     int
}

func newSearchUI(api searcher, prefs client.Prefs, substance, modelID string, debug, raw bool) searchUI {
	ti := textinput.New()
	ti.Placeholder = "Substance name (Enter to search, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 256
	ti.Width = 60
	ti.SetValue(substance)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return searchUI{
		input:    ti,
		spinner:  sp,
		viewport: vp,
		state:    stateIdle,
		api:      api,
		prefs:    prefs,
		modelID:  modelID,
		debug:    debug,
		raw:      raw,
	}
}

func (m searchUI) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m searchUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlR:
			// Toggle raw output and persist the preference.
			m.raw = !m.raw
			if err := m.prefs.Set(client.PrefRawOutput, strconv.FormatBool(m.raw)); err != nil {
				m.validation = "Preference not saved: " + err.Error()
			}
			if m.result != nil {
				m.viewport.SetContent(m.resultView())
			}
			return m, nil

		case tea.KeyEnter:
			return m.handleSubmit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		if m.result != nil {
			m.viewport.SetContent(m.resultView())
		}

	case statusTickMsg:
		if m.state == stateSearching {
			m.statusIdx = (m.statusIdx + 1) % len(searchStatuses)
			return m, statusTick()
		}
		return m, nil

	case resultMsg:
		result := models.SearchResult(msg)
		if result.Status == models.StatusError {
			m.state = stateError
			m.result = nil
			m.errText = result.Message
		} else {
			m.state = stateResult
			m.errText = ""
			m.result = &result
			m.viewport.SetContent(m.resultView())
			m.viewport.GotoTop()
			if result.ModelUsed != "" {
				if err := m.prefs.Set(client.PrefModel, result.ModelUsed); err != nil {
					m.validation = "Preference not saved: " + err.Error()
				}
			}
		}
		return m, nil

	case searchErrMsg:
		m.state = stateError
		m.result = nil
		m.errText = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if m.state == stateSearching {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}
		return m, nil
	}

	m.input, tiCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSubmit starts a search unless one is already in flight or the query
// is empty after trimming.
func (m searchUI) handleSubmit() (tea.Model, tea.Cmd) {
	if m.state == stateSearching {
		return m, nil
	}
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.validation = "Enter a substance name first."
		return m, nil
	}

	m.state = stateSearching
	m.validation = ""
	m.errText = ""
	m.result = nil
	m.statusIdx = 0

	return m, tea.Batch(m.spinner.Tick, statusTick(), m.runSearch(query))
}

func (m searchUI) runSearch(substance string) tea.Cmd {
	api, modelID, debug := m.api, m.modelID, m.debug
	return func() tea.Msg {
		result, err := api.Search(context.Background(), models.SearchRequest{
			APIName: substance,
			Debug:   debug,
			Model:   modelID,
		})
		if err != nil {
			return searchErrMsg{err: err}
		}
		return resultMsg(result)
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// resultView renders the current result through the block renderer.
func (m searchUI) resultView() string {
	if m.result == nil {
		return ""
	}
	if m.result.Status == models.StatusEmpty {
		return emptyStyle.Render("No content generated: " + m.result.Message)
	}

	doc := render.Render(m.result.ResearchContent, m.raw)
	out := formatDocument(doc)

	if len(m.result.Artifacts) > 0 {
		var b strings.Builder
		b.WriteString(out)
		b.WriteString("\n\n")
		b.WriteString(headingStyle.Render("Stored documents"))
		b.WriteString("\n")
		for _, a := range m.result.Artifacts {
			b.WriteString("• " + a.Title + " (" + linkStyle.Render(a.URL) + ")\n")
		}
		out = b.String()
	}
	return out
}

func (m searchUI) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("api-research"))
	if m.modelID != "" {
		b.WriteString(faintStyle.Render("  model: " + m.modelID))
	}
	if m.raw {
		b.WriteString(faintStyle.Render("  [raw]"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch m.state {
	case stateSearching:
		b.WriteString("\n" + m.spinner.View() + " " + searchStatuses[m.statusIdx] + "\n")
	case stateError:
		b.WriteString("\n" + errorStyle.Render("Research failed: "+m.errText) + "\n")
		b.WriteString(faintStyle.Render("Adjust the query and press Enter to retry.") + "\n")
	case stateResult:
		b.WriteString("\n" + m.viewport.View() + "\n")
	}

	if m.validation != "" {
		b.WriteString("\n" + errorStyle.Render(m.validation) + "\n")
	}

	b.WriteString("\n" + faintStyle.Render("Enter: search · Ctrl+R: toggle raw · Ctrl+C: quit"))
	return b.String()
}
