package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"

	"github.com/tatianab/text-rpg/internal/game"
	"github.com/tatianab/text-rpg/internal/models"
)

const (
	premisePlaceholder = "e.g. I am a nervous squirrel trying to steal a nut from a dragon's hoard..."
	actionPlaceholder  = "Type an action, or 1-3 to pick a choice..."
	sheetWidth         = 32
)

type model struct {
	store    *game.Store
	newStore func() *game.Store
	logger   zerolog.Logger

	textInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	hpBar     progress.Model
	spBar     progress.Model

	// relationship panel cursor and open detail view
	selected int
	detailID string

	notice string
	width  int
	height int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#4F46E5")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	engineLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#818CF8")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FECACA")).
			Background(lipgloss.Color("#7F1D1D")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3F3F46")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#67E8F9")).
			Bold(true)

	gameOverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F43F5E")).
			Bold(true)
)

func NewModel(newStore func() *game.Store, logger zerolog.Logger) model {
	ti := textinput.New()
	ti.Placeholder = premisePlaceholder
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#818CF8"))

	return model{
		store:     newStore(),
		newStore:  newStore,
		logger:    logger,
		textInput: ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		hpBar:     progress.New(progress.WithSolidFill("#F43F5E"), progress.WithoutPercentage()),
		spBar:     progress.New(progress.WithSolidFill("#10B981"), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

type initDoneMsg struct {
	store   *game.Store
	premise string
	resp    *models.InitResponse
	err     error
}

type turnDoneMsg struct {
	store *game.Store
	resp  *models.TurnResponse
	err   error
}

type copiedMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		state := m.store.State()
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			if state.IsRelationshipPanelOpen {
				if m.detailID != "" {
					m.detailID = ""
				} else {
					m.store.ToggleRelationshipPanel()
				}
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyCtrlR:
			if state.Character != nil {
				m.store.ToggleRelationshipPanel()
				m.selected = 0
				m.detailID = ""
			}
			return m, nil

		case tea.KeyCtrlY:
			return m, m.copyTranscript()
		}

		if state.IsRelationshipPanelOpen {
			return m.updatePanel(msg, state)
		}

		if msg.Type == tea.KeyEnter {
			return m.submit(strings.TrimSpace(m.textInput.Value()))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width-sheetWidth-4)
		m.viewport.Height = max(5, msg.Height-10)
		m.textInput.Width = max(20, msg.Width-6)
		m.refreshLog()
		return m, nil

	case initDoneMsg:
		if msg.store != m.store {
			return m, nil
		}
		m.store.CompleteInit(msg.premise, msg.resp, msg.err)
		if m.store.State().Status == models.StatusPlaying {
			m.textInput.Placeholder = actionPlaceholder
		}
		m.refreshLog()
		return m, nil

	case turnDoneMsg:
		if msg.store != m.store {
			return m, nil
		}
		m.store.CompleteTurn(msg.resp, msg.err)
		if m.store.State().Status == models.StatusGameOver {
			m.notice = "The story has ended. Type /restart to play again."
		}
		m.refreshLog()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("copy transcript")
			m.notice = "Could not copy the transcript."
		} else {
			m.notice = "Transcript copied to clipboard."
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.store.State().IsProcessing {
			m.refreshLog()
		}
		return m, cmd
	}

	// controls are disabled while a request is in flight
	if m.store.State().IsProcessing {
		return m, nil
	}
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) updatePanel(msg tea.KeyMsg, state models.GameState) (tea.Model, tea.Cmd) {
	if m.detailID != "" || state.Character == nil {
		return m, nil
	}
	rels := models.SortByRecency(state.Character.Relationships)
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(rels)-1 {
			m.selected++
		}
	case "enter":
		if m.selected < len(rels) {
			m.detailID = rels[m.selected].ID
		}
	}
	return m, nil
}

func (m model) submit(text string) (tea.Model, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	state := m.store.State()

	switch text {
	case "/quit":
		return m, tea.Quit
	case "/restart":
		m.store = m.newStore()
		m.logger.Info().Str("session_id", m.store.ID().String()).Msg("session restarted")
		m.textInput.Reset()
		m.textInput.Placeholder = premisePlaceholder
		m.notice = ""
		m.selected = 0
		m.detailID = ""
		m.refreshLog()
		return m, nil
	}

	if state.Status == models.StatusInit {
		if err := m.store.BeginInit(text); err != nil {
			return m, nil
		}
		m.textInput.Reset()
		m.notice = ""
		return m, m.initialize(text)
	}

	action := resolveChoice(text, state.CurrentChoices)
	req, err := m.store.BeginTurn(action)
	if err != nil {
		if errors.Is(err, game.ErrGameOver) {
			m.notice = "The story has ended. Type /restart to play again."
		}
		return m, nil
	}
	m.textInput.Reset()
	m.notice = ""
	m.refreshLog()
	return m, m.resolve(req)
}

func (m model) initialize(premise string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		resp, err := store.Initialize(context.Background(), premise)
		return initDoneMsg{store: store, premise: premise, resp: resp, err: err}
	}
}

func (m model) resolve(req models.TurnRequest) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		resp, err := store.Resolve(context.Background(), req)
		return turnDoneMsg{store: store, resp: resp, err: err}
	}
}

func (m model) copyTranscript() tea.Cmd {
	transcript := m.store.Transcript()
	return func() tea.Msg {
		data, err := transcript.Marshal()
		if err != nil {
			return copiedMsg{err: err}
		}
		return copiedMsg{err: clipboard.WriteAll(string(data))}
	}
}

// resolveChoice maps "1".."n" onto the offered choices; anything else is a
// free-text action.
func resolveChoice(text string, choices []string) string {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(choices) {
		return text
	}
	return choices[n-1]
}

func (m *model) refreshLog() {
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m model) renderLog() string {
	state := m.store.State()
	width := max(20, m.viewport.Width-2)

	var b strings.Builder
	for _, item := range state.History {
		switch item.Role {
		case models.RoleUser:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right,
				userStyle.Render(wordwrap.String(item.Content, width*2/3))))
		default:
			b.WriteString(engineLabelStyle.Render("Game Engine"))
			b.WriteString("\n")
			b.WriteString(gameStyle.Render(wordwrap.String(item.Content, width)))
		}
		b.WriteString("\n\n")
	}
	if state.IsProcessing {
		b.WriteString(m.spinner.View() + " The engine is thinking...\n")
	}
	if state.Status == models.StatusGameOver {
		b.WriteString(gameOverStyle.Render("GAME OVER") + "\n")
	}
	return b.String()
}

func (m model) View() string {
	state := m.store.State()

	if state.Status == models.StatusInit {
		return "\n" + m.viewPremise(state) + "\n"
	}

	var side string
	if state.IsRelationshipPanelOpen {
		side = renderRelationshipPanel(state.Character.Relationships, m.selected, m.detailID, sheetWidth+8)
	} else {
		side = renderCharacterSheet(state.Character, sheetWidth, m.hpBar, m.spBar)
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		side,
		"  ",
		m.viewport.View(),
	)

	sections := []string{mainView}
	if state.Error != "" {
		sections = append(sections, errorStyle.Render(state.Error))
	}
	if len(state.CurrentChoices) > 0 {
		sections = append(sections, renderChoices(state.CurrentChoices))
	}
	sections = append(sections, m.textInput.View())
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	sections = append(sections, helpStyle.Render(
		fmt.Sprintf("Turn %d · ctrl+r relationships · ctrl+y copy transcript · /restart · /quit", state.TurnCount)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) viewPremise(state models.GameState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Infinite Context RPG Engine") + "\n\n")
	b.WriteString("What reality do you want to simulate?\n\n")
	b.WriteString(m.textInput.View() + "\n\n")
	if state.IsProcessing {
		b.WriteString(m.spinner.View() + " Initializing world...\n")
	}
	if state.Error != "" {
		b.WriteString(errorStyle.Render(state.Error) + "\n")
	}
	b.WriteString(helpStyle.Render("Press Enter to begin, Esc to quit."))
	return b.String()
}

func renderChoices(choices []string) string {
	rendered := make([]string, len(choices))
	for i, c := range choices {
		rendered[i] = choiceStyle.Render(fmt.Sprintf("%d. %s", i+1, c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func Run(newStore func() *game.Store, logger zerolog.Logger) error {
	p := tea.NewProgram(NewModel(newStore, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
