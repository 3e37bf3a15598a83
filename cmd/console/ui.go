package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tonymach/neuro-narrator/internal/engine"
	"github.com/tonymach/neuro-narrator/internal/handlers"
	"github.com/tonymach/neuro-narrator/pkg/chat"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

const PlaceHolderText = "Describe your action..."

// logEntry is one line of the transcript: the player's action or a
// speaker-tagged response from the server.
type logEntry struct {
	speaker string
	text    string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	worldState   world.Snapshot
	aiState      *engine.AIState
	entries      []logEntry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	showQuitModal bool
	progressTick  int
}

type turnMsg struct {
	turn *handlers.GameActionResponse
	err  error
}

type progressTickMsg struct{}

var titleCaser = cases.Title(language.English)

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")). // violet
			Bold(true)

	dmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")). // amber
		Bold(true)

	aiStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")). // green
		Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true).
			Align(lipgloss.Center)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, state *handlers.GameStateResponse) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		worldState:   state.WorldState,
		aiState:      state.AIState,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
}

// writeChatContent rebuilds the transcript for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("NEURO NARRATOR") + "\n\n")
	content.WriteString("Describe an action. The Dungeon Master narrates; the AI character responds.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, entry := range m.entries {
		var style lipgloss.Style
		switch entry.speaker {
		case chat.SpeakerDungeonMaster:
			style = dmStyle
		case chat.SpeakerAICharacter:
			style = aiStyle
		default:
			style = userStyle
		}
		prefix := style.Render(entry.speaker + ": ")
		content.WriteString(prefix + wordwrap.String(entry.text, chatWidth-len(entry.speaker)-2) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("WORLD") + "\n\n")
	content.WriteString("Location:\n" + m.worldState.Location + "\n\n")
	content.WriteString("Time:\n" + m.worldState.Time + "\n\n")
	content.WriteString("Weather:\n" + m.worldState.Weather + "\n\n")
	content.WriteString(fmt.Sprintf("Neural activity:\n%.1f\n\n", m.worldState.NeuralActivity))

	if len(m.worldState.Events) > 0 {
		content.WriteString("Recent events:\n")
		for _, e := range m.worldState.Events {
			content.WriteString("• " + e + "\n")
		}
		content.WriteString("\n")
	}

	if m.aiState != nil {
		content.WriteString(titleStyle.Render("MIND") + "\n\n")
		content.WriteString("Emotion:\n" + titleCaser.String(m.aiState.Emotion) + "\n\n")
		content.WriteString("Phase:\n" + titleCaser.String(m.aiState.SleepState) + "\n\n")

		w := m.aiState.BrainWaves
		content.WriteString(fmt.Sprintf("Waves:\nα %.2f β %.2f\nθ %.2f δ %.2f\n\n", w.Alpha, w.Beta, w.Theta, w.Delta))

		if len(m.aiState.Goals) > 0 {
			content.WriteString("Goals:\n")
			for _, g := range m.aiState.Goals {
				content.WriteString(fmt.Sprintf("• %s (%d%%)\n", g.Description, g.Progress))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy last reply\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.entries = append(m.entries, logEntry{speaker: "You", text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendAction(input), progressTick())
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			current := m.chatViewport.View()
			m.chatViewport.SetContent(current + errorStyle.Render("Error: "+msg.err.Error()) + "\n\n")
		} else {
			for _, r := range msg.turn.Responses {
				m.entries = append(m.entries, logEntry{speaker: r.Speaker, text: r.Text})
			}
			m.worldState = msg.turn.WorldState
			m.aiState = msg.turn.AIState
			m.writeChatContent()
			m.writeMetadata()
		}
		m.chatViewport.GotoBottom()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /copy - Copy the last response to the clipboard
• Ctrl+C - Quit

How to play:
• Type your actions and press Enter
• The Dungeon Master narrates; the AI character reacts
• Mention a goal in your actions to help the character pursue it
`
		current := m.chatViewport.View()
		m.chatViewport.SetContent(current + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case "/copy":
		if last := m.lastResponse(); last != "" {
			if err := clipboard.WriteAll(last); err != nil {
				current := m.chatViewport.View()
				m.chatViewport.SetContent(current + errorStyle.Render("Copy failed: "+err.Error()) + "\n\n")
				m.chatViewport.GotoBottom()
			}
		}
	}

	m.textarea.Reset()
	return m, nil
}

// lastResponse returns the most recent non-player transcript entry.
func (m ConsoleUI) lastResponse() string {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].speaker != "You" {
			return m.entries[i].text
		}
	}
	return ""
}

func (m ConsoleUI) sendAction(action string) tea.Cmd {
	return func() tea.Msg {
		turn, err := sendAction(m.client, m.config.APIBaseURL, action)
		return turnMsg{turn, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar animates a bar while a turn is in flight.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
