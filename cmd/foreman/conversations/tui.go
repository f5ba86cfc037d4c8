package conversationscmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/plantworksco/foreman/pkg/agent"
	"github.com/plantworksco/foreman/pkg/transcript"
	"github.com/plantworksco/foreman/pkg/utils"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type browserView int

const (
	viewList browserView = iota
	viewDetail
)

var (
	browserTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	browserMutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	browserDividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	browserHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	browserUserStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	browserAsstStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	browserErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type browserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Enter, k.Back, k.Delete, k.Quit}
}

func (k browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Enter}, {k.Back, k.Delete, k.Quit}}
}

func defaultKeyMap() browserKeyMap {
	return browserKeyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Enter:  key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "read")),
		Back:   key.NewBinding(key.WithKeys("h", "esc"), key.WithHelp("h", "back")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type conversationsLoadedMsg struct {
	conversations []agent.Conversation
	err           error
}

type historyLoadedMsg struct {
	conversation agent.Conversation
	messages     []transcript.Message
	err          error
}

type conversationDeletedMsg struct {
	err error
}

type browserModel struct {
	client    *agent.Client
	sessionID string

	conversations []agent.Conversation
	detail        []transcript.Message
	detailTitle   string
	view          browserView
	cursor        int
	scroll        int
	width         int
	height        int
	lastErr       error
	keys          browserKeyMap
	help          help.Model
}

func (c *conversationsCommander) runTUI(ctx context.Context) error {
	client, sessionID, err := c.clientAndSession()
	if err != nil {
		return err
	}

	conversations, err := client.ListConversations(ctx, sessionID)
	if err != nil {
		return err
	}

	model := newBrowserModel(client, sessionID, conversations)
	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}

func newBrowserModel(client *agent.Client, sessionID string, conversations []agent.Conversation) browserModel {
	return browserModel{
		client:        client,
		sessionID:     sessionID,
		conversations: conversations,
		view:          viewList,
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
}

func (m browserModel) Init() bubbletea.Cmd {
	return nil
}

func (m browserModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case conversationsLoadedMsg:
		m.lastErr = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.conversations = msg.conversations
		if m.cursor >= len(m.conversations) {
			m.cursor = clamp(m.cursor, len(m.conversations)-1)
		}
		return m, nil

	case historyLoadedMsg:
		m.lastErr = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.detail = msg.messages
		m.detailTitle = msg.conversation.Title
		m.scroll = 0
		m.view = viewDetail
		return m, nil

	case conversationDeletedMsg:
		m.lastErr = msg.err
		if msg.err != nil {
			return m, nil
		}
		return m, loadConversationsCmd(m.client, m.sessionID)

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m browserModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, bubbletea.Quit
	case "j", "down":
		return m.move(1), nil
	case "k", "up":
		return m.move(-1), nil
	case "l", "enter":
		if m.view == viewList {
			return m.enterDetail()
		}
	case "h", "esc":
		if m.view == viewDetail {
			m.view = viewList
		}
	case "d":
		if m.view == viewList && len(m.conversations) > 0 {
			convo := m.conversations[m.cursor]
			return m, deleteConversationCmd(m.client, m.sessionID, convo.ID)
		}
	}
	return m, nil
}

func (m browserModel) move(delta int) browserModel {
	if m.view == viewList {
		if len(m.conversations) == 0 {
			return m
		}
		m.cursor = clamp(m.cursor+delta, len(m.conversations)-1)
		return m
	}

	m.scroll = clamp(m.scroll+delta, max(len(m.detailLines())-1, 0))
	return m
}

func (m browserModel) enterDetail() (bubbletea.Model, bubbletea.Cmd) {
	if len(m.conversations) == 0 {
		return m, nil
	}
	convo := m.conversations[m.cursor]
	return m, loadHistoryCmd(m.client, m.sessionID, convo)
}

func (m browserModel) View() string {
	switch m.view {
	case viewDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m browserModel) viewList() string {
	lines := []string{
		browserTitleStyle.Render("foreman conversations"),
		renderRule(m.width),
		"",
	}

	if m.lastErr != nil {
		lines = append(lines, browserErrorStyle.Render("  "+m.lastErr.Error()), "")
	}

	if len(m.conversations) == 0 {
		lines = append(lines, browserMutedStyle.Render("  no conversations"))
	}

	for i, convo := range m.conversations {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		title := convo.Title
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%s %-50s %s",
			cursor,
			utils.Truncate(title, 50),
			browserMutedStyle.Render(convo.ID),
		)
		if i == m.cursor {
			line = browserHighlightStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", browserMutedStyle.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

func (m browserModel) viewDetail() string {
	title := m.detailTitle
	if title == "" {
		title = "(untitled)"
	}

	lines := []string{
		browserTitleStyle.Render("foreman conversations › " + utils.Truncate(title, 50)),
		renderRule(m.width),
		"",
	}

	body := m.detailLines()
	visible := max(m.height-len(lines)-2, 5)
	start := clamp(m.scroll, max(len(body)-1, 0))
	end := min(start+visible, len(body))
	lines = append(lines, body[start:end]...)

	lines = append(lines, "", browserMutedStyle.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

// detailLines flattens the conversation's messages into display lines,
// wrapped to the terminal width.
func (m browserModel) detailLines() []string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var lines []string
	for _, msg := range m.detail {
		var label string
		switch msg.Role {
		case transcript.RoleUser:
			label = browserUserStyle.Render("○ you")
		case transcript.RoleAssistant:
			label = browserAsstStyle.Render("● assistant")
			if msg.Error {
				label = browserErrorStyle.Render("● assistant (error)")
			}
		default:
			label = msg.Role
		}

		lines = append(lines, label)
		lines = append(lines, wrapText(msg.Content, max(width-4, 20))...)
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		lines = []string{browserMutedStyle.Render("no messages")}
	}
	return lines
}

func loadConversationsCmd(client *agent.Client, sessionID string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		conversations, err := client.ListConversations(context.Background(), sessionID)
		return conversationsLoadedMsg{conversations: conversations, err: err}
	}
}

func loadHistoryCmd(client *agent.Client, sessionID string, convo agent.Conversation) bubbletea.Cmd {
	return func() bubbletea.Msg {
		messages, err := client.History(context.Background(), convo.ID, sessionID)
		return historyLoadedMsg{conversation: convo, messages: messages, err: err}
	}
}

func deleteConversationCmd(client *agent.Client, sessionID, conversationID string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		err := client.DeleteConversation(context.Background(), sessionID, conversationID)
		return conversationDeletedMsg{err: err}
	}
}

func clamp(value, upper int) int {
	if value < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}

func renderRule(width int) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	return browserDividerStyle.Render(strings.Repeat("─", lineWidth))
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
			current = current + " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
