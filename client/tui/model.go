package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/types"
	"docchat/viewer"
)

// Backend is the TUI-facing subset of the chat API client.
type Backend interface {
	Ask(question string) (types.AskResponse, error)
	PageText(name string, page int) (types.PageTextResponse, error)
}

// Model is the Bubble Tea model for the chat client. The left pane holds the
// conversation, the right pane shows the page a citation points at with the
// cited fragments highlighted.
type Model struct {
	backend Backend
	binding *viewer.Binding

	input     textinput.Model
	chatView  viewport.Model
	pageView  viewport.Model
	turns     []types.ChatTurn
	citations []types.Citation
	fragments []string
	status    string
	ready     bool
	width     int
}

func New(backend Backend, binding *viewer.Binding) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		backend:  backend,
		binding:  binding,
		input:    ti,
		chatView: viewport.New(0, 0),
		pageView: viewport.New(0, 0),
		status:   "Upload PDFs via the web UI, then ask away. Digits open citations.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, fh := paneStyle.GetFrameSize()
		vh := msg.Height - fh - 4 // header, input, status, spacer
		if vh < 3 {
			vh = 3
		}
		half := max(20, msg.Width/2-2)
		m.chatView.Width = half
		m.chatView.Height = vh
		m.pageView.Width = half
		m.pageView.Height = vh
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch s := msg.String(); s {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.ask(q)
				m.input.SetValue("")
				m.refresh()
				return m, nil
			}
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if m.input.Value() == "" {
				n, _ := strconv.Atoi(s)
				m.openCitation(n - 1)
				m.refresh()
				return m, nil
			}
		case "left", "right":
			if m.input.Value() == "" && m.binding.CurrentDoc() != "" {
				page := m.binding.CurrentPage()
				if s == "left" {
					page--
				} else {
					page++
				}
				m.binding.SetPage(m.binding.CurrentDoc(), page)
				m.loadPage()
				m.refresh()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) ask(question string) {
	m.turns = append(m.turns, types.ChatTurn{Role: types.RoleUser, Text: question})
	resp, err := m.backend.Ask(question)
	if err != nil {
		m.turns = append(m.turns, types.ChatTurn{Role: types.RoleBot, Text: "Error: " + err.Error()})
		m.status = "Error: " + err.Error()
		return
	}
	m.turns = append(m.turns, types.ChatTurn{
		Role:      types.RoleBot,
		Text:      resp.Answer,
		Citations: resp.Context,
	})
	m.citations = resp.Context
	m.status = fmt.Sprintf("%d citation(s). Press a digit to open one.", len(resp.Context))
}

func (m *Model) openCitation(i int) {
	if i < 0 || i >= len(m.citations) {
		m.status = "No such citation."
		return
	}
	c := m.citations[i]
	res := m.binding.Open(c)
	m.loadPage()
	switch {
	case res.SwitchedDoc:
		m.status = fmt.Sprintf("Opened %s, page %d", c.SourceName, m.binding.CurrentPage())
	case res.JumpedPage:
		m.status = fmt.Sprintf("Jumped to page %d", m.binding.CurrentPage())
	default:
		m.status = "Already on the cited page."
	}
}

// loadPage fetches the current page's fragments and feeds them back to the
// binding so it can compute which ones to highlight.
func (m *Model) loadPage() {
	doc, page := m.binding.CurrentDoc(), m.binding.CurrentPage()
	resp, err := m.backend.PageText(doc, page)
	if err != nil {
		m.fragments = nil
		m.status = "Error: " + err.Error()
		return
	}
	m.fragments = resp.Fragments
	m.binding.PageRendered(resp.Source, resp.Page, resp.Fragments)
}

func (m *Model) refresh() {
	m.chatView.SetContent(m.renderChat())
	m.chatView.GotoBottom()
	m.pageView.SetContent(m.renderPage())
}

func (m Model) renderChat() string {
	if len(m.turns) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for _, t := range m.turns {
		if t.Role == types.RoleUser {
			b.WriteString(userStyle.Render("You: ") + t.Text + "\n")
		} else {
			b.WriteString(botStyle.Render("Bot: ") + t.Text + "\n")
			for i, c := range t.Citations {
				b.WriteString(citeStyle.Render(fmt.Sprintf("  [%d] %s, p.%d", i+1, c.SourceName, c.PageDisplay)) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPage() string {
	if m.binding.CurrentDoc() == "" {
		return "Open a citation to view its page."
	}
	title := fmt.Sprintf("%s - page %d", m.binding.CurrentDoc(), m.binding.CurrentPage())
	lines := []string{titleStyle.Render(title), ""}
	marked := make(map[int]struct{}, len(m.binding.Highlights()))
	for _, i := range m.binding.Highlights() {
		marked[i] = struct{}{}
	}
	for i, f := range m.fragments {
		if _, ok := marked[i]; ok {
			lines = append(lines, highlightStyle.Render(f))
		} else {
			lines = append(lines, f)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Chat")
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.chatView.View()),
		paneStyle.Render(m.pageView.View()),
	)
	status := statusStyle.Render(m.status)
	return header + "\n" + panes + "\n" + m.input.View() + "\n" + status
}

var (
	paneStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	citeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
