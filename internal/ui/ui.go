package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/agency-terminal/internal/cue"
	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/DaanHessen/agency-terminal/internal/text"
)

const (
	viewLogin     = "login"
	viewDashboard = "dashboard"
)

const (
	paneTasks    = "tasks"
	paneBrief    = "brief"
	paneMail     = "mail"
	paneContacts = "contacts"
	paneAssets   = "assets"
	paneWorld    = "world"
	paneProfile  = "profile"
	paneAI       = "ai"
	paneHelp     = "help"
)

type paneEntry struct {
	key, pane, label string
}

var paneOrder = []paneEntry{
	{"t", paneTasks, "Tasks"},
	{"b", paneBrief, "Brief"},
	{"m", paneMail, "Mail"},
	{"c", paneContacts, "Contacts"},
	{"a", paneAssets, "Assets"},
	{"w", paneWorld, "World"},
	{"p", paneProfile, "Profile"},
	{"i", paneAI, "A.N.N.A."},
	{"?", paneHelp, "Help"},
}

func paneForKey(k string) (string, bool) {
	for _, p := range paneOrder {
		if p.key == k {
			return p.pane, true
		}
	}
	return "", false
}

const (
	loginStars = 8
	loginStep  = 150 * time.Millisecond
	loginPause = 500 * time.Millisecond
)

// Timer messages carry the generation they were scheduled in; logout bumps
// the generation so in-flight timers die out instead of rescheduling.
type (
	loginStepMsg   struct{ gen int }
	loginDoneMsg   struct{ gen int }
	worldTickMsg   struct{ gen int }
	missionPollMsg struct{ gen int }
	replyMsg       struct {
		gen   int
		query string
	}
)

type chatLine struct {
	from, text string
}

// Options configures the dashboard around a Session.
type Options struct {
	Briefer text.Briefer
	Cues    cue.Player
	Art     string // login banner
	Help    string // rendered field manual
	Theme   string
	Logger  *slog.Logger
}

type model struct {
	ctx     context.Context
	session *engine.Session
	briefer text.Briefer
	cues    cue.Player
	logger  *slog.Logger
	tuning  engine.Tuning
	art     string
	help    string

	view      string
	pane      string
	showNotes bool
	selected  int
	briefID   string
	status    string

	// login animation
	stars     int
	loggingIn bool
	gen       int

	theme string
	sty   styles

	// assistant
	input    textinput.Model
	spin     spinner.Model
	feed     viewport.Model
	chat     []chatLine
	thinking bool

	snap   engine.GameState
	width  int
	height int
}

func newModel(ctx context.Context, s *engine.Session, opts Options) model {
	if opts.Briefer == nil {
		opts.Briefer, _ = text.NewTemplateBriefer("")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Theme == "" {
		opts.Theme = defaultTheme
	}
	ti := textinput.New()
	ti.Placeholder = "Ask A.N.N.A. about missions, credits, status or the world state"
	ti.Prompt = "> "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		ctx:     ctx,
		session: s,
		briefer: opts.Briefer,
		cues:    cue.Safe(opts.Cues),
		logger:  opts.Logger.With("component", "ui"),
		tuning:  s.Tuning(),
		art:     opts.Art,
		help:    opts.Help,
		view:    viewLogin,
		pane:    paneTasks,
		theme:   opts.Theme,
		sty:     stylesFor(paletteFor(opts.Theme)),
		input:   ti,
		spin:    sp,
		feed:    viewport.New(80, 12),
		chat:    []chatLine{{from: "A.N.N.A.", text: "Secure channel open. How can I help, Agent?"}},
	}
	m.refresh()
	if m.snap.LoggedIn {
		m.view = viewDashboard
	}
	m.syncFeed()
	return m
}

func (m model) Init() tea.Cmd {
	if m.view == viewDashboard {
		return m.startTimers()
	}
	return nil
}

func (m model) startTimers() tea.Cmd {
	return tea.Batch(
		worldTick(m.gen, m.tuning.WorldInterval),
		missionPoll(m.gen, m.tuning.MissionPoll),
	)
}

func worldTick(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return worldTickMsg{gen: gen} })
}

func missionPoll(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return missionPollMsg{gen: gen} })
}

func loginStepCmd(gen int) tea.Cmd {
	return tea.Tick(loginStep, func(time.Time) tea.Msg { return loginStepMsg{gen: gen} })
}

func replyAfter(gen int, query string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return replyMsg{gen: gen, query: query} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeFeed()
		return m, nil
	case loginStepMsg:
		if msg.gen != m.gen || !m.loggingIn {
			return m, nil
		}
		m.stars++
		if m.stars < loginStars {
			return m, loginStepCmd(m.gen)
		}
		gen := m.gen
		return m, tea.Tick(loginPause, func(time.Time) tea.Msg { return loginDoneMsg{gen: gen} })
	case loginDoneMsg:
		if msg.gen != m.gen || !m.loggingIn {
			return m, nil
		}
		m.loggingIn = false
		m.session.Login(m.ctx)
		m.view = viewDashboard
		m.pane = paneTasks
		m.status = "Access granted."
		m.refresh()
		return m, m.startTimers()
	case worldTickMsg:
		if msg.gen != m.gen || m.view != viewDashboard {
			return m, nil
		}
		m.session.TickWorld(m.ctx)
		m.refresh()
		return m, worldTick(m.gen, m.tuning.WorldInterval)
	case missionPollMsg:
		if msg.gen != m.gen || m.view != viewDashboard {
			return m, nil
		}
		if _, ok := m.session.PollMissions(m.ctx); ok {
			m.refresh()
		}
		return m, missionPoll(m.gen, m.tuning.MissionPoll)
	case replyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.thinking = false
		m.appendChat("A.N.N.A.", m.session.Respond(msg.query))
		return m, nil
	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	if m.view == viewLogin {
		switch k {
		case "enter", " ":
			if m.loggingIn {
				return m, nil
			}
			m.loggingIn = true
			m.stars = 0
			m.cues.Play(cue.Click)
			return m, loginStepCmd(m.gen)
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.pane == paneAI {
		switch k {
		case "esc":
			m.input.Blur()
			m.setPane(paneTasks)
			return m, nil
		case "enter":
			return m.submitQuery()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.feed, cmd = m.feed.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch k {
	case "q":
		return m, tea.Quit
	case "esc":
		m.setPane(paneTasks)
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "enter":
		if m.pane == paneTasks {
			if mission, ok := m.selectedMission(); ok {
				m.briefID = mission.ID
				m.setPane(paneBrief)
			}
		}
	case "x":
		m.completeSelected()
	case "n":
		m.showNotes = !m.showNotes
		m.cues.Play(cue.Click)
	case "T":
		m.theme = nextThemeName(m.theme, 1)
		m.sty = stylesFor(paletteFor(m.theme))
		m.status = "Theme: " + m.theme
	case "L":
		return m.logout()
	default:
		if p, ok := paneForKey(k); ok {
			m.setPane(p)
			if p == paneAI {
				cmd := m.input.Focus()
				return m, cmd
			}
		}
	}
	return m, nil
}

func (m *model) setPane(p string) {
	if p == paneBrief && m.briefID == "" {
		if mission, ok := m.selectedMission(); ok {
			m.briefID = mission.ID
		}
	}
	if m.pane != p {
		m.cues.Play(cue.Click)
	}
	m.pane = p
}

func (m *model) moveSelection(step int) {
	n := len(m.snap.ActiveMissions())
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = (m.selected + step + n) % n
}

func (m model) selectedMission() (engine.Mission, bool) {
	active := m.snap.ActiveMissions()
	if m.selected < 0 || m.selected >= len(active) {
		return engine.Mission{}, false
	}
	return active[m.selected], true
}

// completeSelected completes the mission shown in the brief pane, or the
// highlighted one in the task list.
func (m *model) completeSelected() {
	var id string
	switch {
	case m.pane == paneBrief && m.briefID != "":
		id = m.briefID
	case m.pane == paneTasks:
		if mission, ok := m.selectedMission(); ok {
			id = mission.ID
		}
	}
	if id == "" {
		return
	}
	if m.session.CompleteMission(m.ctx, id) {
		m.status = "Mission complete."
		m.briefID = ""
		m.pane = paneTasks
	} else {
		m.status = "Nothing to complete."
	}
	m.refresh()
}

func (m model) submitQuery() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	if q == "" || m.thinking {
		return m, nil
	}
	m.input.SetValue("")
	m.appendChat("You", q)
	m.thinking = true
	return m, tea.Batch(m.spin.Tick, replyAfter(m.gen, q, m.tuning.ThinkDelay))
}

func (m model) logout() (tea.Model, tea.Cmd) {
	m.session.Logout(m.ctx)
	m.gen++
	m.view = viewLogin
	m.pane = paneTasks
	m.stars = 0
	m.loggingIn = false
	m.thinking = false
	m.showNotes = false
	m.briefID = ""
	m.input.Blur()
	m.status = "Logged out."
	m.refresh()
	m.logger.Info("agent logged out")
	return m, nil
}

func (m *model) appendChat(from, msg string) {
	m.chat = append(m.chat, chatLine{from: from, text: msg})
	m.syncFeed()
}

func (m *model) syncFeed() {
	var b strings.Builder
	for i, l := range m.chat {
		if i > 0 {
			b.WriteString("\n\n")
		}
		style := m.sty.accent
		if l.from == "You" {
			style = m.sty.text
		}
		fmt.Fprintf(&b, "%s %s", style.Bold(true).Render(l.from+":"), l.text)
	}
	m.feed.SetContent(wrap(b.String(), m.feed.Width))
	m.feed.GotoBottom()
}

func (m *model) resizeFeed() {
	w := m.mainWidth() - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 12
	if h < 5 {
		h = 5
	}
	m.feed.Width = w
	m.feed.Height = h
	m.syncFeed()
}

// refresh re-reads the session and keeps the selection in range.
func (m *model) refresh() {
	m.snap = m.session.Snapshot()
	if n := len(m.snap.ActiveMissions()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}
