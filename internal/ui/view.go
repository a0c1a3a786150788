package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/DaanHessen/agency-terminal/internal/engine"
)

const (
	notesWidth   = 34
	notesShown   = 12
	eventsShown  = 8
	defaultWidth = 100
)

func (m model) View() string {
	if m.view == viewLogin {
		return m.renderLogin()
	}
	return m.renderDashboard()
}

func (m model) screenWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m model) mainWidth() int {
	w := m.screenWidth()
	if m.showNotes {
		w -= notesWidth + 1
	}
	return w
}

// Login ------------------------------------------------------------------------

func (m model) renderLogin() string {
	var b strings.Builder
	if m.art != "" {
		b.WriteString(m.sty.title.Render(strings.TrimRight(m.art, "\n")))
		b.WriteString("\n\n")
	}
	b.WriteString(m.sty.text.Render("AGENT AUTHENTICATION") + "\n\n")
	b.WriteString(m.sty.muted.Render("Passphrase: ") + m.sty.accent.Render(strings.Repeat("*", m.stars)) + "\n")
	b.WriteString(m.sty.muted.Render("[") + progress(m.sty, m.stars, loginStars, 24) + m.sty.muted.Render("]") + "\n\n")
	switch {
	case m.loggingIn && m.stars >= loginStars:
		b.WriteString(m.sty.success.Render("ACCESS GRANTED"))
	case m.loggingIn:
		b.WriteString(m.sty.muted.Render("Verifying credentials..."))
	default:
		b.WriteString(m.sty.muted.Render("[enter] authenticate  [q] quit"))
	}
	if m.status != "" {
		b.WriteString("\n" + m.sty.muted.Render(m.status))
	}
	box := m.sty.panel.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// Dashboard --------------------------------------------------------------------

func (m model) renderDashboard() string {
	parts := []string{m.renderHeader()}
	if text, ok := m.session.Banner(); ok {
		parts = append(parts, m.sty.banner.Width(m.screenWidth()).Render(text))
	}
	parts = append(parts, m.renderNav())

	main := m.sty.panel.Width(m.mainWidth() - 2).Render(m.renderPane())
	body := main
	if m.showNotes {
		notes := m.sty.panel.Width(notesWidth - 2).Render(m.renderNotes())
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", notes)
	}
	parts = append(parts, body, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderHeader() string {
	st := m.snap
	badge := fmt.Sprintf("INBOX %d", len(st.Notifications))
	left := strings.Join([]string{
		"THE AGENCY",
		"Agent " + st.AgentName,
		fmt.Sprintf("%s L%d (%d XP)", st.Rank, st.Level, st.XP),
		fmt.Sprintf("CR %d", st.Credits),
		fmt.Sprintf("INF %d", st.Influence),
		fmt.Sprintf("INTEL %d", st.Intel),
		fmt.Sprintf("STAB %s%%", score(st.World.GlobalStability)),
	}, " | ")
	right := badge
	if !st.World.Date.IsZero() {
		right = st.World.Date.Format("2006-01-02 15:04:05") + "  " + badge
	}
	gap := m.screenWidth() - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.sty.header.Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderNav() string {
	items := make([]string, 0, len(paneOrder))
	for _, p := range paneOrder {
		label := fmt.Sprintf("[%s] %s", p.key, p.label)
		if p.pane == m.pane {
			items = append(items, m.sty.navOn.Render(label))
			continue
		}
		items = append(items, m.sty.navOff.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m model) renderFooter() string {
	hints := "[up/down] select  [enter] open  [x] complete  [n] notifications  [T] theme  [L] logout  [q] quit"
	if m.pane == paneAI {
		hints = "[enter] send  [pgup/pgdown] scroll  [esc] back"
	}
	line := m.sty.muted.Render(hints)
	if m.status != "" {
		line += "  " + m.sty.warning.Render(m.status)
	}
	return line
}

func (m model) renderPane() string {
	switch m.pane {
	case paneBrief:
		return m.renderBrief()
	case paneMail:
		return m.renderMail()
	case paneContacts:
		return m.renderContacts()
	case paneAssets:
		return m.renderAssets()
	case paneWorld:
		return m.renderWorld()
	case paneProfile:
		return m.renderProfile()
	case paneAI:
		return m.renderAI()
	case paneHelp:
		return m.renderHelp()
	default:
		return m.renderTasks()
	}
}

// Panes ------------------------------------------------------------------------

func (m model) renderTasks() string {
	active := m.snap.ActiveMissions()
	head := m.sty.title.Render("ACTIVE MISSIONS")
	if len(active) == 0 {
		return head + "\n\n" + m.sty.muted.Render("No active missions. Stand by for briefings.")
	}
	rows := make([][]string, 0, len(active))
	for i, mission := range active {
		marker := " "
		if i == m.selected {
			marker = ">"
		}
		rows = append(rows, []string{marker, mission.Title, mission.Location, fmt.Sprintf("%d XP", mission.Reward)})
	}
	return head + "\n" + m.table([]string{"", "Mission", "Location", "Reward"}, rows, m.selected)
}

func (m model) renderBrief() string {
	mission, ok := m.snap.Mission(m.briefID)
	if !ok {
		return m.sty.muted.Render("Select a mission in Tasks and press enter.")
	}
	body, err := m.briefer.Brief(m.ctx, mission)
	if err != nil {
		m.logger.Warn("brief render failed", "mission", mission.ID, "error", err)
		body = mission.Title + "\n\n" + mission.Brief
	}
	footer := m.sty.muted.Render("[x] mark complete  [esc] back")
	if mission.Status == engine.MissionCompleted {
		footer = m.sty.success.Render("COMPLETED")
	}
	return strings.TrimRight(body, "\n") + "\n\n" + footer
}

func (m model) renderMail() string {
	head := m.sty.title.Render("SECURE MAIL")
	if len(m.snap.Mail) == 0 {
		return head + "\n\n" + m.sty.muted.Render("No new messages.")
	}
	rows := make([][]string, 0, len(m.snap.Mail))
	for _, mail := range m.snap.Mail {
		rows = append(rows, []string{mail.At.Format("01-02 15:04"), mail.From, mail.Subject})
	}
	return head + "\n" + m.table([]string{"When", "From", "Subject"}, rows, -1)
}

func (m model) renderContacts() string {
	rows := make([][]string, 0, len(m.snap.Contacts))
	for _, c := range m.snap.Contacts {
		rows = append(rows, []string{c.Name, c.Faction, c.Status})
	}
	return m.sty.title.Render("CONTACTS") + "\n" + m.table([]string{"Name", "Faction", "Status"}, rows, -1)
}

func (m model) renderAssets() string {
	names := make([]string, 0, len(m.snap.Assets))
	for name := range m.snap.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		a := m.snap.Assets[name]
		rows = append(rows, []string{name, fmt.Sprintf("%d", a.Count), string(a.Status)})
	}
	return m.sty.title.Render("ASSETS") + "\n" + m.table([]string{"Asset", "Count", "Status"}, rows, -1)
}

func (m model) renderWorld() string {
	w := m.snap.World
	var b strings.Builder
	b.WriteString(m.sty.title.Render(fmt.Sprintf("WORLD STATE  global stability %s%%", score(w.GlobalStability))))
	b.WriteString("\n")

	factions := make([]string, 0, len(w.Factions))
	for name := range w.Factions {
		factions = append(factions, name)
	}
	sort.Strings(factions)
	rows := make([][]string, 0, len(factions))
	for _, name := range factions {
		f := w.Factions[name]
		rows = append(rows, []string{name, string(f.Allegiance), bar(m.sty, f.Standing) + " " + score(f.Standing)})
	}
	b.WriteString(m.table([]string{"Faction", "Allegiance", "Standing"}, rows, -1))
	b.WriteString("\n")

	rows = rows[:0]
	for _, name := range m.snap.RegionNames() {
		r := w.Regions[name]
		events := "-"
		if n := len(r.Events); n > 0 {
			events = strings.Join(r.Events[max(n-3, 0):], ", ")
		}
		rows = append(rows, []string{name, bar(m.sty, r.Stability) + " " + score(r.Stability), events})
	}
	b.WriteString(m.table([]string{"Region", "Stability", "Recent events"}, rows, -1))
	b.WriteString("\n")

	b.WriteString(m.sty.title.Render("GLOBAL EVENTS") + "\n")
	if len(w.Events) == 0 {
		b.WriteString(m.sty.muted.Render("No major events are currently reported."))
		return b.String()
	}
	for i := len(w.Events) - 1; i >= 0 && i >= len(w.Events)-eventsShown; i-- {
		ev := w.Events[i]
		line := fmt.Sprintf("%s %s: %s", ev.At.Format("15:04:05"), ev.Type, ev.Description)
		if ev.Critical {
			b.WriteString(m.sty.warning.Render(line) + "\n")
			continue
		}
		b.WriteString(m.sty.text.Render(line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderProfile() string {
	out, err := m.briefer.Dossier(m.ctx, m.snap)
	if err != nil {
		m.logger.Warn("dossier render failed", "error", err)
		return m.sty.muted.Render("Dossier unavailable.")
	}
	return strings.TrimRight(out, "\n")
}

func (m model) renderAI() string {
	var b strings.Builder
	b.WriteString(m.sty.title.Render("A.N.N.A. // ANALYTICAL NEURAL NETWORK ASSISTANT") + "\n")
	b.WriteString(m.feed.View() + "\n")
	if m.thinking {
		b.WriteString(m.spin.View() + m.sty.muted.Render(" A.N.N.A. is thinking...") + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderHelp() string {
	if m.help == "" {
		return m.sty.muted.Render("Field manual unavailable.")
	}
	return strings.TrimRight(m.help, "\n")
}

func (m model) renderNotes() string {
	var b strings.Builder
	b.WriteString(m.sty.title.Render("NOTIFICATIONS") + "\n")
	if len(m.snap.Notifications) == 0 {
		b.WriteString(m.sty.muted.Render("Nothing yet."))
		return b.String()
	}
	for i, n := range m.snap.Notifications {
		if i >= notesShown {
			b.WriteString(m.sty.muted.Render(fmt.Sprintf("+%d older", len(m.snap.Notifications)-notesShown)))
			break
		}
		title := m.sty.text.Bold(true).Render(n.Title)
		if n.Critical {
			title = m.sty.warning.Bold(true).Render(n.Title)
		}
		b.WriteString(m.sty.muted.Render(n.At.Format("15:04:05")) + " " + title + "\n")
		if n.Text != "" {
			b.WriteString(wrap(n.Text, notesWidth-4) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Helpers ----------------------------------------------------------------------

func (m model) table(headers []string, rows [][]string, highlight int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(m.sty.border).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return m.sty.title.Padding(0, 1)
			case row == highlight:
				return m.sty.accent.Bold(true).Padding(0, 1)
			default:
				return m.sty.text.Padding(0, 1)
			}
		})
	return t.Render()
}

// bar draws a 0-100 score as ten cells.
func bar(s styles, v float64) string {
	const width = 10
	fill := int(v/100*width + 0.5)
	fill = min(max(fill, 0), width)
	return s.barFill.Render(strings.Repeat("█", fill)) + s.barEmpty.Render(strings.Repeat("·", width-fill))
}

func progress(s styles, done, total, width int) string {
	if total <= 0 {
		return ""
	}
	fill := min(done*width/total, width)
	return s.barFill.Render(strings.Repeat("█", fill)) + s.barEmpty.Render(strings.Repeat("·", width-fill))
}

func score(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
