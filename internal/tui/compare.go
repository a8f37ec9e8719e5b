package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blvflag/blvhist/internal/history"
)

// ── Compare styles ──────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	paneHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	paneSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// CompareModel shows a snapshot and the current script content side by
// side, with paging across all snapshots of the script.
type CompareModel struct {
	script     string
	current    string
	candidates []history.Candidate // newest first
	idx        int                 // 0 = newest
	cache      *history.ContentCache
	snapshot   history.SnapshotText

	left   viewport.Model
	right  viewport.Model
	width  int
	height int
	ready  bool
}

// NewCompare creates a compare viewer over the script's snapshot set.
func NewCompare(script, current string, candidates []history.Candidate) CompareModel {
	sorted := make([]history.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ModTime.Equal(sorted[j].ModTime) {
			return sorted[i].ModTime.After(sorted[j].ModTime)
		}
		return sorted[i].Path > sorted[j].Path
	})
	return CompareModel{
		script:     filepath.Base(script),
		current:    current,
		candidates: sorted,
		cache:      history.NewContentCache(),
	}
}

// ── Bubble Tea interface ───────────────

func (m CompareModel) Init() tea.Cmd { return nil }

func (m CompareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "[":
			if m.idx < len(m.candidates)-1 {
				m.idx++
				m.loadSnapshot()
			}
			return m, nil
		case "right", "l", "]":
			if m.idx > 0 {
				m.idx--
				m.loadSnapshot()
			}
			return m, nil
		}
		// Scroll both panes in lockstep.
		var cmdL, cmdR tea.Cmd
		m.left, cmdL = m.left.Update(msg)
		m.right, cmdR = m.right.Update(msg)
		return m, tea.Batch(cmdL, cmdR)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m CompareModel) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  blvhist  " + m.script)

	paneWidth := m.paneWidth()
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		paneHeaderStyle.Width(paneWidth).Render(" "+m.snapshotLabel()),
		paneSepStyle.Render("│"),
		paneHeaderStyle.Width(paneWidth).Render(" current"),
	)

	sep := paneSepStyle.Render(strings.TrimRight(strings.Repeat("│\n", m.left.Height), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.left.View(), sep, m.right.View())

	hint := "  ←/→ older/newer snapshot  ↑/↓ scroll  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.left.ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, header, body, statusBar)
}

// ── Viewport management ───────────────

func (m *CompareModel) paneWidth() int {
	w := (m.width - 1) / 2
	if w < 1 {
		w = 1
	}
	return w
}

func (m *CompareModel) initViewports() {
	// title(1) + pane header(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.left = viewport.New(m.paneWidth(), vpHeight)
	m.right = viewport.New(m.paneWidth(), vpHeight)
	m.right.SetContent(m.current)
	m.loadSnapshot()
}

// loadSnapshot fills the left pane with the selected snapshot's text,
// decoding through the content cache so paging back is instant.
func (m *CompareModel) loadSnapshot() {
	if len(m.candidates) == 0 {
		m.left.SetContent(dimStyle.Render("  (no snapshots)"))
		return
	}
	text, err := m.cache.Extract(m.candidates[m.idx])
	if err != nil {
		m.left.SetContent(dimStyle.Render("  (snapshot unreadable: " + err.Error() + ")"))
		return
	}
	m.snapshot = text
	m.left.SetContent(text.Text)
	m.left.GotoTop()
	m.right.GotoTop()
}

func (m CompareModel) snapshotLabel() string {
	if len(m.candidates) == 0 {
		return "history (none)"
	}
	c := m.candidates[m.idx]
	ts := timeStyle.Render(c.ModTime.Format("2006-01-02 15:04:05"))
	return fmt.Sprintf("history %d/%d  %s  %s [%s]",
		m.idx+1, len(m.candidates), ts, c.Partition, m.snapshot.Source)
}

// RunCompare starts the side-by-side viewer over the script's snapshots.
func RunCompare(script, current string, candidates []history.Candidate) error {
	p := tea.NewProgram(NewCompare(script, current, candidates), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
