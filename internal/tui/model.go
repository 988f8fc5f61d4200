// Package tui provides the Bubble Tea meditation timer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	mlog "github.com/verte-zerg/medilog/internal/log"
	"github.com/verte-zerg/medilog/internal/model"
	"github.com/verte-zerg/medilog/internal/record"
	"github.com/verte-zerg/medilog/internal/recordstore"
	statsPkg "github.com/verte-zerg/medilog/internal/stats"
)

type timerState int

const (
	stateIdle timerState = iota
	stateRunning
	statePaused
)

type tickMsg struct {
	id int
}

// Model implements the Bubble Tea timer UI.
type Model struct {
	config model.SessionConfig
	store  *recordstore.Store
	clock  func() time.Time
	logger zerolog.Logger

	width  int
	height int

	state     timerState
	startedAt time.Time
	resumedAt time.Time
	elapsed   time.Duration
	tickID    int

	notice string
	failed bool
	stats  model.Stats
	saved  int
}

var (
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a timer model. clock defaults to time.Now.
func NewModel(cfg model.SessionConfig, store *recordstore.Store, clock func() time.Time) *Model {
	if clock == nil {
		clock = time.Now
	}
	m := &Model{
		config: cfg,
		store:  store,
		clock:  clock,
		logger: mlog.WithComponent("timer"),
	}
	m.loadFooterStats()
	return m
}

// SetLogger replaces the logger used for failed saves.
func (m *Model) SetLogger(logger zerolog.Logger) {
	m.logger = logger
}

// Saved reports how many sessions were written during this run.
func (m *Model) Saved() int {
	return m.saved
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.id != m.tickID || m.state != stateRunning {
			return m, nil
		}
		if m.config.Target > 0 && m.Elapsed() >= m.config.Target {
			m.finishSession()
			return m, nil
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeySpace:
			return m, m.toggle()
		case tea.KeyEnter:
			m.finishSession()
			return m, nil
		case tea.KeyEsc:
			if m.state != stateIdle {
				m.resetSession()
				m.setNotice("Session discarded", false)
			}
			return m, nil
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return m, tea.Quit
			}
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := strings.Join(m.contentLines(), "\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// Elapsed returns the time meditated in the current session, pauses excluded.
func (m *Model) Elapsed() time.Duration {
	if m.state == stateRunning {
		return m.elapsed + m.clock().Sub(m.resumedAt)
	}
	return m.elapsed
}

func (m *Model) contentLines() []string {
	clock := clockStyle.Render(formatClock(m.Elapsed()))
	if m.config.Target > 0 {
		clock += pendingStyle.Render(" / " + formatClock(m.config.Target))
	}
	lines := []string{
		labelStyle.Render(sessionLabel(m.config)),
		"",
		clock,
		"",
		pendingStyle.Render(m.hint()),
	}
	if m.notice != "" {
		style := footerStyle
		if m.failed {
			style = errorStyle
		}
		lines = append(lines, "", style.Render(m.notice))
	}
	return lines
}

func (m *Model) hint() string {
	switch m.state {
	case stateRunning:
		return "space pause · enter finish · esc discard"
	case statePaused:
		return "paused · space resume · enter finish · esc discard"
	default:
		return "space start · q quit"
	}
}

func (m *Model) toggle() tea.Cmd {
	now := m.clock()
	switch m.state {
	case stateIdle:
		m.startedAt = now
		m.resumedAt = now
		m.elapsed = 0
		m.state = stateRunning
		m.setNotice("", false)
	case stateRunning:
		m.pause(now)
		return nil
	case statePaused:
		m.resumedAt = now
		m.state = stateRunning
	}
	m.tickID++
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func (m *Model) pause(now time.Time) {
	if m.state != stateRunning {
		return
	}
	m.elapsed += now.Sub(m.resumedAt)
	m.state = statePaused
	m.tickID++
}

func (m *Model) resetSession() {
	m.state = stateIdle
	m.startedAt = time.Time{}
	m.resumedAt = time.Time{}
	m.elapsed = 0
	m.tickID++
}

func (m *Model) finishSession() {
	if m.state == stateIdle {
		return
	}
	elapsed := m.Elapsed()
	if m.config.Target > 0 && elapsed > m.config.Target {
		elapsed = m.config.Target
	}
	rec, err := record.NewBuilder().
		DatetimeAt(m.startedAt).
		Duration(int64(elapsed / time.Second)).
		Category(m.config.Category).
		Speaker(m.config.Speaker).
		Build()
	if err != nil {
		m.resetSession()
		m.setNotice("Not saved: "+err.Error(), true)
		return
	}
	if _, err := m.store.TryAppend(context.Background(), rec); err != nil {
		// Keep the session paused so enter can retry the save.
		m.logger.Error().Err(err).Msg("failed to save session")
		m.pause(m.clock())
		m.setNotice("Not saved: storage unavailable, enter to retry", true)
		return
	}
	m.resetSession()
	m.saved++
	m.setNotice(fmt.Sprintf("Saved %s of %s", statsPkg.FormatSeconds(float64(rec.Duration())), rec.Category()), false)
	m.loadFooterStats()
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice = text
	m.failed = failed
}

func (m *Model) loadFooterStats() {
	records := m.store.ReadAll(context.Background())
	m.stats = statsPkg.Compute(records, m.clock())
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Streak %d %s", m.stats.DaysMeditatedInRow, dayWord(m.stats.DaysMeditatedInRow)),
		fmt.Sprintf("Total %.1fh", m.stats.TotalHoursMeditated),
		fmt.Sprintf("Sessions %d", m.stats.TotalMeditationSessions),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func sessionLabel(cfg model.SessionConfig) string {
	category := strings.TrimSpace(cfg.Category)
	speaker := strings.TrimSpace(cfg.Speaker)
	switch {
	case category == "" && speaker == "":
		return "Meditation"
	case speaker == "":
		return category
	case category == "":
		return speaker
	default:
		return category + " · " + speaker
	}
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
