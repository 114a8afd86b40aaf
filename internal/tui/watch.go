package tui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/sched"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when the agenda needs to be reloaded.
type refreshMsg struct{}

// showAlertMsg raises the alert overlay.
type showAlertMsg struct {
	event      model.Event
	fromSnooze bool
}

// hideAlertMsg clears the alert overlay.
type hideAlertMsg struct{}

// soundMsg flashes an early heads-up without raising the overlay.
type soundMsg struct {
	event model.Event
}

// joinMsg opens the meeting link for an auto-join alert.
type joinMsg struct {
	event model.Event
}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// WatchConfig holds configuration for the watch view.
type WatchConfig struct {
	LoadEvents      func() ([]model.Event, error)
	Snoozer         sched.Snoozer
	SnoozeMinutes   int
	RefreshInterval time.Duration
	MaxUpcoming     int
}

// WatchModel is the main bubbletea model for watch mode.
type WatchModel struct {
	// Data
	events []model.Event
	alert  *showAlertMsg

	// Wiring
	loadEvents    func() ([]model.Event, error)
	snoozer       sched.Snoozer
	snoozeMinutes int

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
	maxUpcoming     int
}

// NewWatchModel creates a new watch model.
func NewWatchModel(config WatchConfig) *WatchModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.MaxUpcoming == 0 {
		config.MaxUpcoming = 5
	}
	if config.SnoozeMinutes == 0 {
		config.SnoozeMinutes = 5
	}

	return &WatchModel{
		loadEvents:      config.LoadEvents,
		snoozer:         config.Snoozer,
		snoozeMinutes:   config.SnoozeMinutes,
		refreshInterval: config.RefreshInterval,
		maxUpcoming:     config.MaxUpcoming,
	}
}

// Init initializes the model.
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		func() tea.Msg { return refreshMsg{} },
	)
}

// Update handles messages and updates the model.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case showAlertMsg:
		alert := msg
		m.alert = &alert
		return m, nil

	case hideAlertMsg:
		m.alert = nil
		return m, nil

	case soundMsg:
		m.setMessage(fmt.Sprintf("♪ %s starts soon", msg.event.Title), 5*time.Second)
		return m, nil

	case joinMsg:
		alert := showAlertMsg{event: msg.event}
		m.alert = &alert
		return m, m.joinCmd(msg.event)

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *WatchModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.loadData()
		m.setMessage("Refreshed", time.Second)
		return m, nil
	}

	// The remaining keys act on the ringing alert.
	if m.alert == nil {
		return m, nil
	}

	switch key {
	case "enter", "esc":
		m.alert = nil
		return m, nil

	case "s":
		m.snooze(m.snoozeMinutes)
		return m, nil

	case "j":
		if m.alert.event.MeetingLink == "" {
			m.setMessage("No meeting link", 2*time.Second)
			return m, nil
		}
		event := m.alert.event
		m.alert = nil
		return m, m.joinCmd(event)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.snooze(int(key[0] - '0'))
		return m, nil
	}

	return m, nil
}

// snooze defers the ringing alert and clears the overlay.
func (m *WatchModel) snooze(minutes int) {
	if m.alert == nil || m.snoozer == nil {
		return
	}
	if err := m.snoozer.Snooze(m.alert.event, minutes); err != nil {
		m.err = err
		return
	}
	m.setMessage(fmt.Sprintf("Snoozed for %d min", minutes), 2*time.Second)
	m.alert = nil
}

// View renders the watch screen.
func (m *WatchModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	now := time.Now()
	if m.alert != nil {
		alertComp := NewAlertComponent(m.alert.event, m.alert.fromSnooze, m.width, now)
		sections = append(sections, alertComp.View())
	}

	agendaComp := NewAgendaComponent(m.events, m.width, m.maxUpcoming, now)
	sections = append(sections, agendaComp.View())

	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the watch header.
func (m *WatchModel) renderHeader() string {
	title := StyleTitle.Render("Punctual")
	now := time.Now().Format("Mon Jan 2, 15:04:05")
	timeStr := StyleSubtitle.Render(now)

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", timeStr) + "\n"
}

// loadData reloads the upcoming agenda.
func (m *WatchModel) loadData() {
	if m.loadEvents == nil {
		return
	}
	events, err := m.loadEvents()
	if err != nil {
		m.err = err
		return
	}
	m.events = events
	m.err = nil
}

// setMessage sets a temporary message.
func (m *WatchModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *WatchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// joinCmd opens the meeting link in the system browser.
func (m *WatchModel) joinCmd(event model.Event) tea.Cmd {
	return func() tea.Msg {
		if err := openBrowser(event.MeetingLink); err != nil {
			return errMsg{err: fmt.Errorf("open %s: %w", event.MeetingLink, err)}
		}
		return nil
	}
}

// openBrowser launches the platform browser opener without waiting for it.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// Run starts the watch TUI and attaches the gateway to it.
func Run(config WatchConfig, gateway *Gateway) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch mode needs a terminal; use the daemon for headless alerts")
	}

	model := NewWatchModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if gateway != nil {
		gateway.Attach(p)
	}
	_, err := p.Run()
	return err
}
