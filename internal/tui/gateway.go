package tui

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/manav03panchal/punctual/internal/model"
)

// Gateway presents alerts through the watch view. It forwards each dispatch
// as a bubbletea message, so the scheduler loop never blocks on rendering.
// Dispatches arriving before Attach are dropped.
type Gateway struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewGateway creates a gateway that is not yet attached to a program.
func NewGateway() *Gateway {
	return &Gateway{}
}

// Attach wires the gateway to a running program.
func (g *Gateway) Attach(p *tea.Program) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.send = p.Send
}

func (g *Gateway) post(msg tea.Msg) {
	g.mu.Lock()
	send := g.send
	g.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// ShowAlert raises the alert overlay for the event.
func (g *Gateway) ShowAlert(event model.Event, fromSnooze bool) {
	g.post(showAlertMsg{event: event, fromSnooze: fromSnooze})
}

// HideAlert clears the alert overlay.
func (g *Gateway) HideAlert() {
	g.post(hideAlertMsg{})
}

// PlaySound rings the terminal bell and flashes a heads-up line.
func (g *Gateway) PlaySound(event model.Event) {
	fmt.Fprint(os.Stderr, "\a")
	g.post(soundMsg{event: event})
}

// OpenMeetingLink raises the overlay and opens the meeting link.
func (g *Gateway) OpenMeetingLink(event model.Event) {
	g.post(joinMsg{event: event})
}
