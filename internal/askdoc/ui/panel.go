package ui

// Panel is the host-owned visibility flag of the chat panel.
// It never touches the conversation: hiding the panel does not pause,
// cancel or reset a query in flight.
type Panel struct {
	open bool
}

// NewPanel returns a panel in the given state
func NewPanel(open bool) Panel {
	return Panel{open: open}
}

// Toggle flips the panel between open and closed
func (p *Panel) Toggle() {
	p.open = !p.open
}

// IsOpen reports whether the panel is shown
func (p Panel) IsOpen() bool {
	return p.open
}
