package ui

import (
	"sync"

	"tastebook/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// navigateMsg asks the root model to show the screen for path.
type navigateMsg struct {
	path string
}

// Navigator implements session.Navigator for the terminal UI. The root model
// records its current path after every update; Navigate may be called from
// any goroutine and is delivered to the update loop as a message.
type Navigator struct {
	mu       sync.Mutex
	path     string
	requests chan string
}

// NewNavigator starts at the root path.
func NewNavigator() *Navigator {
	return &Navigator{path: session.RootPath, requests: make(chan string, 1)}
}

// CurrentPath returns the path of the screen being shown.
func (n *Navigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Navigate queues a navigation. Only the latest undelivered request is kept.
func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	select {
	case <-n.requests:
	default:
	}
	n.requests <- path
}

func (n *Navigator) setPath(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

// wait delivers the next navigation request.
func (n *Navigator) wait() tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{path: <-n.requests}
	}
}
