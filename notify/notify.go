// Package notify defines the fire-and-forget messages the game emits for toasts.
package notify

// Kind tags a notification for presentation.
type Kind string

const (
	Info        Kind = "info"
	Success     Kind = "success"
	Warning     Kind = "warning"
	Error       Kind = "error"
	Achievement Kind = "achievement"
)

// Notification is one toast. AutoCloseMS of 0 means the client picks its default.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	AutoCloseMS int    `json:"autoCloseMs,omitempty"`
}
