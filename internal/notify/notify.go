// Package notify sends the run summary as a desktop notification.
package notify

import "github.com/gen2brain/beeep"

const appName = "winslot"

// Notifier posts desktop notifications when enabled.
type Notifier struct {
	enabled bool
	send    func(title, message, icon string) error
}

// New creates a notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, send: beeep.Notify}
}

// Summary posts the outcome of a run.
func (n *Notifier) Summary(message string) error {
	if n == nil || !n.enabled {
		return nil
	}
	return n.send(appName, message, "")
}
