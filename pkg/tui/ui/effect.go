// Package ui holds contracts shared by the display's components.
package ui

// Effect is a long-lived background producer of messages, such as a timer.
// Stop must be idempotent; messages carrying a stopped effect's ID are
// dropped by the receiver.
type Effect interface {
	ID() uint64
	Stop()
	Stopped() bool
}
