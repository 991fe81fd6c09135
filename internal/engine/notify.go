package engine

// Notifier shows a transient, auto-dismissing notice to the user.
// The production implementation injects a toast into the host page.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards notices.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
