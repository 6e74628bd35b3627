package notify

import "fyne.io/fyne/v2"

// Notifier sends desktop notifications through the Fyne app.
type Notifier struct {
	app fyne.App
}

// New returns a notifier bound to app.
func New(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// RequestPermission is a no-op: desktop notification centres do not ask
// the application for permission up front.
func (notifier *Notifier) RequestPermission() error {
	return nil
}

// Show posts a notification. Safe to call from any goroutine.
func (notifier *Notifier) Show(title, body string) error {
	notification := fyne.NewNotification(title, body)
	fyne.Do(func() {
		notifier.app.SendNotification(notification)
	})
	return nil
}
