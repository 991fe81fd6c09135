package browser

import (
	"time"

	"github.com/go-rod/rod"

	"skymark/internal/logger"
)

// toastJS shows one transient notice at the bottom of the host page and
// removes it after the given lifetime. Purely visual; losing it on
// navigation is fine.
const toastJS = `(message, ms) => {
	const toast = document.createElement('div');
	toast.textContent = message;
	toast.style.cssText = 'position: fixed; bottom: 30px; left: 50%; ' +
		'transform: translateX(-50%); background-color: rgb(32, 139, 254); ' +
		'color: white; padding: 10px 20px; border-radius: 8px; ' +
		'font-size: 14px; z-index: 10000; box-shadow: 0 2px 8px rgba(0,0,0,0.2);';
	document.body.appendChild(toast);
	setTimeout(() => toast.remove(), ms);
	return true;
}`

// Toast surfaces engine notices inside the automated page itself, where
// the user who clicked is looking.
type Toast struct {
	page     *rod.Page
	lifetime time.Duration
	log      logger.Logger
}

// NewToast creates a toast notifier on the given page.
func NewToast(page *rod.Page, lifetime time.Duration, log logger.Logger) *Toast {
	return &Toast{page: page, lifetime: lifetime, log: log}
}

// Notify shows the message. Failures are logged and dropped: a notice is
// never worth failing an operation over.
func (t *Toast) Notify(message string) {
	if _, err := t.page.Eval(toastJS, message, t.lifetime.Milliseconds()); err != nil {
		t.log.Debug("failed to show notice", logger.String("message", message), logger.Error(err))
	}
}
