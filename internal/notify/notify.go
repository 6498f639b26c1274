// Package notify sends desktop notifications about finished reports.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// AppName is shown as the notification source where the platform supports it.
const AppName = "Hourglass"

// Notifier delivers a short message to the user.
type Notifier interface {
	Notify(title, message string) error
}

// Func adapts a function to Notifier.
type Func func(title, message string) error

func (f Func) Notify(title, message string) error { return f(title, message) }

// Desktop notifies through the operating system's notification center.
type Desktop struct{}

func (Desktop) Notify(title, message string) error {
	beeep.AppName = AppName
	return beeep.Notify(title, message, "")
}

// ReportSaved announces a written report.
func ReportSaved(n Notifier, path string, pages int) error {
	return n.Notify("Report ready", fmt.Sprintf("%s (%d pages)", path, pages))
}

// ReportFailed announces a failed report.
func ReportFailed(n Notifier, err error) error {
	return n.Notify("Report failed", err.Error())
}
