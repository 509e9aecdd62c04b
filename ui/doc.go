// Package ui provides the terminal user interface for the windscribe client.
//
// This package implements:
//
//   - An interactive location picker built on Bubble Tea
//   - Lipgloss styles shared by the picker and the command output
//   - Desktop notifications over the freedesktop D-Bus interface
//
// # Picker
//
// Pick runs a full screen program listing the locations in a table. Typing
// filters the rows, arrow keys move the selection and enter confirms it.
//
//	loc, err := ui.Pick(ctx, locations, ui.PickOptions{})
//	if errors.Is(err, ui.ErrCanceled) {
//	    return nil
//	}
//
// # Notifications
//
// Notifier talks to org.freedesktop.Notifications on the session bus. The
// Notify helpers log failures instead of returning them, and a nil
// *Notifier is valid and does nothing, so callers can leave notifications
// disabled without extra checks.
//
// # File Organization
//
//   - picker.go: Location picker model and program
//   - styles.go: Colors and styles
//   - notifications.go: Desktop notification integration
package ui
