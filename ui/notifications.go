package ui

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/windscribe-client/common"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	NotificationInfo NotificationType = iota
	NotificationSuccess
	NotificationWarning
	NotificationError
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	Icon    string
}

// icon returns the explicit icon or one derived from the type.
func (n Notification) icon() string {
	if n.Icon != "" {
		return n.Icon
	}
	switch n.Type {
	case NotificationWarning:
		return "dialog-warning"
	case NotificationError:
		return "dialog-error"
	default:
		return "network-vpn"
	}
}

// urgency maps the type onto the freedesktop urgency levels 0, 1 and 2.
func (n Notification) urgency() byte {
	switch n.Type {
	case NotificationError:
		return 2
	case NotificationWarning:
		return 1
	default:
		return 0
	}
}

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod = notifyDest + ".Notify"
	// expireDefault lets the notification server pick the timeout.
	expireDefault = int32(-1)
)

// caller is the part of dbus.BusObject the notifier needs.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call
}

// Notifier sends notifications over the session bus.
type Notifier struct {
	obj     caller
	appName string
	close   func() error
}

// NewNotifier connects to the session bus. The caller must Close the
// notifier when done.
func NewNotifier() (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return &Notifier{
		obj:     conn.Object(notifyDest, notifyPath),
		appName: common.AppName,
		close:   conn.Close,
	}, nil
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	if n == nil || n.close == nil {
		return nil
	}
	return n.close()
}

// Show sends one notification and returns the id assigned by the server.
func (n *Notifier) Show(ctx context.Context, note Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(note.urgency()),
	}
	call := n.obj.CallWithContext(ctx, notifyMethod, 0,
		n.appName,
		uint32(0), // replaces_id
		note.icon(),
		note.Title,
		note.Message,
		[]string{}, // actions
		hints,
		expireDefault,
	)

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("sending notification: %w", err)
	}
	return id, nil
}

// notify sends note and logs failures; notifications never fail a command.
func (n *Notifier) notify(ctx context.Context, note Notification) {
	if n == nil {
		return
	}
	if _, err := n.Show(ctx, note); err != nil {
		common.LogWarn("Could not show notification: %v", err)
	}
}

// NotifyConnecting shows a notification when the tunnel is being set up
func (n *Notifier) NotifyConnecting(ctx context.Context, location string) {
	n.notify(ctx, Notification{
		Title:   "Connecting VPN",
		Message: "Connecting to " + location + "...",
		Type:    NotificationInfo,
		Icon:    "network-vpn-acquiring",
	})
}

// NotifyConnected shows a notification when the tunnel is up
func (n *Notifier) NotifyConnected(ctx context.Context, location string) {
	n.notify(ctx, Notification{
		Title:   "VPN Connected",
		Message: "Connected to " + location,
		Type:    NotificationSuccess,
		Icon:    "network-vpn",
	})
}

// NotifyDisconnected shows a notification when the tunnel is down
func (n *Notifier) NotifyDisconnected(ctx context.Context) {
	n.notify(ctx, Notification{
		Title:   "VPN Disconnected",
		Message: "The tunnel was closed",
		Type:    NotificationInfo,
		Icon:    "network-vpn-disconnected",
	})
}

// NotifyError shows a notification for a failed command
func (n *Notifier) NotifyError(ctx context.Context, title string, err error) {
	n.notify(ctx, Notification{
		Title:   title,
		Message: err.Error(),
		Type:    NotificationError,
		Icon:    "network-vpn-error",
	})
}
