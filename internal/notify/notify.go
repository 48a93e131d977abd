// Package notify provides completion notifications: desktop popups, in-app
// banners, and combinations of both.
package notify

import "sync"

type Permission int

const (
	// PermissionDefault means the user has not decided yet.
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Handle is an open notification. Closing twice is harmless.
type Handle interface {
	Close() error
}

// Notifier implementations must be safe for concurrent use: permission
// requests run on their own goroutine.
type Notifier interface {
	Permission() Permission
	RequestPermission() Permission
	Notify(title, body string) (Handle, error)
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func onceHandle(fn func() error) Handle {
	var once sync.Once
	var err error
	return closeFunc(func() error {
		once.Do(func() { err = fn() })
		return err
	})
}

var noopHandle Handle = closeFunc(func() error { return nil })

// Noop never shows anything. Its permission is always denied.
type Noop struct{}

func (Noop) Permission() Permission        { return PermissionDenied }
func (Noop) RequestPermission() Permission { return PermissionDenied }
func (Noop) Notify(string, string) (Handle, error) {
	return noopHandle, nil
}
