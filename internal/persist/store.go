// Package persist stores the client's state slices and mirrors them to the
// sync server when the user is signed in.
package persist

type Key string

const (
	KeySettings Key = "settings"
	KeyTasks    Key = "tasks"
	KeyHistory  Key = "history"
	KeySession  Key = "session"
	KeyDarkMode Key = "dark_mode"
	KeyAuth     Key = "auth"
)

// StateKeys are the slices that make up the timer's durable state.
var StateKeys = []Key{KeySettings, KeyTasks, KeyHistory, KeySession, KeyDarkMode}

// Store is a synchronous key-value store. Load reports whether the key was
// present; dst keeps its prior contents when it was not.
type Store interface {
	Load(key Key, dst any) (bool, error)
	Save(key Key, value any) error
	Delete(key Key) error
}
