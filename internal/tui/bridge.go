package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"pomflow/internal/notify"
	"pomflow/internal/persist"
)

// RunMsg carries work posted from another goroutine, such as a timer tick, so
// it runs inside Update.
type RunMsg func()

// BannerMsg shows an in-app notification until the matching
// BannerClosedMsg.
type BannerMsg struct {
	ID    uint64
	Title string
	Body  string
}

type BannerClosedMsg struct {
	ID uint64
}

// ReloadMsg reports a state file changed by another process.
type ReloadMsg struct {
	Key persist.Key
}

// Bridge forwards events from background goroutines into a running program.
// Events sent before Attach or after Detach are dropped.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

func (b *Bridge) Detach() {
	b.Attach(nil)
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Post runs fn on the program's update loop. It is the post func for
// timer.NewTickerScheduler.
func (b *Bridge) Post(fn func()) {
	b.send(RunMsg(fn))
}

// Reload is the onChange callback for persist.Watch.
func (b *Bridge) Reload(key persist.Key) {
	b.send(ReloadMsg{Key: key})
}

// Notifier shows completions as an in-app banner.
func (b *Bridge) Notifier() notify.Notifier {
	return &notify.Callback{
		OnShow: func(id uint64, title, body string) {
			b.send(BannerMsg{ID: id, Title: title, Body: body})
		},
		OnHide: func(id uint64) {
			b.send(BannerClosedMsg{ID: id})
		},
	}
}
