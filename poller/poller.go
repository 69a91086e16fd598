package poller

import (
	"sync"
	"time"

	"quizGo/config"
	"quizGo/store"
)

// Poller re-runs OnChange on a fixed interval and immediately whenever another
// context writes one of the watched collection keys. Cross-context consistency
// is advisory and eventual; the poller only narrows the window.
type Poller struct {
	Interval time.Duration // defaults to config.PollInterval
	Keys     []string
	OnChange func()
}

// Start runs OnChange once, then begins polling and listening for change
// notifications. The returned stop function deregisters both the timer and
// the subscription; it must be called on teardown.
func (p *Poller) Start(st *store.Store) (stop func()) {
	interval := p.Interval
	if interval <= 0 {
		interval = config.PollInterval
	}

	p.OnChange()

	done := make(chan struct{})
	cancelSub := st.Subscribe(p.Keys, func(string) { p.OnChange() })

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.OnChange()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			cancelSub()
		})
	}
}
