package poller

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"quizGo/config"
	"quizGo/models"
	"quizGo/store"
)

// SessionWatcher is the quiz-taker side of the reconciliation pattern. It
// watches the signed-in user's session and, when the session is gone or
// deactivated, consumes the pending forced-logout notice and invokes the
// logout callback exactly once.
type SessionWatcher struct {
	store          *store.Store
	log            *logrus.Entry
	userID         string
	onForcedLogout func(*models.ForcedLogoutNotice)

	exempt atomic.Bool
	fired  atomic.Bool
}

// NewSessionWatcher creates a watcher for the given user. onForcedLogout
// receives the consumed notice, or nil if none was pending.
func NewSessionWatcher(st *store.Store, log *logrus.Entry, userID string, onForcedLogout func(*models.ForcedLogoutNotice)) *SessionWatcher {
	return &SessionWatcher{
		store:          st,
		log:            log.WithField("user_id", userID),
		userID:         userID,
		onForcedLogout: onForcedLogout,
	}
}

// SetResultsExempt suspends forced-logout detection while the final results
// screen is showing, so an already-displayed outcome is never lost.
func (w *SessionWatcher) SetResultsExempt(on bool) {
	w.exempt.Store(on)
}

// Start begins watching. The returned stop function must be called on
// teardown.
func (w *SessionWatcher) Start() (stop func()) {
	p := &Poller{
		Interval: config.PollInterval,
		Keys:     []string{config.SessionsKey},
		OnChange: w.check,
	}
	return p.Start(w.store)
}

func (w *SessionWatcher) check() {
	if w.exempt.Load() {
		return
	}

	s, ok := w.store.Sessions()[w.userID]
	if ok && s.IsActive {
		return
	}
	if !w.fired.CompareAndSwap(false, true) {
		return
	}

	notice := w.store.TakeForcedLogoutNotice()
	if notice != nil && notice.UserID != w.userID {
		// Someone else's notice; put it back for their context to find.
		w.store.SetForcedLogoutNotice(*notice)
		notice = nil
	}

	w.log.Info("session no longer active, logging out")
	w.onForcedLogout(notice)
}
