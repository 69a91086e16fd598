package store

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"quizGo/config"
	"quizGo/models"
)

// Backend is the physical key-value storage under the typed accessor. Values
// are JSON strings, one per collection key. Subscribe delivers the changed key
// for every write made through this backend or observed from another context.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Subscribe(fn func(key string)) (cancel func())
}

// Store is the typed accessor over the persisted collections. Reads degrade to
// empty on missing or malformed data, writes are full read-modify-write
// replacements, and every failure is swallowed after logging. Callers never
// see a storage error.
type Store struct {
	backend Backend
	log     *logrus.Entry
}

// New wraps a backend in the typed accessor.
func New(b Backend, log *logrus.Entry) *Store {
	return &Store{backend: b, log: log}
}

func readCollection[T any](s *Store, key string) map[string]T {
	raw, ok := s.backend.Get(key)
	if !ok {
		return map[string]T{}
	}
	var col map[string]T
	if err := json.Unmarshal([]byte(raw), &col); err != nil || col == nil {
		s.log.WithField("key", key).Warn("malformed collection, treating as empty")
		return map[string]T{}
	}
	return col
}

func writeCollection[T any](s *Store, key string, col map[string]T) {
	data, err := json.Marshal(col)
	if err != nil {
		s.log.WithField("key", key).WithError(err).Error("failed to encode collection")
		return
	}
	if err := s.backend.Set(key, string(data)); err != nil {
		s.log.WithField("key", key).WithError(err).Error("failed to write collection")
	}
}

func saveEntity[T any](s *Store, key, id string, v T) {
	col := readCollection[T](s, key)
	col[id] = v
	writeCollection(s, key, col)
}

func deleteEntity[T any](s *Store, key, id string) {
	col := readCollection[T](s, key)
	if _, ok := col[id]; !ok {
		return
	}
	delete(col, id)
	writeCollection(s, key, col)
}

// Users returns a snapshot of the users collection.
func (s *Store) Users() map[string]models.User {
	return readCollection[models.User](s, config.UsersKey)
}

// SaveUser writes one user back into the users collection.
func (s *Store) SaveUser(u models.User) {
	saveEntity(s, config.UsersKey, u.ID, u)
}

// DeleteUser removes one user record.
func (s *Store) DeleteUser(id string) {
	deleteEntity[models.User](s, config.UsersKey, id)
}

// ReplaceUsers overwrites the whole users collection.
func (s *Store) ReplaceUsers(users map[string]models.User) {
	writeCollection(s, config.UsersKey, users)
}

// Sessions returns a snapshot of the active sessions collection, keyed by
// user id.
func (s *Store) Sessions() map[string]models.UserSession {
	return readCollection[models.UserSession](s, config.SessionsKey)
}

// SaveSession writes one session, replacing any prior session for the user.
func (s *Store) SaveSession(sess models.UserSession) {
	saveEntity(s, config.SessionsKey, sess.UserID, sess)
}

// DeleteSession removes the session record for a user entirely.
func (s *Store) DeleteSession(userID string) {
	deleteEntity[models.UserSession](s, config.SessionsKey, userID)
}

// ReplaceSessions overwrites the whole sessions collection.
func (s *Store) ReplaceSessions(sessions map[string]models.UserSession) {
	writeCollection(s, config.SessionsKey, sessions)
}

// Attempts returns a snapshot of the quiz attempts collection.
func (s *Store) Attempts() map[string]models.QuizAttempt {
	return readCollection[models.QuizAttempt](s, config.AttemptsKey)
}

// SaveAttempt writes one attempt back into the attempts collection.
func (s *Store) SaveAttempt(a models.QuizAttempt) {
	saveEntity(s, config.AttemptsKey, a.ID, a)
}

// DeleteAttempt removes one attempt record.
func (s *Store) DeleteAttempt(id string) {
	deleteEntity[models.QuizAttempt](s, config.AttemptsKey, id)
}

// ReplaceAttempts overwrites the whole attempts collection. Used by the admin
// dashboard to re-persist the deduplicated set.
func (s *Store) ReplaceAttempts(attempts map[string]models.QuizAttempt) {
	writeCollection(s, config.AttemptsKey, attempts)
}

// SetForcedLogoutNotice records the single-slot forced logout marker,
// overwriting any previous one.
func (s *Store) SetForcedLogoutNotice(n models.ForcedLogoutNotice) {
	data, err := json.Marshal(n)
	if err != nil {
		s.log.WithError(err).Error("failed to encode forced logout notice")
		return
	}
	if err := s.backend.Set(config.ForcedLogoutNoticeKey, string(data)); err != nil {
		s.log.WithError(err).Error("failed to write forced logout notice")
	}
}

// TakeForcedLogoutNotice reads and deletes the pending notice in one step, so
// the first reader consumes it. Returns nil when none is pending or the slot
// is malformed.
func (s *Store) TakeForcedLogoutNotice() *models.ForcedLogoutNotice {
	raw, ok := s.backend.Get(config.ForcedLogoutNoticeKey)
	if !ok {
		return nil
	}
	if err := s.backend.Delete(config.ForcedLogoutNoticeKey); err != nil {
		s.log.WithError(err).Error("failed to clear forced logout notice")
	}
	var n models.ForcedLogoutNotice
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		s.log.WithError(err).Warn("malformed forced logout notice, dropping")
		return nil
	}
	return &n
}

// Subscribe registers fn for change notifications scoped to the given
// collection keys. The returned cancel must be called on teardown.
func (s *Store) Subscribe(keys []string, fn func(key string)) (cancel func()) {
	watched := make(map[string]bool, len(keys))
	for _, k := range keys {
		watched[k] = true
	}
	return s.backend.Subscribe(func(key string) {
		if watched[key] {
			fn(key)
		}
	})
}
