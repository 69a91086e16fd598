package admin

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"quizGo/auth"
	"quizGo/cache"
	"quizGo/config"
	"quizGo/models"
	"quizGo/poller"
	"quizGo/store"
	"quizGo/utils"
)

// Snapshot is one consistent read of the dashboard's collections plus the
// headline stats.
type Snapshot struct {
	Users    map[string]models.User
	Sessions map[string]models.UserSession
	Attempts map[string]models.QuizAttempt
	Stats    models.AdminStats
}

// Dashboard is the admin side of the reconciliation pattern: every refresh
// re-reads the collections, deduplicates attempt records, and recomputes
// aggregate statistics.
type Dashboard struct {
	store *store.Store
	mgr   *auth.Manager
	cache *cache.Cache
	log   *logrus.Entry
}

// NewDashboard creates a dashboard over the given store and session manager.
func NewDashboard(st *store.Store, mgr *auth.Manager, log *logrus.Entry) *Dashboard {
	return &Dashboard{
		store: st,
		mgr:   mgr,
		cache: cache.New(),
		log:   log,
	}
}

// Refresh re-reads every collection, removes duplicate attempt records that
// share (userId, endTime, score), re-persists the attempts only when the
// dedup actually dropped something, and flushes the query cache.
func (d *Dashboard) Refresh() Snapshot {
	users := d.store.Users()
	sessions := d.store.Sessions()
	raw := d.store.Attempts()

	seen := make(map[string]bool, len(raw))
	unique := make(map[string]models.QuizAttempt, len(raw))
	for _, id := range sortedKeys(raw) {
		a := raw[id]
		key := fmt.Sprintf("%s-%d-%d", a.UserID, a.EndTime.UnixMilli(), a.Score)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique[a.ID] = a
	}
	if len(unique) != len(raw) {
		d.store.ReplaceAttempts(unique)
		d.log.WithField("dropped", len(raw)-len(unique)).Info("deduplicated quiz attempts")
	}

	d.cache.Flush()

	return Snapshot{
		Users:    users,
		Sessions: sessions,
		Attempts: unique,
		Stats:    computeStats(users, sessions, unique),
	}
}

// Stats recomputes the headline numbers from the current store contents.
func (d *Dashboard) Stats() models.AdminStats {
	return computeStats(d.store.Users(), d.store.Sessions(), d.store.Attempts())
}

func computeStats(users map[string]models.User, sessions map[string]models.UserSession, attempts map[string]models.QuizAttempt) models.AdminStats {
	stats := models.AdminStats{}
	for _, u := range users {
		if !u.IsAdmin {
			stats.TotalUsers++
		}
	}
	for _, s := range sessions {
		if s.IsActive {
			stats.ActiveUsers++
		}
	}
	sum := 0
	for _, a := range attempts {
		if a.IsCompleted {
			stats.CompletedQuizzes++
			sum += a.Score
		}
	}
	if stats.CompletedQuizzes > 0 {
		stats.AverageScore = roundDiv(sum, stats.CompletedQuizzes)
	}
	return stats
}

// SummarizeUsers builds the per-user read models for every non-admin user,
// sorted by username.
func (d *Dashboard) SummarizeUsers() []models.UserSummary {
	users := d.store.Users()
	sessions := d.store.Sessions()
	attempts := d.store.Attempts()

	var out []models.UserSummary
	for _, u := range users {
		if u.IsAdmin {
			continue
		}
		out = append(out, summarize(u, sessions[u.ID], attempts))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func summarize(u models.User, session models.UserSession, attempts map[string]models.QuizAttempt) models.UserSummary {
	s := models.UserSummary{User: u, LastSeen: "Never"}
	if session.UserID == u.ID {
		s.IsActive = session.IsActive
		if !session.LoginTime.IsZero() {
			s.LastSeen = session.LoginTime.Format("2006-01-02 15:04:05")
		}
	}

	sum := 0
	for _, a := range attempts {
		if a.UserID != u.ID {
			continue
		}
		s.TotalAttempts++
		if !a.IsCompleted {
			s.HasInProgressQuiz = true
			continue
		}
		s.CompletedAttempts++
		sum += a.Score
		if a.Score > s.BestScore {
			s.BestScore = a.Score
		}
	}
	if s.CompletedAttempts > 0 {
		s.AverageScore = roundDiv(sum, s.CompletedAttempts)
	}
	return s
}

// filterResult is the cached envelope for FilterUsers.
type filterResult struct {
	List       []models.UserSummary `json:"list"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
}

// FilterUsers applies search (username/email substring, case insensitive) and
// a status filter (all, active, completed, in-progress), then paginates.
// Out-of-range page/limit values fall back to the defaults. Results are cached
// until the next refresh.
func (d *Dashboard) FilterUsers(search, filter string, page, limit int) ([]models.UserSummary, int, int) {
	page, limit = utils.NormalizePagination(page, limit)
	key := cache.Key(page, limit, search, filter)
	payload, _, err := d.cache.FetchOrExecute(key, func() ([]byte, error) {
		return json.Marshal(d.filterUsers(search, filter, page, limit))
	})
	if err != nil {
		d.log.WithError(err).Error("failed to build user listing")
		return nil, 0, 0
	}

	var res filterResult
	if err := json.Unmarshal(payload, &res); err != nil {
		d.log.WithError(err).Error("failed to decode cached user listing")
		return nil, 0, 0
	}
	return res.List, res.Total, res.TotalPages
}

func (d *Dashboard) filterUsers(search, filter string, page, limit int) filterResult {
	list := d.SummarizeUsers()

	if search != "" {
		t := strings.ToLower(search)
		filtered := list[:0]
		for _, u := range list {
			if strings.Contains(strings.ToLower(u.Username), t) || strings.Contains(strings.ToLower(u.Email), t) {
				filtered = append(filtered, u)
			}
		}
		list = filtered
	}

	switch filter {
	case "active":
		list = keep(list, func(u models.UserSummary) bool { return u.IsActive })
	case "completed":
		list = keep(list, func(u models.UserSummary) bool { return u.CompletedAttempts > 0 })
	case "in-progress":
		list = keep(list, func(u models.UserSummary) bool { return u.HasInProgressQuiz })
	}

	total := len(list)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filterResult{List: list[start:end], Total: total, TotalPages: totalPages}
}

// Leaderboard returns the top ten users by best completed score.
func (d *Dashboard) Leaderboard() []models.UserSummary {
	list := d.SummarizeUsers()
	list = keep(list, func(u models.UserSummary) bool { return u.BestScore > 0 })
	sort.Slice(list, func(i, j int) bool { return list[i].BestScore > list[j].BestScore })
	if len(list) > 10 {
		list = list[:10]
	}
	return list
}

// RecentCompletions returns the latest completed attempts, newest first.
func (d *Dashboard) RecentCompletions(n int) []models.QuizAttempt {
	var completed []models.QuizAttempt
	for _, a := range d.store.Attempts() {
		if a.IsCompleted {
			completed = append(completed, a)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].EndTime.After(completed[j].EndTime)
	})
	if len(completed) > n {
		completed = completed[:n]
	}
	return completed
}

// ForceLogout deactivates the user's session and leaves the forced-logout
// notice. The session record is kept (inactive) so the user's own context can
// observe the deactivation; only their voluntary logout removes it.
func (d *Dashboard) ForceLogout(userID string) {
	d.mgr.DeactivateSession(userID)
}

// DeleteUser removes the user and cascades to their sessions and attempts.
func (d *Dashboard) DeleteUser(userID string) {
	users := d.store.Users()
	delete(users, userID)
	d.store.ReplaceUsers(users)

	attempts := d.store.Attempts()
	for id, a := range attempts {
		if a.UserID == userID {
			delete(attempts, id)
		}
	}
	d.store.ReplaceAttempts(attempts)

	sessions := d.store.Sessions()
	delete(sessions, userID)
	d.store.ReplaceSessions(sessions)

	d.log.WithField("user_id", userID).Info("deleted user and related records")
}

// Watch refreshes on the poll interval and on external writes, handing each
// snapshot to onRefresh. The returned stop function must be called on
// teardown.
func (d *Dashboard) Watch(onRefresh func(Snapshot)) (stop func()) {
	p := &poller.Poller{
		Interval: config.PollInterval,
		Keys:     []string{config.UsersKey, config.SessionsKey, config.AttemptsKey},
		OnChange: func() { onRefresh(d.Refresh()) },
	}
	return p.Start(d.store)
}

func keep(list []models.UserSummary, pred func(models.UserSummary) bool) []models.UserSummary {
	out := list[:0]
	for _, u := range list {
		if pred(u) {
			out = append(out, u)
		}
	}
	return out
}

func roundDiv(sum, n int) int {
	return (sum + n/2) / n
}

func sortedKeys(m map[string]models.QuizAttempt) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
