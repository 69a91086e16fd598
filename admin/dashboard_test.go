package admin

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizGo/auth"
	"quizGo/models"
	"quizGo/store"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "test")
}

func newTestDashboard() (*Dashboard, *store.Store) {
	st := store.New(store.NewMemoryBackend(), testLog())
	mgr := auth.NewManager(st, testLog())
	return NewDashboard(st, mgr, testLog()), st
}

func addUser(st *store.Store, id, username string, isAdmin bool) {
	st.SaveUser(models.User{
		ID: id, Username: username, Email: username + "@example.com",
		IsAdmin: isAdmin, RegisteredAt: time.Now(),
	})
}

func completedAttempt(id, userID string, score int, end time.Time) models.QuizAttempt {
	return models.QuizAttempt{
		ID: id, UserID: userID, StartTime: end.Add(-10 * time.Minute),
		EndTime: end, Score: score, TotalQuestions: 25, IsCompleted: true,
	}
}

func TestStatsExcludeAdminsAndAbandoned(t *testing.T) {
	d, st := newTestDashboard()

	addUser(st, "u1", "alice", false)
	addUser(st, "u2", "bob", false)
	addUser(st, "adm", "admin", true)

	st.SaveSession(models.UserSession{UserID: "u1", IsActive: true, LoginTime: time.Now()})
	st.SaveSession(models.UserSession{UserID: "u2", IsActive: false, LoginTime: time.Now()})

	end := time.Now()
	st.SaveAttempt(completedAttempt("a1", "u1", 80, end))
	st.SaveAttempt(completedAttempt("a2", "u2", 65, end.Add(time.Minute)))
	// Abandoned: never counted toward completed aggregates.
	st.SaveAttempt(models.QuizAttempt{ID: "a3", UserID: "u1", StartTime: end, EndTime: end.Add(time.Minute), TotalQuestions: 25})

	stats := d.Stats()
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 2, stats.CompletedQuizzes)
	assert.Equal(t, 73, stats.AverageScore) // round((80+65)/2)
}

func TestRefreshDeduplicatesAttempts(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)

	end := time.Now()
	st.SaveAttempt(completedAttempt("a1", "u1", 80, end))
	st.SaveAttempt(completedAttempt("a2", "u1", 80, end)) // duplicate write from another tab
	st.SaveAttempt(completedAttempt("a3", "u1", 60, end))

	snap := d.Refresh()
	assert.Len(t, snap.Attempts, 2)
	assert.Len(t, st.Attempts(), 2)
	assert.Equal(t, 1, snap.Stats.TotalUsers)

	// A second refresh is a no-op.
	snap = d.Refresh()
	assert.Len(t, snap.Attempts, 2)
}

func TestSummarizeUsers(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)
	addUser(st, "u2", "bob", false)

	st.SaveSession(models.UserSession{UserID: "u1", IsActive: true, LoginTime: time.Now()})

	end := time.Now()
	st.SaveAttempt(completedAttempt("a1", "u1", 80, end))
	st.SaveAttempt(completedAttempt("a2", "u1", 60, end.Add(time.Minute)))
	st.SaveAttempt(models.QuizAttempt{ID: "a3", UserID: "u1", StartTime: end, EndTime: end.Add(time.Minute), TotalQuestions: 25})

	list := d.SummarizeUsers()
	require.Len(t, list, 2)

	alice := list[0]
	require.Equal(t, "alice", alice.Username)
	assert.True(t, alice.IsActive)
	assert.Equal(t, 3, alice.TotalAttempts)
	assert.Equal(t, 2, alice.CompletedAttempts)
	assert.Equal(t, 80, alice.BestScore)
	assert.Equal(t, 70, alice.AverageScore)
	assert.True(t, alice.HasInProgressQuiz)

	bob := list[1]
	assert.False(t, bob.IsActive)
	assert.Equal(t, "Never", bob.LastSeen)
	assert.Zero(t, bob.TotalAttempts)
}

func TestFilterUsers(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)
	addUser(st, "u2", "bob", false)
	addUser(st, "u3", "carol", false)

	st.SaveSession(models.UserSession{UserID: "u2", IsActive: true, LoginTime: time.Now()})
	st.SaveAttempt(completedAttempt("a1", "u3", 90, time.Now()))
	st.SaveAttempt(models.QuizAttempt{ID: "a2", UserID: "u1", StartTime: time.Now(), EndTime: time.Now(), TotalQuestions: 25})

	list, total, pages := d.FilterUsers("", "all", 1, 10)
	assert.Len(t, list, 3)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, pages)

	list, _, _ = d.FilterUsers("ALI", "all", 1, 10)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)

	list, _, _ = d.FilterUsers("", "active", 1, 10)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)

	list, _, _ = d.FilterUsers("", "completed", 1, 10)
	require.Len(t, list, 1)
	assert.Equal(t, "carol", list[0].Username)

	list, _, _ = d.FilterUsers("", "in-progress", 1, 10)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)

	// Pagination slices the summary list.
	list, total, pages = d.FilterUsers("", "all", 2, 2)
	assert.Len(t, list, 1)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, pages)
}

func TestFilterUsersClampsBadPagination(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)

	// Zero or negative page/limit fall back to the defaults instead of failing.
	list, total, pages := d.FilterUsers("", "all", 1, 0)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, pages)

	list, _, _ = d.FilterUsers("", "all", 0, 10)
	assert.Len(t, list, 1)

	list, _, _ = d.FilterUsers("", "all", -3, -5)
	assert.Len(t, list, 1)

	// A limit beyond the maximum falls back too.
	list, _, pages = d.FilterUsers("", "all", 1, 1000)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, pages)
}

func TestLeaderboardAndRecentCompletions(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)
	addUser(st, "u2", "bob", false)
	addUser(st, "u3", "carol", false)

	end := time.Now()
	st.SaveAttempt(completedAttempt("a1", "u1", 60, end))
	st.SaveAttempt(completedAttempt("a2", "u2", 90, end.Add(time.Minute)))

	board := d.Leaderboard()
	require.Len(t, board, 2) // carol has no score
	assert.Equal(t, "bob", board[0].Username)
	assert.Equal(t, "alice", board[1].Username)

	recent := d.RecentCompletions(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "a2", recent[0].ID)
}

func TestForceLogoutKeepsInactiveRecord(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)
	st.SaveSession(models.UserSession{UserID: "u1", IsActive: true, LoginTime: time.Now()})

	d.ForceLogout("u1")

	s, ok := st.Sessions()["u1"]
	require.True(t, ok)
	assert.False(t, s.IsActive)

	n := st.TakeForcedLogoutNotice()
	require.NotNil(t, n)
	assert.Equal(t, "u1", n.UserID)
}

func TestDeleteUserCascades(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)
	addUser(st, "u2", "bob", false)

	st.SaveSession(models.UserSession{UserID: "u1", IsActive: true, LoginTime: time.Now()})
	st.SaveAttempt(completedAttempt("a1", "u1", 80, time.Now()))
	st.SaveAttempt(completedAttempt("a2", "u2", 70, time.Now()))

	d.DeleteUser("u1")

	assert.NotContains(t, st.Users(), "u1")
	assert.Contains(t, st.Users(), "u2")
	assert.NotContains(t, st.Sessions(), "u1")

	attempts := st.Attempts()
	assert.NotContains(t, attempts, "a1")
	assert.Contains(t, attempts, "a2")
}

func TestWatchRefreshesOnExternalWrites(t *testing.T) {
	d, st := newTestDashboard()
	addUser(st, "u1", "alice", false)

	snaps := make(chan Snapshot, 16)
	stop := d.Watch(func(s Snapshot) { snaps <- s })
	defer stop()

	first := <-snaps
	assert.Equal(t, 1, first.Stats.TotalUsers)

	addUser(st, "u2", "bob", false)
	next := <-snaps
	assert.Equal(t, 2, next.Stats.TotalUsers)
}
