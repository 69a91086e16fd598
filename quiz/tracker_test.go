package quiz

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizGo/config"
	"quizGo/models"
	"quizGo/store"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "test")
}

func testQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			ID:            i + 1,
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		}
	}
	return qs
}

func newTestTracker(n int) (*Tracker, *store.Store, models.User) {
	st := store.New(store.NewMemoryBackend(), testLog())
	user := models.User{ID: "u1", Username: "alice", Email: "a@b.com"}
	st.SaveSession(models.UserSession{UserID: user.ID, LoginTime: time.Now(), IsActive: true})
	return NewTracker(st, testLog(), user, testQuestions(n)), st, user
}

func TestNewTrackerPersistsAttemptAndMarksSession(t *testing.T) {
	tr, st, user := newTestTracker(5)

	attempts := st.Attempts()
	require.Len(t, attempts, 1)
	a := attempts[tr.Attempt().ID]
	assert.Equal(t, user.ID, a.UserID)
	assert.Equal(t, 5, a.TotalQuestions)
	assert.Equal(t, config.QuizTimeLimit, a.TimeLimit)
	assert.False(t, a.IsCompleted)
	assert.Empty(t, a.Answers)

	s := st.Sessions()[user.ID]
	assert.Equal(t, a.ID, s.CurrentQuizID)
}

func TestReanswerReplacesEntry(t *testing.T) {
	tr, _, _ := newTestTracker(5)

	tr.Stage(1, 2)
	tr.Confirm()
	tr.Stage(1, 3)
	tr.Confirm()

	a := tr.Attempt()
	require.Len(t, a.Answers, 1)
	assert.Equal(t, 1, a.Answers[0].QuestionID)
	require.NotNil(t, a.Answers[0].SelectedOption)
	assert.Equal(t, 3, *a.Answers[0].SelectedOption)
	assert.False(t, a.Answers[0].AnsweredAt.IsZero())
}

func TestStagingWithoutConfirmDoesNotRecord(t *testing.T) {
	tr, _, _ := newTestTracker(5)

	tr.Stage(1, 2)
	a := tr.Attempt()
	assert.Empty(t, a.Answers)
	assert.Error(t, tr.Submit())
}

func TestSubmitRequiresAllAnswered(t *testing.T) {
	tr, _, _ := newTestTracker(3)

	tr.Stage(1, 0)
	tr.Confirm()
	assert.ErrorIs(t, tr.Submit(), ErrQuizIncomplete)
	assert.False(t, tr.Attempt().IsCompleted)
}

func TestLastQuestionPendingAllowance(t *testing.T) {
	tr, _, _ := newTestTracker(2)

	tr.Stage(1, 0)
	tr.Confirm()
	assert.False(t, tr.CanSubmit())

	// Staged but unconfirmed selection on the remaining question counts.
	tr.Stage(2, 1)
	assert.True(t, tr.CanSubmit())
	require.NoError(t, tr.Submit())

	a := tr.Attempt()
	assert.True(t, a.IsCompleted)
	require.Len(t, a.Answers, 2)
}

func TestScoringRoundsAndMarksAnswers(t *testing.T) {
	// CorrectAnswer is i%4, so question 1 expects option 0, question 2
	// expects 1, question 3 expects 2.
	tr, _, _ := newTestTracker(3)

	tr.Stage(1, 0) // correct
	tr.Confirm()
	tr.Stage(2, 3) // wrong
	tr.Confirm()
	tr.Stage(3, 3) // wrong
	tr.Confirm()
	require.NoError(t, tr.Submit())

	a := tr.Attempt()
	assert.Equal(t, 33, a.Score) // round(100*1/3)
	byID := map[int]models.QuizAnswer{}
	for _, ans := range a.Answers {
		byID[ans.QuestionID] = ans
	}
	assert.True(t, byID[1].IsCorrect)
	assert.False(t, byID[2].IsCorrect)
	assert.False(t, byID[3].IsCorrect)
}

func TestScorePercentBounds(t *testing.T) {
	assert.Equal(t, 0, ScorePercent(0, 25))
	assert.Equal(t, 100, ScorePercent(25, 25))
	assert.Equal(t, 67, ScorePercent(2, 3))
	assert.Equal(t, 0, ScorePercent(0, 0))
}

func TestCompletionDeactivatesSessionWithoutNotice(t *testing.T) {
	tr, st, user := newTestTracker(1)

	tr.Stage(1, 0)
	tr.Confirm()
	require.NoError(t, tr.Submit())

	s := st.Sessions()[user.ID]
	assert.False(t, s.IsActive)
	assert.Nil(t, st.TakeForcedLogoutNotice())
}

func TestAbandonPersistsIncomplete(t *testing.T) {
	tr, st, _ := newTestTracker(5)

	tr.Stage(1, 2)
	tr.Confirm()
	tr.Abandon()

	a := st.Attempts()[tr.Attempt().ID]
	assert.False(t, a.IsCompleted)
	assert.False(t, a.EndTime.IsZero())
	assert.Equal(t, 0, a.Score)

	// Finished attempts reject further transitions.
	assert.ErrorIs(t, tr.Submit(), ErrQuizFinished)
}

func TestTimeUpForcesSubmissionWithStagedAnswers(t *testing.T) {
	tr, st, _ := newTestTracker(4)

	var final models.QuizAttempt
	tr.OnTimeUp = func(a models.QuizAttempt) { final = a }

	tr.Stage(1, 0) // correct for question 1
	tr.Confirm()
	tr.Stage(2, 3) // staged, never confirmed

	start := tr.Attempt().StartTime
	tr.tick(start.Add(config.QuizTimeLimit + time.Second))

	a := st.Attempts()[tr.Attempt().ID]
	assert.True(t, a.IsCompleted)
	require.Len(t, a.Answers, 2)
	assert.Equal(t, 25, a.Score) // 1 correct of 4; unanswered never count
	assert.Equal(t, a.ID, final.ID)
}

func TestWarningIsOneWay(t *testing.T) {
	tr, _, _ := newTestTracker(4)

	fired := 0
	tr.OnWarning = func() { fired++ }

	start := tr.Attempt().StartTime
	tr.tick(start.Add(config.QuizTimeLimit - config.TimeWarningThreshold + time.Second))
	assert.True(t, tr.Warned())
	assert.Equal(t, 1, fired)

	tr.tick(start.Add(config.QuizTimeLimit - time.Minute))
	assert.Equal(t, 1, fired)
}

func TestUserScenario(t *testing.T) {
	// Registers, logs in, answers question 1 with option 2, moves on without
	// confirming a second selection, then submits early: the submission is
	// rejected, and the single confirmed answer is all that exists.
	tr, _, _ := newTestTracker(25)

	tr.Stage(1, 2)
	tr.Confirm()
	assert.ErrorIs(t, tr.Submit(), ErrQuizIncomplete)

	a := tr.Attempt()
	require.Len(t, a.Answers, 1)
	assert.Equal(t, 1, a.Answers[0].QuestionID)
	assert.Equal(t, 2, *a.Answers[0].SelectedOption)
}

func TestQuestionBank(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, 25)
	for _, q := range qs {
		assert.NotEmpty(t, q.Options)
		assert.GreaterOrEqual(t, q.CorrectAnswer, 0)
		assert.Less(t, q.CorrectAnswer, len(q.Options))
	}
}
