package quiz

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"quizGo/config"
	"quizGo/models"
	"quizGo/store"
	"quizGo/utils"
)

// ErrQuizIncomplete is returned by Submit when the final-submission conditions
// are not met.
var ErrQuizIncomplete = errors.New("not all questions answered")

// ErrQuizFinished is returned when acting on an attempt that already completed
// or was abandoned.
var ErrQuizFinished = errors.New("attempt already finished")

// Tracker drives one timed quiz attempt: Created -> InProgress ->
// Completed | Abandoned. Answer selections are staged in memory and only
// persisted at creation and at completion or abandonment.
type Tracker struct {
	// OnWarning fires once when remaining time first crosses the warning
	// threshold. OnTimeUp fires after the countdown forces a submission.
	// Both must be set before Start.
	OnWarning func()
	OnTimeUp  func(models.QuizAttempt)

	store     *store.Store
	log       *logrus.Entry
	questions map[int]models.Question

	mu      sync.Mutex
	attempt models.QuizAttempt
	staged  *models.QuizAnswer
	warned  bool
	done    bool

	now func() time.Time
}

// NewTracker allocates and persists a fresh attempt for the user and stamps
// the attempt id on their session.
func NewTracker(st *store.Store, log *logrus.Entry, user models.User, questions []models.Question) *Tracker {
	t := &Tracker{
		store:     st,
		log:       log.WithField("user_id", user.ID),
		questions: make(map[int]models.Question, len(questions)),
		now:       time.Now,
	}
	for _, q := range questions {
		t.questions[q.ID] = q
	}

	t.attempt = models.QuizAttempt{
		ID:             utils.GenerateID(),
		UserID:         user.ID,
		StartTime:      t.now(),
		Answers:        []models.QuizAnswer{},
		TotalQuestions: len(questions),
		TimeLimit:      config.QuizTimeLimit,
	}
	st.SaveAttempt(t.attempt)

	sessions := st.Sessions()
	if s, ok := sessions[user.ID]; ok {
		s.CurrentQuizID = t.attempt.ID
		st.SaveSession(s)
	}

	t.log = t.log.WithField("attempt_id", t.attempt.ID)
	t.log.Info("quiz attempt started")
	return t
}

// Start launches the once-per-second countdown evaluation. The returned stop
// function must be called on teardown.
func (t *Tracker) Start() (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(config.QuizTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				t.tick(t.now())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// tick evaluates the countdown at the given instant.
func (t *Tracker) tick(now time.Time) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}

	remaining := t.attempt.TimeLimit - now.Sub(t.attempt.StartTime)

	warn := false
	if remaining <= config.TimeWarningThreshold && !t.warned {
		t.warned = true
		warn = true
	}

	timeUp := remaining <= 0
	var final models.QuizAttempt
	if timeUp {
		// Time expiry behaves like a final submission of whatever is staged.
		if t.staged != nil {
			t.mergeAnswerLocked(*t.staged, now)
			t.staged = nil
		}
		t.completeLocked(now)
		final = t.attempt
	}
	t.mu.Unlock()

	if warn && t.OnWarning != nil {
		t.OnWarning()
	}
	if timeUp && t.OnTimeUp != nil {
		t.OnTimeUp(final)
	}
}

// Stage records the current unconfirmed selection. Re-staging replaces it.
func (t *Tracker) Stage(questionID, option int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	opt := option
	t.staged = &models.QuizAnswer{QuestionID: questionID, SelectedOption: &opt}
}

// Confirm merges the staged selection into the answer set, replacing any prior
// answer for that question.
func (t *Tracker) Confirm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.staged == nil {
		return
	}
	t.mergeAnswerLocked(*t.staged, t.now())
	t.staged = nil
}

// CanSubmit reports whether the final-submission conditions hold: every
// question answered, or all but one answered with a selection staged for the
// remaining one.
func (t *Tracker) CanSubmit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canSubmitLocked()
}

func (t *Tracker) canSubmitLocked() bool {
	allAnswered := len(t.attempt.Answers) == t.attempt.TotalQuestions
	for _, a := range t.attempt.Answers {
		if a.SelectedOption == nil {
			allAnswered = false
		}
	}
	return allAnswered ||
		(len(t.attempt.Answers) == t.attempt.TotalQuestions-1 && t.staged != nil)
}

// Submit performs the explicit final submission: the staged selection (if any)
// is confirmed implicitly, every answer is scored, and the attempt completes.
func (t *Tracker) Submit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrQuizFinished
	}
	if !t.canSubmitLocked() {
		return ErrQuizIncomplete
	}

	now := t.now()
	if t.staged != nil {
		t.mergeAnswerLocked(*t.staged, now)
		t.staged = nil
	}
	t.completeLocked(now)
	return nil
}

// Abandon tears the attempt down without completing it. The attempt persists
// with EndTime set and IsCompleted false, so it counts as in-progress in the
// dashboard filters but never toward score aggregates.
func (t *Tracker) Abandon() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.attempt.EndTime = t.now()
	t.store.SaveAttempt(t.attempt)
	t.done = true
	t.log.Info("quiz attempt abandoned")
}

// Attempt returns a snapshot of the attempt record.
func (t *Tracker) Attempt() models.QuizAttempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.attempt
	snap.Answers = append([]models.QuizAnswer(nil), t.attempt.Answers...)
	return snap
}

// Remaining returns the time left on the countdown.
func (t *Tracker) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempt.TimeLimit - t.now().Sub(t.attempt.StartTime)
}

// Warned reports whether the low-time warning has been raised.
func (t *Tracker) Warned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.warned
}

func (t *Tracker) mergeAnswerLocked(ans models.QuizAnswer, now time.Time) {
	ans.AnsweredAt = now
	for i, existing := range t.attempt.Answers {
		if existing.QuestionID == ans.QuestionID {
			t.attempt.Answers[i] = ans
			return
		}
	}
	t.attempt.Answers = append(t.attempt.Answers, ans)
}

// completeLocked scores the attempt, persists it, and deactivates the session
// quietly. This is the normal end-of-quiz transition, so no forced-logout
// notice is written.
func (t *Tracker) completeLocked(now time.Time) {
	correct := 0
	for i, a := range t.attempt.Answers {
		q, known := t.questions[a.QuestionID]
		isCorrect := known && a.SelectedOption != nil && *a.SelectedOption == q.CorrectAnswer
		t.attempt.Answers[i].IsCorrect = isCorrect
		if isCorrect {
			correct++
		}
	}

	t.attempt.Score = ScorePercent(correct, t.attempt.TotalQuestions)
	t.attempt.EndTime = now
	t.attempt.IsCompleted = true
	t.store.SaveAttempt(t.attempt)

	sessions := t.store.Sessions()
	if s, ok := sessions[t.attempt.UserID]; ok {
		s.IsActive = false
		t.store.SaveSession(s)
	}

	t.done = true
	t.log.WithField("score", t.attempt.Score).Info("quiz attempt completed")
}

// ScorePercent computes round(100*correct/total) clamped to [0,100]. Every
// score in the system, generated or earned, goes through this.
func ScorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	score := int(math.Round(100 * float64(correct) / float64(total)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
