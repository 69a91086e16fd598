package models

import "time"

// User represents a registered quiz taker or administrator.
// Passwords are stored as entered; there is no credential hashing in this system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	IsAdmin      bool      `json:"isAdmin"`
	RegisteredAt time.Time `json:"registeredAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty"`
}

// UserSession is the live-status record for a signed-in user, keyed by user id.
// A missing record and IsActive=false both mean "logged out".
type UserSession struct {
	UserID        string    `json:"userId"`
	LoginTime     time.Time `json:"loginTime"`
	IsActive      bool      `json:"isActive"`
	CurrentQuizID string    `json:"currentQuizId,omitempty"`
}

// QuizAnswer is one confirmed answer inside an attempt. SelectedOption is a
// pointer because option 0 is a valid choice and must stay distinct from
// "never selected".
type QuizAnswer struct {
	QuestionID     int       `json:"questionId"`
	SelectedOption *int      `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect,omitempty"`
	AnsweredAt     time.Time `json:"answeredAt,omitempty"`
}

// QuizAttempt records one timed run through the question set. Score is only
// meaningful when IsCompleted is true. An attempt with EndTime set but
// IsCompleted false was abandoned or interrupted.
type QuizAttempt struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime,omitempty"`
	Answers        []QuizAnswer  `json:"answers"`
	Score          int           `json:"score,omitempty"`
	TotalQuestions int           `json:"totalQuestions"`
	IsCompleted    bool          `json:"isCompleted"`
	TimeLimit      time.Duration `json:"timeLimit,omitempty"`
}

// AnswerFor returns the confirmed answer for a question, if any.
func (a *QuizAttempt) AnswerFor(questionID int) (QuizAnswer, bool) {
	for _, ans := range a.Answers {
		if ans.QuestionID == questionID {
			return ans, true
		}
	}
	return QuizAnswer{}, false
}

// ForcedLogoutNotice is the single-slot marker left behind by an admin-forced
// session deactivation. The first reader consumes it.
type ForcedLogoutNotice struct {
	UserID string    `json:"userId"`
	At     time.Time `json:"at"`
}

// Question is one multiple-choice question from the fixed bank.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}
