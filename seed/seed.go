package seed

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"

	"quizGo/config"
	"quizGo/models"
	"quizGo/quiz"
	"quizGo/store"
	"quizGo/utils"
)

// GenerateIfNeeded populates the store with fake users and attempts for demo
// runs. Skipped when non-admin data already exists.
func GenerateIfNeeded(st *store.Store, log *logrus.Entry, count int) {
	if len(st.Users()) > 1 {
		log.Info("data exists, skipping generation")
		return
	}

	questions := quiz.Questions()
	for i := 0; i < count; i++ {
		user := models.User{
			ID:           utils.GenerateID(),
			Email:        gofakeit.Email(),
			Username:     gofakeit.Username(),
			Password:     gofakeit.Password(true, true, true, false, false, 12),
			RegisteredAt: gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		}
		st.SaveUser(user)

		for j := 0; j < gofakeit.Number(1, 3); j++ {
			st.SaveAttempt(fakeAttempt(user.ID, questions))
		}
	}

	log.WithField("users", count).Info("fake data generation complete")
}

func fakeAttempt(userID string, questions []models.Question) models.QuizAttempt {
	start := gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now().Add(-time.Hour))
	attempt := models.QuizAttempt{
		ID:             utils.GenerateID(),
		UserID:         userID,
		StartTime:      start,
		Answers:        []models.QuizAnswer{},
		TotalQuestions: len(questions),
		TimeLimit:      config.QuizTimeLimit,
	}

	// Roughly one in four attempts is left abandoned.
	if gofakeit.Number(0, 3) == 0 {
		attempt.EndTime = start.Add(time.Duration(gofakeit.Number(1, 20)) * time.Minute)
		return attempt
	}

	correct := 0
	for _, q := range questions {
		selected := q.CorrectAnswer
		if gofakeit.Number(0, 2) == 0 {
			selected = (q.CorrectAnswer + 1) % len(q.Options)
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		opt := selected
		attempt.Answers = append(attempt.Answers, models.QuizAnswer{
			QuestionID:     q.ID,
			SelectedOption: &opt,
			IsCorrect:      isCorrect,
			AnsweredAt:     start.Add(time.Duration(q.ID) * time.Minute / 2),
		})
	}

	attempt.Score = quiz.ScorePercent(correct, len(questions))
	attempt.EndTime = start.Add(time.Duration(gofakeit.Number(10, 29)) * time.Minute)
	attempt.IsCompleted = true
	return attempt
}
