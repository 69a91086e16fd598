package seed

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizGo/models"
	"quizGo/quiz"
	"quizGo/store"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "test")
}

func TestGenerateIfNeededPopulatesStore(t *testing.T) {
	st := store.New(store.NewMemoryBackend(), testLog())

	GenerateIfNeeded(st, testLog(), 5)

	require.Len(t, st.Users(), 5)
	attempts := st.Attempts()
	require.NotEmpty(t, attempts)

	for _, a := range attempts {
		assert.Equal(t, 25, a.TotalQuestions)
		if !a.IsCompleted {
			assert.Zero(t, a.Score)
			continue
		}
		// Generated scores follow the same rule as earned ones.
		correct := 0
		for _, ans := range a.Answers {
			if ans.IsCorrect {
				correct++
			}
		}
		assert.Equal(t, quiz.ScorePercent(correct, a.TotalQuestions), a.Score)
	}
}

func TestGenerateIfNeededSkipsExistingData(t *testing.T) {
	st := store.New(store.NewMemoryBackend(), testLog())
	st.SaveUser(models.User{ID: "u1", Username: "alice"})
	st.SaveUser(models.User{ID: "u2", Username: "bob"})

	GenerateIfNeeded(st, testLog(), 5)

	assert.Len(t, st.Users(), 2)
	assert.Empty(t, st.Attempts())
}
