package export

import (
	"fmt"
	"sort"
	"strings"

	"quizGo/models"
	"quizGo/utils"
)

const timeLayout = "2006-01-02 15:04:05"

// Report renders the two-section CSV report: a user summary table and an
// attempt detail table. Every cell is double-quoted with embedded quotes
// doubled; lines are CRLF-separated.
func Report(users map[string]models.User, summaries []models.UserSummary, attempts map[string]models.QuizAttempt) string {
	lines := []string{
		"Users Summary",
		"UserID,Username,Email,TotalAttempts,CompletedAttempts,BestScore(%),AverageScore(%),Status,LastSeen",
	}

	for _, u := range summaries {
		status := "Offline"
		if u.IsActive {
			status = "Active"
		}
		lines = append(lines, row(
			u.ID, u.Username, u.Email,
			u.TotalAttempts, u.CompletedAttempts, u.BestScore, u.AverageScore,
			status, u.LastSeen,
		))
	}

	lines = append(lines,
		"",
		"Attempts Details",
		"AttemptID,UserID,Username,Email,Completed,Score(%),StartTime,EndTime,Duration",
	)

	sorted := make([]models.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].UserID != sorted[j].UserID {
			return sorted[i].UserID < sorted[j].UserID
		}
		return sorted[i].EndTime.Before(sorted[j].EndTime)
	})

	for _, a := range sorted {
		// Attempts may outlive their user; tolerate the dangling reference.
		username, email := "Unknown User", ""
		if u, ok := users[a.UserID]; ok {
			username, email = u.Username, u.Email
		}

		completed := "No"
		if a.IsCompleted {
			completed = "Yes"
		}
		start, end, duration := "", "", "-"
		if !a.StartTime.IsZero() {
			start = a.StartTime.Format(timeLayout)
		}
		if !a.EndTime.IsZero() {
			end = a.EndTime.Format(timeLayout)
			if !a.StartTime.IsZero() {
				duration = utils.HumanDuration(a.EndTime.Sub(a.StartTime))
			}
		}

		lines = append(lines, row(
			a.ID, a.UserID, username, email, completed, a.Score, start, end, duration,
		))
	}

	return strings.Join(lines, "\r\n")
}

func row(cells ...interface{}) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = quote(fmt.Sprintf("%v", c))
	}
	return strings.Join(quoted, ",")
}

// quote wraps a cell in double quotes, doubling any embedded quotes.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
