package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"quizGo/config"
)

// GenerateID returns a fresh unique entity id.
func GenerateID() string {
	return uuid.New().String()
}

// NormalizePagination clamps page and limit to valid bounds, falling back to
// the defaults for out-of-range values. Bad parameters never fail a query.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = config.DefaultPage
	}
	if limit < 1 || limit > config.MaxResultsPerPage {
		limit = config.DefaultLimit
	}
	return page, limit
}

// HumanDuration renders a duration as "m:ss min". Non-positive durations
// render as "-".
func HumanDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d min", s/60, s%60)
}
