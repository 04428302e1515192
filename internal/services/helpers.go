package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"

	apperrors "github.com/lironatar/TasksList/pkg/errors"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// trimmedPtr returns a trimmed copy of value, or nil when value is nil.
func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}

// ParseDueDate accepts YYYY-MM-DD or RFC3339 input. An empty string yields nil.
func ParseDueDate(raw string) (*datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			date := datatypes.Date(day)
			return &date, nil
		}
	}
	return nil, apperrors.NewValidation("due_date must be YYYY-MM-DD or RFC3339")
}

func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
