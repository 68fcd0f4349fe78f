package view

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/money"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders an amount with two decimals.
func FormatAmount(m money.Money) string {
	return m.String()
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ShortID keeps the first block of a uuid, enough to tell rows apart.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
