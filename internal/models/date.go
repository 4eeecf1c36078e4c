package models

import (
	"errors"
	"strings"
	"time"
)

// ErrBadDate возвращается, если дата не в формате RFC 3339 и не YYYY-MM-DD.
var ErrBadDate = errors.New("date must be RFC 3339 or YYYY-MM-DD")

// ParseDate разбирает дату в формате RFC 3339 или YYYY-MM-DD. Дата без времени
// считается полуночью по UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadDate
}
