package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2025-03-15", want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{in: " 2025-03-15 ", want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{in: "2025-03-15T10:30:00Z", want: time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)},
		{in: "2025-03-15T10:30:00+03:00", want: time.Date(2025, 3, 15, 7, 30, 0, 0, time.UTC)},
		{in: "15-03-2025", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
