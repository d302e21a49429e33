package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			"rfc3339",
			`"2024-03-01T10:30:00Z"`,
			time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			"local datetime without zone",
			`"2024-03-01T10:30:00"`,
			time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			"local datetime with fraction",
			`"2024-03-01T10:30:00.123456"`,
			time.Date(2024, 3, 1, 10, 30, 0, 123456000, time.UTC),
		},
		{
			"bare date",
			`"2024-03-01"`,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, ts.Equal(tt.want), "got %v want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestampUnmarshalEmpty(t *testing.T) {
	for _, input := range []string{`null`, `""`} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(input), &ts))
		assert.True(t, ts.IsZero())
	}
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestampMarshal(t *testing.T) {
	ts := Timestamp{time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)}
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:30:00Z"`, string(out))

	out, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))
}
