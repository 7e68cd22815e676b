package printer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now().UTC()

	tests := map[string]struct {
		input string
		exp   string
	}{
		"seconds ago": {
			input: now.Add(-30 * time.Second).Format(time.RFC3339),
			exp:   "30 seconds ago (UTC)",
		},
		"single minute": {
			input: now.Add(-90 * time.Second).Format(time.RFC3339),
			exp:   "1 minute ago (UTC)",
		},
		"hours ago": {
			input: now.Add(-3 * time.Hour).Format(time.RFC3339),
			exp:   "3 hours ago (UTC)",
		},
		"days ago": {
			input: now.Add(-48 * time.Hour).Format(time.RFC3339),
			exp:   "2 days ago (UTC)",
		},
		"future timestamp": {
			input: now.Add(time.Hour).Format(time.RFC3339),
			exp:   "in the future (UTC)",
		},
		"unparseable timestamp is returned as-is": {
			input: "not-a-timestamp",
			exp:   "not-a-timestamp",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, TimeAgo(test.input))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"RFC3339 timestamp": {
			input: "2025-05-01T12:30:45Z",
			exp:   "2025-05-01 12:30:45 UTC",
		},
		"timestamp with offset is normalized to UTC": {
			input: "2025-05-01T14:30:45+02:00",
			exp:   "2025-05-01 12:30:45 UTC",
		},
		"unparseable timestamp is returned as-is": {
			input: "yesterday",
			exp:   "yesterday",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, FormatTimestamp(test.input))
		})
	}
}

