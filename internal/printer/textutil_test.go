package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := map[string]struct {
		input int64
		exp   string
	}{
		"zero bytes": {
			input: 0,
			exp:   "0 B",
		},
		"negative size should print as zero": {
			input: -100,
			exp:   "0 B",
		},
		"small file": {
			input: 512,
			exp:   "512 B",
		},
		"kilobytes": {
			input: 1536,
			exp:   "1.5 KB",
		},
		"megabytes": {
			input: 700 * 1024 * 1024,
			exp:   "700.0 MB",
		},
		"gigabytes": {
			input: 10 * 1024 * 1024 * 1024,
			exp:   "10.0 GB",
		},
		"terabytes": {
			input: 1024 * 1024 * 1024 * 1024,
			exp:   "1.0 TB",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, FormatBytes(test.input))
		})
	}
}

func TestEllipsis(t *testing.T) {
	tests := map[string]struct {
		input string
		max   int
		exp   string
	}{
		"short string is untouched": {
			input: "hello",
			max:   10,
			exp:   "hello",
		},
		"exact length is untouched": {
			input: "hello",
			max:   5,
			exp:   "hello",
		},
		"long string is truncated": {
			input: "hello world",
			max:   8,
			exp:   "hello w…",
		},
		"multibyte runes are not split": {
			input: "héllo wörld",
			max:   8,
			exp:   "héllo w…",
		},
		"zero max": {
			input: "hello",
			max:   0,
			exp:   "",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, Ellipsis(test.input, test.max))
		})
	}
}
