package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormat_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		value       string
		expected    OutputFormat
		expectError bool
	}{
		{name: "json", value: "json", expected: FormatJSON},
		{name: "yaml", value: "yaml", expected: FormatYAML},
		{name: "text", value: "text", expected: FormatText},
		{name: "mixed case", value: "JSON", expected: FormatJSON},
		{name: "surrounding whitespace", value: "  text  ", expected: FormatText},
		{name: "unsupported", value: "xml", expectError: true},
		{name: "empty", value: "", expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var f OutputFormat
			err := f.Set(tc.value)

			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}
}

func TestOutputFormats_String(t *testing.T) {
	t.Parallel()

	allowed := AllowedOutputFormats()
	assert.Equal(t, "json, text, yaml", allowed.String())
}
