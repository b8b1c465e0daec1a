package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestJSONHandler_HandleResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewJSONHandler[jsonItem](&buf, 2)

	err := h.HandleResults(
		jsonItem{ID: 1, Name: "weather"},
		jsonItem{ID: 2, Name: "math"},
	)
	require.NoError(t, err)

	var decoded ResultsPayload[jsonItem]
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "weather", decoded.Results[0].Name)
}

func TestJSONHandler_HandleError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewJSONHandler[jsonItem](&buf, 2)

	require.NoError(t, h.HandleError(fmt.Errorf("boom")))

	var decoded ErrorPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded.Error)
}
