package usage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	s := NewStore()
	s.Apply("User", "users", OpInsert|OpUpdate)
	s.Ensure("Role", "roles")

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, s))
	assert.Contains(t, buf.String(), "entity: Role")

	again, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.True(t, s.Equal(again))
}

func TestSnapshot_ReadJSON(t *testing.T) {
	doc := `{"version": 1, "records": [{"entity": "Tag", "table": "tags", "select": true, "delete": true}]}`

	s, err := ReadSnapshot(strings.NewReader(doc))
	require.NoError(t, err)

	rec, ok := s.Get("Tag")
	require.True(t, ok)
	assert.True(t, rec.Delete)
	assert.False(t, rec.Insert)
}

func TestSnapshot_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"version", `{"version": 2, "records": []}`, "unsupported snapshot version"},
		{"no select", `{"version": 1, "records": [{"entity": "A", "select": false}]}`, "select must be true"},
		{"no entity", `{"version": 1, "records": [{"select": true}]}`, "missing entity"},
		{"duplicate", `{"version": 1, "records": [{"entity": "A", "select": true}, {"entity": "A", "select": true}]}`, "duplicate entity"},
		{"unknown field", `{"version": 1, "records": [], "extra": 1}`, "failed to parse snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
