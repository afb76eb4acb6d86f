package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RejectsNonMapping(t *testing.T) {
	_, err := Load([]byte("- just\n- a\n- list\n"))
	assert.Error(t, err)
}

func TestLoad_EmptyInput(t *testing.T) {
	doc, err := Load(nil)
	require.NoError(t, err)

	_, ok := doc.Get("anything")
	assert.False(t, ok)
}

func TestGet_NestedPaths(t *testing.T) {
	doc := loadSample(t)

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"name", "widget", true},
		{"limits.cpu", 2, true},
		{"labels.tier", "backend", true},
		{"limits", map[string]any{"cpu": 2, "memory": 512}, true},
		{"limits.disk", nil, false},
		{"name.sub", nil, false},
		{"", nil, false},
		{"limits..cpu", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := doc.Get(tt.path)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBytes_Roundtrip(t *testing.T) {
	doc := loadSample(t)

	data, err := doc.Bytes()
	require.NoError(t, err)

	reparsed, err := Load(data)
	require.NoError(t, err)

	cpu, ok := reparsed.Get("limits.cpu")
	require.True(t, ok)
	assert.Equal(t, 2, cpu)
}
