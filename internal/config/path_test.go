package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TRIAGE_DATA", "/srv/triage")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/models/classifier.model", filepath.Join(home, "models", "classifier.model")},
		{"$TRIAGE_DATA/DisasterResponse.db", "/srv/triage/DisasterResponse.db"},
		{"data/../DisasterResponse.db", "DisasterResponse.db"},
		{":memory:", ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
