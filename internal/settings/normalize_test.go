package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	c := Default()

	got := c.Normalize(map[string]any{
		ErrorReporting:   false,
		UnmountOnSuccess: "no",
		Trim:             int64(1),
		UpdatesEnabled:   "garbage",
		UnsafeMode:       1.0,
		"legacyKey":      true,
	})

	assert.Equal(t, map[string]bool{
		ErrorReporting:         false,
		UnmountOnSuccess:       false,
		ValidateWriteOnSuccess: true,
		Trim:                   true,
		UpdatesEnabled:         true,
		UnsafeMode:             true,
	}, got)
}

func TestNormalizeNilUsesDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, c.Defaults(), c.Normalize(nil))
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in     any
		want   bool
		wantOK bool
	}{
		{true, true, true},
		{"TRUE", true, true},
		{" off ", false, true},
		{"1", true, true},
		{0, false, true},
		{int64(3), true, true},
		{0.0, false, true},
		{[]byte("yes"), true, true},
		{"maybe", false, false},
		{nil, false, false},
		{struct{}{}, false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}
}
