package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	t.Setenv("FLASHPREFS_CONFIG_PATH", "")
	return tmpDir
}

func TestLoadAndGet(t *testing.T) {
	isolate(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, 7, GetInt("missing", 7))
	require.True(t, GetBool("missing", true))
}

func TestDefaults(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("FLASHPREFS_CONFIG_PATH", filepath.Join(tmpDir, "does-not-exist.toml"))
	reset()
	Load()

	expected := map[string]string{
		"storage_backend":     "toml",
		"analytics_enabled":   "true",
		"analytics_backend":   "log",
		"metrics_enabled":     "false",
		"pending_policy":      "replace",
		"guard_target":        "enable",
		"unsafe_mode_visible": "true",
		"language":            "en",
		"events_limit":        "20",
		"hooks_enabled":       "false",
		"hooks_timeout":       "10",
		"hooks_failure_mode":  "warn",
		"logging_enabled":     "false",
		"logging_level":       "info",
		"logging_max_files":   "10",
		"debug":               "false",
		"quiet":               "false",
	}
	for key, want := range expected {
		require.Equal(t, want, Get(key, ""), "default mismatch for %s", key)
	}
	require.Equal(t, filepath.Join(tmpDir, "config", "flashprefs"), Get("config_dir", ""))
	require.Equal(t, filepath.Join(tmpDir, "state", "flashprefs"), Get("state_dir", ""))
}

func TestLoadingPrecedence(t *testing.T) {
	tmpDir := isolate(t)

	configFile := filepath.Join(tmpDir, "custom.toml")
	content := `
storage_backend = "sqlite"
pending_policy = "reject"
events_limit = 50
unsafe_mode_visible = false
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("FLASHPREFS_CONFIG_PATH", configFile)
	t.Setenv("FLASHPREFS_STORAGE_BACKEND", "bolt")

	reset()
	Load()

	require.Equal(t, "bolt", Get("storage_backend", ""), "environment should override config file")
	require.Equal(t, "reject", Get("pending_policy", ""))
	require.Equal(t, 50, GetInt("events_limit", 0))
	require.False(t, GetBool("unsafe_mode_visible", true))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("FLASHPREFS_STORAGE_BACKEND", "mongo")
	t.Setenv("FLASHPREFS_EVENTS_LIMIT", "-3")
	t.Setenv("FLASHPREFS_GUARD_TARGET", "NEGATE")
	t.Setenv("FLASHPREFS_METRICS_ENABLED", "maybe")

	reset()
	Load()

	require.Equal(t, "toml", Get("storage_backend", ""))
	require.Equal(t, "20", Get("events_limit", ""))
	require.Equal(t, "negate", Get("guard_target", ""))
	require.Equal(t, "false", Get("metrics_enabled", ""))
}

func TestBooleanNormalization(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"1", "true"},
		{"yes", "true"},
		{"ON", "true"},
		{"0", "false"},
		{"no", "false"},
		{"off", "false"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			isolate(t)
			t.Setenv("FLASHPREFS_ANALYTICS_ENABLED", tc.input)
			reset()
			Load()
			require.Equal(t, tc.expected, Get("analytics_enabled", ""))
		})
	}
}

func TestCreateSampleConfig(t *testing.T) {
	tmpDir := isolate(t)
	reset()
	Load()

	samplePath := filepath.Join(tmpDir, "config", "flashprefs", "config.toml")
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	require.Contains(t, string(data), "# flashprefs configuration")
	require.Contains(t, string(data), "storage_backend")
	require.NotContains(t, string(data), "config_dir")
}

func TestSetOverridesLoadedValue(t *testing.T) {
	isolate(t)
	reset()
	Load()

	Set("pending_policy", "reject")
	require.Equal(t, "reject", Get("pending_policy", ""))
	require.Equal(t, "reject", All()["pending_policy"])
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	require.Panics(t, func() {
		RegisterValidator("debug", BoolValidator())
	})
}

func TestEnumValidator(t *testing.T) {
	v := EnumValidator("a", "b")

	got, err := v("k", "B", "a")
	require.NoError(t, err)
	require.Equal(t, "b", got)

	got, err = v("k", "", "a")
	require.NoError(t, err)
	require.Equal(t, "a", got)

	got, err = v("k", "z", "a")
	require.NoError(t, err)
	require.Equal(t, "a", got)
}
