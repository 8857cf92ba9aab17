package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGuidanceConfig(t *testing.T) {
	cfg := DefaultGuidanceConfig()

	if cfg.VeryNearThreshold == nil || *cfg.VeryNearThreshold != 0.03 {
		t.Errorf("Expected VeryNearThreshold 0.03, got %v", cfg.VeryNearThreshold)
	}
	if cfg.GetNearThreshold() != 0 {
		t.Errorf("GetNearThreshold() = %f, want 0 (tier disabled)", cfg.GetNearThreshold())
	}
	if cfg.GetAnchorDrop() != 0.045 {
		t.Errorf("GetAnchorDrop() = %f, want 0.045", cfg.GetAnchorDrop())
	}
	if cfg.GetMaxComponents() != 6 {
		t.Errorf("GetMaxComponents() = %d, want 6", cfg.GetMaxComponents())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := EmptyGuidanceConfig()

	assert.Equal(t, DefaultVeryNearThreshold, cfg.GetVeryNearThreshold())
	assert.Equal(t, DefaultAnchorDepthPush, cfg.GetAnchorDepthPush())
	assert.Equal(t, DefaultLogDir, cfg.GetLogDir())
	assert.Equal(t, DefaultDBPath, cfg.GetDBPath())
	assert.Equal(t, DefaultLogQueueSize, cfg.GetLogQueueSize())
	assert.Equal(t, DefaultReportDir, cfg.GetReportDir())
}

func TestExplicitEmptyDBPathDisablesStore(t *testing.T) {
	cfg := &GuidanceConfig{DBPath: ptrString("")}
	assert.Equal(t, "", cfg.GetDBPath())
}

func TestLoadGuidanceConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "guidance.json")

	testJSON := `{
  "very_near_threshold_m": 0.02,
  "near_threshold_m": 0.05,
  "log_dir": "/tmp/mount-logs"
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadGuidanceConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 0.02, cfg.GetVeryNearThreshold())
	assert.Equal(t, 0.05, cfg.GetNearThreshold())
	assert.Equal(t, "/tmp/mount-logs", cfg.GetLogDir())
	// Omitted fields fall back to defaults.
	assert.Equal(t, DefaultAnchorDrop, cfg.GetAnchorDrop())
	assert.Equal(t, DefaultMaxComponents, cfg.GetMaxComponents())
}

func TestLoadGuidanceConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "missing.json"), "failed to stat"},
		{"bad json", write("bad.json", "{not json"), "failed to parse"},
		{"invalid value", write("neg.json", `{"very_near_threshold_m": -1}`), "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGuidanceConfig(tt.path)
			require.Error(t, err)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadGuidanceConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "huge.json")
	require.NoError(t, os.WriteFile(p, make([]byte, 1024*1024+1), 0644))

	_, err := LoadGuidanceConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     GuidanceConfig
		wantErr bool
	}{
		{"empty", GuidanceConfig{}, false},
		{"near disabled", GuidanceConfig{NearThreshold: ptrFloat64(0)}, false},
		{"near above very near", GuidanceConfig{NearThreshold: ptrFloat64(0.06)}, false},
		{"near below very near", GuidanceConfig{NearThreshold: ptrFloat64(0.01)}, true},
		{"near equal to very near", GuidanceConfig{NearThreshold: ptrFloat64(0.03)}, true},
		{"negative near", GuidanceConfig{NearThreshold: ptrFloat64(-0.1)}, true},
		{"zero very near", GuidanceConfig{VeryNearThreshold: ptrFloat64(0)}, true},
		{"negative drop", GuidanceConfig{AnchorDrop: ptrFloat64(-0.01)}, true},
		{"negative push", GuidanceConfig{AnchorDepthPush: ptrFloat64(-0.01)}, true},
		{"five components", GuidanceConfig{MaxComponents: ptrInt(5)}, true},
		{"four components", GuidanceConfig{MaxComponents: ptrInt(4)}, false},
		{"zero queue", GuidanceConfig{LogQueueSize: ptrInt(0)}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	assert.Equal(t, 0.03, cfg.GetVeryNearThreshold())
	assert.Equal(t, 0.0, cfg.GetNearThreshold())
	assert.Equal(t, 6, cfg.GetMaxComponents())
	assert.Equal(t, 64, cfg.GetLogQueueSize())
}
