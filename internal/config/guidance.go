// Package config loads the JSON tuning file for the guidance core.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical guidance defaults file.
const DefaultConfigPath = "config/guidance.defaults.json"

// Built-in defaults, used by the getters when a field is omitted.
const (
	DefaultVeryNearThreshold = 0.03
	DefaultNearThreshold     = 0.0
	DefaultAnchorDrop        = 0.045
	DefaultAnchorDepthPush   = 0.03
	DefaultMaxComponents     = 6
	DefaultLogDir            = "logs"
	DefaultDBPath            = "logs/mount_sessions.db"
	DefaultLogQueueSize      = 64
	DefaultReportDir         = "reports"
)

// GuidanceConfig holds the tunables for the mounting guidance core.
// Every field is optional; the Get* methods fall back to the built-in
// defaults so partial files are safe.
type GuidanceConfig struct {
	// Proximity feedback
	VeryNearThreshold *float64 `json:"very_near_threshold_m,omitempty"`
	NearThreshold     *float64 `json:"near_threshold_m,omitempty"` // 0 disables the Near tier

	// Anchor placement origin
	AnchorDrop      *float64 `json:"anchor_drop_m,omitempty"`
	AnchorDepthPush *float64 `json:"anchor_depth_push_m,omitempty"`

	// Workflow
	MaxComponents *int `json:"max_components,omitempty"`

	// Session log + reports
	LogDir       *string `json:"log_dir,omitempty"`
	DBPath       *string `json:"db_path,omitempty"`
	LogQueueSize *int    `json:"log_queue_size,omitempty"`
	ReportDir    *string `json:"report_dir,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyGuidanceConfig returns a GuidanceConfig with all fields nil.
func EmptyGuidanceConfig() *GuidanceConfig {
	return &GuidanceConfig{}
}

// DefaultGuidanceConfig returns a config with every field populated
// from the built-in defaults.
func DefaultGuidanceConfig() *GuidanceConfig {
	return &GuidanceConfig{
		VeryNearThreshold: ptrFloat64(DefaultVeryNearThreshold),
		NearThreshold:     ptrFloat64(DefaultNearThreshold),
		AnchorDrop:        ptrFloat64(DefaultAnchorDrop),
		AnchorDepthPush:   ptrFloat64(DefaultAnchorDepthPush),
		MaxComponents:     ptrInt(DefaultMaxComponents),
		LogDir:            ptrString(DefaultLogDir),
		DBPath:            ptrString(DefaultDBPath),
		LogQueueSize:      ptrInt(DefaultLogQueueSize),
		ReportDir:         ptrString(DefaultReportDir),
	}
}

// LoadGuidanceConfig loads a GuidanceConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadGuidanceConfig(path string) (*GuidanceConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyGuidanceConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded;
// intended for test setup and the harness.
func MustLoadDefaultConfig() *GuidanceConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/ or cmd/mount-sim/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadGuidanceConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks that the configuration values are usable.
func (c *GuidanceConfig) Validate() error {
	if c.VeryNearThreshold != nil && *c.VeryNearThreshold <= 0 {
		return fmt.Errorf("very_near_threshold_m must be positive, got %f", *c.VeryNearThreshold)
	}
	if c.NearThreshold != nil {
		if *c.NearThreshold < 0 {
			return fmt.Errorf("near_threshold_m must be >= 0, got %f", *c.NearThreshold)
		}
		if *c.NearThreshold > 0 && *c.NearThreshold <= c.GetVeryNearThreshold() {
			return fmt.Errorf("near_threshold_m (%f) must exceed very_near_threshold_m (%f) or be 0",
				*c.NearThreshold, c.GetVeryNearThreshold())
		}
	}
	if c.AnchorDrop != nil && *c.AnchorDrop < 0 {
		return fmt.Errorf("anchor_drop_m must be >= 0, got %f", *c.AnchorDrop)
	}
	if c.AnchorDepthPush != nil && *c.AnchorDepthPush < 0 {
		return fmt.Errorf("anchor_depth_push_m must be >= 0, got %f", *c.AnchorDepthPush)
	}
	if c.MaxComponents != nil && *c.MaxComponents != 4 && *c.MaxComponents != 6 {
		return fmt.Errorf("max_components must be 4 or 6, got %d", *c.MaxComponents)
	}
	if c.LogQueueSize != nil && *c.LogQueueSize < 1 {
		return fmt.Errorf("log_queue_size must be at least 1, got %d", *c.LogQueueSize)
	}
	return nil
}

// GetVeryNearThreshold returns very_near_threshold_m or the default.
func (c *GuidanceConfig) GetVeryNearThreshold() float64 {
	if c.VeryNearThreshold == nil {
		return DefaultVeryNearThreshold
	}
	return *c.VeryNearThreshold
}

// GetNearThreshold returns near_threshold_m or the default (disabled).
func (c *GuidanceConfig) GetNearThreshold() float64 {
	if c.NearThreshold == nil {
		return DefaultNearThreshold
	}
	return *c.NearThreshold
}

// GetAnchorDrop returns anchor_drop_m or the default.
func (c *GuidanceConfig) GetAnchorDrop() float64 {
	if c.AnchorDrop == nil {
		return DefaultAnchorDrop
	}
	return *c.AnchorDrop
}

// GetAnchorDepthPush returns anchor_depth_push_m or the default.
func (c *GuidanceConfig) GetAnchorDepthPush() float64 {
	if c.AnchorDepthPush == nil {
		return DefaultAnchorDepthPush
	}
	return *c.AnchorDepthPush
}

// GetMaxComponents returns max_components or the default.
func (c *GuidanceConfig) GetMaxComponents() int {
	if c.MaxComponents == nil {
		return DefaultMaxComponents
	}
	return *c.MaxComponents
}

// GetLogDir returns log_dir or the default.
func (c *GuidanceConfig) GetLogDir() string {
	if c.LogDir == nil || *c.LogDir == "" {
		return DefaultLogDir
	}
	return *c.LogDir
}

// GetDBPath returns db_path or the default. An explicit empty string
// disables the SQLite log.
func (c *GuidanceConfig) GetDBPath() string {
	if c.DBPath == nil {
		return DefaultDBPath
	}
	return *c.DBPath
}

// GetLogQueueSize returns log_queue_size or the default.
func (c *GuidanceConfig) GetLogQueueSize() int {
	if c.LogQueueSize == nil {
		return DefaultLogQueueSize
	}
	return *c.LogQueueSize
}

// GetReportDir returns report_dir or the default.
func (c *GuidanceConfig) GetReportDir() string {
	if c.ReportDir == nil || *c.ReportDir == "" {
		return DefaultReportDir
	}
	return *c.ReportDir
}
