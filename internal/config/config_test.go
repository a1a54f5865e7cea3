package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != "localhost:8844" {
		t.Errorf("HTTPAddr = %q, want localhost:8844", cfg.HTTPAddr)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath should default under the data directory")
	}

	d := cfg.Detector()
	if d.Low >= d.High {
		t.Errorf("default thresholds inverted: low=%v high=%v", d.Low, d.High)
	}
	if d.MinDuration <= 0 {
		t.Errorf("default MinDuration = %v, want > 0", d.MinDuration)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TAALA_ADDR", "0.0.0.0:9000")
	t.Setenv("TAALA_CAMERA_ID", "2")
	t.Setenv("TAALA_HIGH_THRESHOLD", "0.4")
	t.Setenv("TAALA_LOW_THRESHOLD", "0.3")
	t.Setenv("TAALA_DRAW_SKELETON", "false")

	cfg := Load()

	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	if cfg.HighThreshold != 0.4 || cfg.LowThreshold != 0.3 {
		t.Errorf("thresholds = %v/%v, want 0.4/0.3", cfg.HighThreshold, cfg.LowThreshold)
	}
	if cfg.DrawSkeleton {
		t.Error("DrawSkeleton should be false")
	}
}

func TestLoad_InvalidThresholdsFallBack(t *testing.T) {
	t.Setenv("TAALA_HIGH_THRESHOLD", "0.1")
	t.Setenv("TAALA_LOW_THRESHOLD", "0.5")

	cfg := Load()

	if cfg.LowThreshold >= cfg.HighThreshold {
		t.Errorf("inverted thresholds kept: low=%v high=%v", cfg.LowThreshold, cfg.HighThreshold)
	}
}

func TestLoad_MalformedNumbersKeepDefaults(t *testing.T) {
	t.Setenv("TAALA_CAMERA_ID", "not-a-number")
	t.Setenv("TAALA_MOTION_THRESHOLD", "high")

	cfg := Load()

	if cfg.CameraID != 0 {
		t.Errorf("CameraID = %d, want 0", cfg.CameraID)
	}
	if cfg.MotionThresh != 1.0 {
		t.Errorf("MotionThresh = %v, want 1.0", cfg.MotionThresh)
	}
}
