package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_SetAndGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().Set(SettingHighThreshold, "0.25"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := s.Settings().Get(SettingHighThreshold)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "0.25" {
		t.Errorf("value = %q, want %q", value, "0.25")
	}
}

func TestSettingsRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Settings().Get("no-such-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSettingsRepository_SetOverwrites(t *testing.T) {
	s := newTestStore(t)

	s.Settings().Set(SettingLowThreshold, "0.1")
	s.Settings().Set(SettingLowThreshold, "0.12")

	if got := s.Settings().GetFloat(SettingLowThreshold, 0); got != 0.12 {
		t.Errorf("GetFloat() = %v, want 0.12", got)
	}
}

func TestSettingsRepository_GetFloatFallback(t *testing.T) {
	s := newTestStore(t)

	if got := s.Settings().GetFloat("missing", 0.5); got != 0.5 {
		t.Errorf("GetFloat() fallback = %v, want 0.5", got)
	}

	s.Settings().Set("garbage", "not-a-number")
	if got := s.Settings().GetFloat("garbage", 0.5); got != 0.5 {
		t.Errorf("GetFloat() on garbage = %v, want fallback 0.5", got)
	}
}

func TestSettingsRepository_GetBool(t *testing.T) {
	s := newTestStore(t)

	if got := s.Settings().GetBool(SettingDrawSkeleton, true); !got {
		t.Error("GetBool() fallback = false, want true")
	}

	s.Settings().Set(SettingDrawSkeleton, "false")
	if got := s.Settings().GetBool(SettingDrawSkeleton, true); got {
		t.Error("GetBool() = true, want false")
	}
}

func TestSettingsRepository_SetFloat(t *testing.T) {
	s := newTestStore(t)

	if err := s.Settings().SetFloat(SettingMinDuration, 0.75); err != nil {
		t.Fatalf("SetFloat() error = %v", err)
	}
	if got := s.Settings().GetFloat(SettingMinDuration, 0); got != 0.75 {
		t.Errorf("GetFloat() = %v, want 0.75", got)
	}
}
