package config

import (
	"testing"
	"time"
)

func TestReadDefaults(t *testing.T) {
	t.Setenv("ENV", EnvLocal)
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Storage.Driver != "postgres" {
		t.Fatalf("expected postgres driver by default, got %q", cfg.Storage.Driver)
	}
	if cfg.Notifications.ListLimit != 50 {
		t.Fatalf("expected list limit 50, got %d", cfg.Notifications.ListLimit)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestReadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("JWT_SIGNING_KEY", "secret")

	if _, err := NewEnvReader().Read(); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}

func TestReadReminderDefaults(t *testing.T) {
	t.Setenv("ENV", EnvLocal)

	cfg, err := NewEnvReader().ReadReminder()
	if err != nil {
		t.Fatalf("read reminder: %v", err)
	}
	if cfg.PollInterval != time.Minute || cfg.Lead != 10*time.Minute || cfg.NightHour != 21 {
		t.Fatalf("unexpected timing defaults %+v", cfg)
	}
	if cfg.HighPriorityCooldown != 90*time.Minute || cfg.Snooze != 10*time.Minute {
		t.Fatalf("unexpected cooldown defaults %+v", cfg)
	}

	t.Setenv("REMINDER_NIGHT_HOUR", "25")
	if _, err = NewEnvReader().ReadReminder(); err == nil {
		t.Fatalf("expected error for invalid night hour")
	}
}
