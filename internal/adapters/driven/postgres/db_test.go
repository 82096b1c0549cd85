package postgres

import (
	"testing"
	"time"
)

func TestConfigNormalize(t *testing.T) {
	cfg := Config{URL: "postgres://localhost/procmap"}.normalize()

	if cfg.MaxOpenConns != defaultMaxOpenConns {
		t.Errorf("expected default max open conns, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != defaultMaxIdleConns {
		t.Errorf("expected default max idle conns, got %d", cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != defaultConnMaxLifetime {
		t.Errorf("expected default conn lifetime, got %v", cfg.ConnMaxLifetime)
	}

	custom := Config{URL: "postgres://localhost/procmap", MaxOpenConns: 3}.normalize()
	if custom.MaxOpenConns != 3 {
		t.Errorf("explicit setting must survive normalize, got %d", custom.MaxOpenConns)
	}
}

func TestNullTimeRoundTrip(t *testing.T) {
	if NullTime(nil).Valid {
		t.Error("nil time must map to invalid NullTime")
	}

	now := time.Now()
	nt := NullTime(&now)
	if !nt.Valid || !nt.Time.Equal(now) {
		t.Errorf("unexpected NullTime %+v", nt)
	}

	ptr := TimePtr(nt)
	if ptr == nil || !ptr.Equal(now) {
		t.Errorf("unexpected pointer %v", ptr)
	}
	if TimePtr(NullTime(nil)) != nil {
		t.Error("invalid NullTime must map back to nil")
	}
}
