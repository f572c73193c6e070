package logging

import "testing"

func TestNew(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Level: "debug", JSON: true},
		{Level: "warn", Development: true},
	} {
		l, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%+v): %v", cfg, err)
		}
		if cfg.Level == "debug" && !l.Core().Enabled(-1) {
			t.Fatalf("debug level not enabled")
		}
		_ = l.Sync()
	}
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
