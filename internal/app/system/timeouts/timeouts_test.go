package timeouts

import (
	"testing"
	"time"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	if Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", Medium(), DefaultMedium)
	}
	if Batch() != DefaultBatch {
		t.Errorf("Batch() = %v, want default %v", Batch(), DefaultBatch)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Ping: time.Minute, Long: time.Hour})
	Reset()

	got := Current()
	if got.Ping != DefaultPing || got.Long != DefaultLong {
		t.Errorf("Reset did not restore defaults: %+v", got)
	}
}
