package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Ping: time.Second, Long: time.Minute})
	if Ping() != time.Second {
		t.Errorf("Ping() = %v, want 1s", Ping())
	}
	if Short() != DefaultShort {
		t.Errorf("Short() = %v, want default %v", Short(), DefaultShort)
	}
	if Long() != time.Minute {
		t.Errorf("Long() = %v, want 1m", Long())
	}

	Reset()
	if Current() != (Config{Ping: DefaultPing, Short: DefaultShort, Long: DefaultLong}) {
		t.Errorf("Current() after Reset = %+v", Current())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, log, "slow-op")
	<-ctx.Done()
	cancel()
	if logs.FilterMessage("operation timed out").Len() != 1 {
		t.Errorf("expected one timeout warning, got %d", logs.Len())
	}

	core, logs = observer.New(zap.WarnLevel)
	_, cancel = WithTimeout(context.Background(), time.Minute, zap.New(core), "fast-op")
	cancel()
	if logs.Len() != 0 {
		t.Errorf("cancel before deadline logged %d entries", logs.Len())
	}
}
