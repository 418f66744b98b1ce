//go:build unix

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"shoplist/internal/log"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSignalContextStopIsQuiet(t *testing.T) {
	var out syncBuffer
	ctx, stop := SignalContext(context.Background(), log.NewText(&out, slog.LevelInfo, "test"))
	stop()
	<-ctx.Done()

	if errors.Is(context.Cause(ctx), ErrShutdownSignal) {
		t.Fatal("stop reported as a signal")
	}
	time.Sleep(20 * time.Millisecond)
	if strings.Contains(out.String(), "Shutdown signal received") {
		t.Fatalf("unexpected log: %s", out.String())
	}
}

func TestSignalContextParentCancelIsQuiet(t *testing.T) {
	var out syncBuffer
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent, log.NewText(&out, slog.LevelInfo, "test"))
	defer stop()
	cancel()
	<-ctx.Done()

	time.Sleep(20 * time.Millisecond)
	if strings.Contains(out.String(), "Shutdown signal received") {
		t.Fatalf("unexpected log: %s", out.String())
	}
}

func TestSignalContextLogsSignal(t *testing.T) {
	var out syncBuffer
	ctx, stop := SignalContext(context.Background(), log.NewText(&out, slog.LevelInfo, "test"))
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
	if !errors.Is(context.Cause(ctx), ErrShutdownSignal) {
		t.Fatalf("cause = %v", context.Cause(ctx))
	}
	if !strings.Contains(out.String(), "Shutdown signal received") || !strings.Contains(out.String(), "signal=terminated") {
		t.Fatalf("missing signal log: %s", out.String())
	}
}
