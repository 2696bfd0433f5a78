//go:build !windows
// +build !windows

package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestShellLauncher_Launch(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "started")
	l := &ShellLauncher{logger: zap.NewNop(), command: "echo ok > " + marker}

	if err := l.Launch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if data, err := os.ReadFile(marker); err == nil && string(data) == "ok\n" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("start command did not run")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestShellLauncher_NoCommand(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin always has a default start command")
	}
	// An empty PATH hides node-sonos-http-api
	t.Setenv("PATH", t.TempDir())

	l := &ShellLauncher{logger: zap.NewNop()}
	if err := l.Launch(context.Background()); !errors.Is(err, ErrNoCommand) {
		t.Errorf("expected ErrNoCommand, got %v", err)
	}
}

func TestShellLauncher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := &ShellLauncher{logger: zap.NewNop(), command: "true"}
	if err := l.Launch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDefaultCommand_FindsBridgeOnPath(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("darwin uses the desktop start script")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, bridgeBinary)
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	if got := defaultCommand(); got != bridgeBinary {
		t.Errorf("expected %s, got %q", bridgeBinary, got)
	}
}
