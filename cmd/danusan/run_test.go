package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

type appStub struct {
	startErr error
	stopErr  error
	done     chan os.Signal
	stopped  bool
}

func (a *appStub) Start(context.Context) error { return a.startErr }
func (a *appStub) Stop(context.Context) error {
	a.stopped = true
	return a.stopErr
}
func (a *appStub) Done() <-chan os.Signal { return a.done }

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := &appStub{done: make(chan os.Signal)}
	var stderr bytes.Buffer
	if code := run(ctx, app, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	if !app.stopped {
		t.Fatal("expected app to be stopped")
	}
}

func TestRunStopsWhenAppIsDone(t *testing.T) {
	app := &appStub{done: make(chan os.Signal, 1)}
	app.done <- os.Interrupt

	if code := run(context.Background(), app, &bytes.Buffer{}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunReportsFailures(t *testing.T) {
	var stderr bytes.Buffer
	app := &appStub{startErr: errors.New("boom"), done: make(chan os.Signal)}
	if code := run(context.Background(), app, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "failed to start storefront") || app.stopped {
		t.Fatalf("unexpected start failure handling: %q stopped=%v", stderr.String(), app.stopped)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stderr.Reset()
	app = &appStub{stopErr: errors.New("stuck"), done: make(chan os.Signal)}
	if code := run(ctx, app, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "failed to stop storefront") {
		t.Fatalf("unexpected stop failure output: %q", stderr.String())
	}
}
