package mfa

import (
	"context"
	"testing"

	"github.com/jackzampolin/audiobook-master/internal/testutil"
)

func TestManager_Defaults(t *testing.T) {
	if DefaultContainerName != "masterctl-mfa" {
		t.Errorf("unexpected default container name: %s", DefaultContainerName)
	}
	if DefaultPort != "8765" {
		t.Errorf("unexpected default port: %s", DefaultPort)
	}
}

func TestStatus_Values(t *testing.T) {
	statuses := []Status{StatusRunning, StatusStopped, StatusNotFound, StatusStarting}
	seen := make(map[Status]bool)
	for _, s := range statuses {
		if seen[s] {
			t.Errorf("duplicate status value: %s", s)
		}
		seen[s] = true
	}
}

func TestManager_Integration(t *testing.T) {
	cfg := testutil.NewMFAContainerConfig(t)

	mgr, err := NewManager(Config{
		ContainerName: cfg.ContainerName,
		HostPort:      cfg.HostPort,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.Close()

	ctx := context.Background()

	t.Run("NotFound before Ensure", func(t *testing.T) {
		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusNotFound {
			t.Errorf("expected not_found before Ensure, got %s", status)
		}
	})

	t.Run("Ensure starts the container", func(t *testing.T) {
		if err := mgr.Ensure(ctx); err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusRunning {
			t.Errorf("expected running after Ensure, got %s", status)
		}
	})

	t.Run("Ensure is idempotent", func(t *testing.T) {
		if err := mgr.Ensure(ctx); err != nil {
			t.Errorf("second Ensure() should succeed: %v", err)
		}
	})

	t.Run("Stop", func(t *testing.T) {
		if err := mgr.Stop(ctx); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
		status, err := mgr.Status(ctx)
		if err != nil {
			t.Fatalf("Status() error = %v", err)
		}
		if status != StatusStopped {
			t.Errorf("expected stopped after Stop, got %s", status)
		}
	})
}
