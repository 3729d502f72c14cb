package controller

import (
	"context"
	"errors"
	"testing"
)

func TestCapturePersistsException(t *testing.T) {
	repo := &exceptionCapture{}

	Capture(context.Background(), repo, "TrailController", "controller", "gateway.Rates", "error",
		errors.New("connection refused"), map[string]interface{}{"symbol": "EURUSD"})

	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 exception, got %d", len(repo.rows))
	}

	exc := repo.rows[0]
	if exc.Service != "TrailController" || exc.Module != "controller" || exc.Method != "gateway.Rates" {
		t.Fatalf("unexpected exception origin: %+v", exc)
	}
	if exc.Message != "connection refused" {
		t.Fatalf("unexpected message: %s", exc.Message)
	}
	if exc.Stack == "" {
		t.Fatalf("expected a stack trace")
	}
	if exc.Context != `{"symbol":"EURUSD"}` {
		t.Fatalf("unexpected context payload: %s", exc.Context)
	}
}

func TestCaptureIgnoresNilError(t *testing.T) {
	repo := &exceptionCapture{}

	Capture(context.Background(), repo, "TrailController", "controller", "gateway.Rates", "error", nil, nil)

	if len(repo.rows) != 0 {
		t.Fatalf("expected no exception for nil error, got %d", len(repo.rows))
	}
}

func TestCaptureWithoutRepositoryOnlyLogs(t *testing.T) {
	// Must not panic with a nil repository.
	Capture(context.Background(), nil, "TrailController", "controller", "gateway.Ping", "error",
		errors.New("boom"), nil)
}
