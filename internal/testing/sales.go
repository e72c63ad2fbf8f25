package testing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/teranos/barista/engine"
	"github.com/teranos/barista/sales"
)

// SalesFilePath returns a path for a sales CSV inside a fresh temp directory.
// The file itself is not created.
func SalesFilePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "sales_history.csv")
}

// WriteSalesFile writes observations to a fresh temp sales file and returns its path
func WriteSalesFile(t *testing.T, observations []sales.Observation) string {
	t.Helper()

	path := SalesFilePath(t)
	if err := sales.NewCSVStore(path, nil).Save(observations); err != nil {
		t.Fatalf("Failed to write test sales file: %v", err)
	}
	return path
}

// WriteRawSalesFile writes content verbatim, for corrupt-file cases
func WriteRawSalesFile(t *testing.T, content string) string {
	t.Helper()

	path := SalesFilePath(t)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test sales file: %v", err)
	}
	return path
}

// CreateTestEngine opens an engine seeded with the default history in a temp
// directory. Automatically registers cleanup via t.Cleanup().
func CreateTestEngine(t *testing.T) (*engine.Engine, string) {
	t.Helper()

	path := SalesFilePath(t)
	e, err := engine.Open(context.Background(), engine.Options{
		SalesFile: path,
		Logger:    zaptest.NewLogger(t).Sugar(),
	})
	if err != nil {
		t.Fatalf("Failed to open test engine: %v", err)
	}

	t.Cleanup(func() {
		e.Close()
	})

	return e, path
}
