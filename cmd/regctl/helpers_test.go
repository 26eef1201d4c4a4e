package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/regkit/internal/logger"
	"github.com/joshuapare/regkit/pkg/registry"
)

// useTempRegistry points every command at a fresh bolt file and resets
// global flags when the test ends.
func useTempRegistry(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")

	saved := cfg
	cfg = settings{Backend: registry.BackendFile, DB: path, Policy: registry.FailFast}
	log = logger.Discard()
	t.Cleanup(func() {
		cfg = saved
		verbose, quiet, jsonOut, bestEffort = false, false, false, false
		exportOut, exportUTF16, importDryRun = "", false, false
	})
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot block the writer.
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done
	return buf.String(), fnErr
}
