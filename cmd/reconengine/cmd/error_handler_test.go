package cmd

import (
	"fmt"
	"testing"

	"club-reconciliation-engine/pkg/errors"
)

func TestCLIErrorHandler_HandleError(t *testing.T) {
	h := NewCLIErrorHandler()

	if code := h.HandleError(nil); code != 0 {
		t.Errorf("Expected exit code 0 for nil error, got %d", code)
	}

	storeErr := errors.StoreReadError("snapshot", fmt.Errorf("disk on fire"))
	if code := h.HandleError(storeErr); code != 3 {
		t.Errorf("Expected exit code 3 for store error, got %d", code)
	}

	if code := h.HandleError(fmt.Errorf("something odd")); code != 1 {
		t.Errorf("Expected exit code 1 for generic error, got %d", code)
	}
}

func TestCLIErrorHandler_HandleErrorSummary(t *testing.T) {
	h := NewCLIErrorHandler()

	summary := errors.NewErrorSummary([]*errors.EngineError{
		errors.StoreWriteError("transaction", "TX-1", fmt.Errorf("boom")),
		errors.ExternalProviderError("stub", fmt.Errorf("timeout")),
	})

	// The summary exits with the highest code among the collected errors.
	if code := h.HandleError(summary); code != 6 {
		t.Errorf("Expected exit code 6, got %d", code)
	}
}
