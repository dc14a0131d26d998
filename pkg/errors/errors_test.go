package errors

import (
	"fmt"
	"testing"
)

func TestEngineError_Error(t *testing.T) {
	err := New(CategoryStore, CodeReadFailed, "failed to read transactions from store")
	if err.Error() != "failed to read transactions from store" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	err.WithSuggestion("check the data source")
	expected := "failed to read transactions from store (suggestion: check the data source)"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}

func TestEngineError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := StoreWriteError("transaction", "TX-1", cause)

	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return the cause")
	}
	if err.Category != CategoryStore || err.Code != CodeWriteFailed {
		t.Errorf("Unexpected category/code: %s/%s", err.Category, err.Code)
	}
	if err.Context["id"] != "TX-1" {
		t.Errorf("Expected transaction ID in context, got %v", err.Context["id"])
	}
}

func TestEngineError_ExitCodes(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected int
	}{
		{CategoryInputData, 2},
		{CategoryStore, 3},
		{CategoryConfiguration, 4},
		{CategoryInternal, 5},
		{CategoryExternalProvider, 6},
	}

	for _, tt := range tests {
		err := New(tt.category, CodeUnexpectedError, "test")
		if got := err.GetExitCode(); got != tt.expected {
			t.Errorf("Category %s: expected exit code %d, got %d", tt.category, tt.expected, got)
		}
	}
}

func TestErrorSummary(t *testing.T) {
	errs := []*EngineError{
		StoreWriteError("transaction", "TX-1", fmt.Errorf("boom")),
		StoreWriteError("transaction", "TX-2", fmt.Errorf("boom")),
		ExternalProviderError("openai", fmt.Errorf("timeout")),
	}

	summary := NewErrorSummary(errs)
	if summary.Total != 3 {
		t.Errorf("Expected 3 errors, got %d", summary.Total)
	}
	if summary.ByCategory[CategoryStore] != 2 {
		t.Errorf("Expected 2 store errors, got %d", summary.ByCategory[CategoryStore])
	}
	if !summary.HasCategory(CategoryExternalProvider) {
		t.Error("Expected external provider category present")
	}
	if summary.GetExitCode() != 6 {
		t.Errorf("Expected highest exit code 6, got %d", summary.GetExitCode())
	}
}

func TestErrorSummary_Empty(t *testing.T) {
	summary := NewErrorSummary(nil)
	if summary.Total != 0 {
		t.Errorf("Expected empty summary, got %d", summary.Total)
	}
	if summary.GetExitCode() != 0 {
		t.Errorf("Expected exit code 0, got %d", summary.GetExitCode())
	}
	if summary.Error() != "no errors" {
		t.Errorf("Unexpected message: %s", summary.Error())
	}
}

func TestWrapIfNeeded(t *testing.T) {
	original := StoreReadError("events", fmt.Errorf("timeout"))
	wrapped := WrapIfNeeded(original, CategoryInternal, CodeUnexpectedError, "should not rewrap")

	if wrapped != original {
		t.Error("Expected existing EngineError to pass through unchanged")
	}

	plain := WrapIfNeeded(fmt.Errorf("plain"), CategoryInternal, CodeUnexpectedError, "wrapped")
	if plain.Category != CategoryInternal {
		t.Errorf("Expected plain error wrapped as internal, got %s", plain.Category)
	}

	if WrapIfNeeded(nil, CategoryInternal, CodeUnexpectedError, "nil") != nil {
		t.Error("Expected nil in, nil out")
	}
}
