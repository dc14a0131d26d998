package config

import (
	"testing"

	"club-reconciliation-engine/internal/reporter"
	"club-reconciliation-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

func TestCreateMatcherConfig(t *testing.T) {
	config, err := CreateMatcherConfig(0, 0)
	if err != nil {
		t.Fatalf("CreateMatcherConfig failed: %v", err)
	}
	if !config.ParticipantAmountTolerance.Equal(decimal.NewFromFloat(0.50)) {
		t.Errorf("Expected default tolerance 0.50, got %s", config.ParticipantAmountTolerance)
	}

	config, err = CreateMatcherConfig(1.00, 90)
	if err != nil {
		t.Fatalf("CreateMatcherConfig failed: %v", err)
	}
	if !config.ParticipantAmountTolerance.Equal(decimal.NewFromFloat(1.00)) {
		t.Errorf("Expected override 1.00, got %s", config.ParticipantAmountTolerance)
	}
	if config.ParticipantNameThreshold != 90 {
		t.Errorf("Expected name threshold 90, got %f", config.ParticipantNameThreshold)
	}

	_, invalidErr := CreateMatcherConfig(0, 150)
	if invalidErr == nil {
		t.Fatal("Expected error for out-of-range name threshold")
	}
	if engineErr, ok := errors.AsEngineError(invalidErr); !ok || engineErr.Category != errors.CategoryConfiguration {
		t.Errorf("Expected configuration error, got %v", invalidErr)
	}
}

func TestCreatePolicy(t *testing.T) {
	p, err := CreatePolicy(false, 0, 0)
	if err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}
	if p.AutoLinkThreshold != 80 || p.SuggestThreshold != 50 {
		t.Errorf("Expected default thresholds 80/50, got %.0f/%.0f",
			p.AutoLinkThreshold, p.SuggestThreshold)
	}

	p, err = CreatePolicy(true, 0, 0)
	if err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}
	if p.AutoLinkThreshold != 85 || p.SuggestThreshold != 60 {
		t.Errorf("Expected strict thresholds 85/60, got %.0f/%.0f",
			p.AutoLinkThreshold, p.SuggestThreshold)
	}

	if _, err := CreatePolicy(false, 40, 70); err == nil {
		t.Error("Expected error when suggest exceeds auto-link")
	}
}

func TestCreateReportConfig(t *testing.T) {
	config, err := CreateReportConfig("json")
	if err != nil {
		t.Fatalf("CreateReportConfig failed: %v", err)
	}
	if config.Format != reporter.FormatJSON {
		t.Errorf("Expected JSON format, got %s", config.Format)
	}

	_, invalidErr := CreateReportConfig("xml")
	if invalidErr == nil {
		t.Fatal("Expected error for unsupported format")
	}
	if engineErr, ok := errors.AsEngineError(invalidErr); !ok || engineErr.Category != errors.CategoryConfiguration {
		t.Errorf("Expected configuration error, got %v", invalidErr)
	}
}
