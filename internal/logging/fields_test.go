package logging

import (
	"errors"
	"testing"
)

func TestService(t *testing.T) {
	attr := Service("dropgate")
	if attr.Key != FieldService {
		t.Errorf("expected key %q, got %q", FieldService, attr.Key)
	}
	if attr.Value.String() != "dropgate" {
		t.Errorf("expected value %q, got %q", "dropgate", attr.Value.String())
	}
}

func TestError(t *testing.T) {
	attr := Error(errors.New("lease acquisition failed"))
	if attr.Key != FieldError {
		t.Errorf("expected key %q, got %q", FieldError, attr.Key)
	}
	if attr.Value.String() != "lease acquisition failed" {
		t.Errorf("expected value %q, got %q", "lease acquisition failed", attr.Value.String())
	}
}

func TestEventID(t *testing.T) {
	attr := EventID("evt-123")
	if attr.Key != FieldEventID {
		t.Errorf("expected key %q, got %q", FieldEventID, attr.Key)
	}
	if attr.Value.String() != "evt-123" {
		t.Errorf("expected value %q, got %q", "evt-123", attr.Value.String())
	}
}

func TestBlobName(t *testing.T) {
	attr := BlobName("report-2024.csv")
	if attr.Key != FieldBlobName {
		t.Errorf("expected key %q, got %q", FieldBlobName, attr.Key)
	}
	if attr.Value.String() != "report-2024.csv" {
		t.Errorf("expected value %q, got %q", "report-2024.csv", attr.Value.String())
	}
}

func TestOutcome(t *testing.T) {
	attr := Outcome("lease_held")
	if attr.Key != FieldOutcome {
		t.Errorf("expected key %q, got %q", FieldOutcome, attr.Key)
	}
	if attr.Value.String() != "lease_held" {
		t.Errorf("expected value %q, got %q", "lease_held", attr.Value.String())
	}
}

func TestDuration(t *testing.T) {
	attr := Duration(1234)
	if attr.Key != FieldDuration {
		t.Errorf("expected key %q, got %q", FieldDuration, attr.Key)
	}
	if attr.Value.Int64() != 1234 {
		t.Errorf("expected value %d, got %d", 1234, attr.Value.Int64())
	}
}
