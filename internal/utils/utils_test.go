package utils

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID on empty ctx = %q", got)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := SafeFilenamePart("  "); got != "NA" {
		t.Fatalf("blank -> %q", got)
	}
	if got := SafeFilenamePart("PNR 12/34"); got != "PNR_12_34" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  Asha \t  Rao "); got != "Asha Rao" {
		t.Fatalf("got %q", got)
	}
}
