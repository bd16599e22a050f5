package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPolicyEmptyPathReturnsDefault(t *testing.T) {
	p, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("LoadPolicy returned error: %v", err)
	}
	if p != DefaultPolicy() {
		t.Fatalf("expected default policy, got %+v", p)
	}
	if p.RACPassengers() != 18 {
		t.Fatalf("rac passengers = %d, want 18", p.RACPassengers())
	}
}

func TestLoadPolicyOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.yaml")
	if err := os.WriteFile(path, []byte("confirmed_berths: 4\nrac_berths: 1\nwaiting_list: 2\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy returned error: %v", err)
	}
	if p.ConfirmedBerths != 4 || p.RACBerths != 1 || p.WaitingList != 2 {
		t.Fatalf("overlay not applied: %+v", p)
	}
	if p.SeniorAge != 60 || p.ChildAge != 5 || p.RACPerBerth != 2 {
		t.Fatalf("defaults lost: %+v", p)
	}
}

func TestLoadPolicyRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.yaml")
	if err := os.WriteFile(path, []byte("child_age: 70\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	if _, err := LoadPolicy(path); err == nil {
		t.Fatalf("expected validation error for child_age >= senior_age")
	}
}
