package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CoachPolicy holds the fixed capacities and age thresholds of one coach.
// It is passed by value into the allocation engine.
type CoachPolicy struct {
	ConfirmedBerths         int `yaml:"confirmed_berths"`
	RACBerths               int `yaml:"rac_berths"`
	RACPerBerth             int `yaml:"rac_per_berth"`
	WaitingList             int `yaml:"waiting_list"`
	ChildAge                int `yaml:"child_age"`
	SeniorAge               int `yaml:"senior_age"`
	MaxPassengersPerBooking int `yaml:"max_passengers_per_booking"`
}

func DefaultPolicy() CoachPolicy {
	return CoachPolicy{
		ConfirmedBerths:         63,
		RACBerths:               9,
		RACPerBerth:             2,
		WaitingList:             10,
		ChildAge:                5,
		SeniorAge:               60,
		MaxPassengersPerBooking: 5,
	}
}

// RACPassengers is the total number of RAC slots in the coach.
func (p CoachPolicy) RACPassengers() int { return p.RACBerths * p.RACPerBerth }

func (p CoachPolicy) Validate() error {
	switch {
	case p.ConfirmedBerths <= 0:
		return fmt.Errorf("confirmed_berths must be positive")
	case p.RACBerths <= 0:
		return fmt.Errorf("rac_berths must be positive")
	case p.RACPerBerth <= 0:
		return fmt.Errorf("rac_per_berth must be positive")
	case p.WaitingList <= 0:
		return fmt.Errorf("waiting_list must be positive")
	case p.MaxPassengersPerBooking <= 0:
		return fmt.Errorf("max_passengers_per_booking must be positive")
	case p.ChildAge < 0 || p.ChildAge >= p.SeniorAge:
		return fmt.Errorf("child_age must be in [0, senior_age)")
	}
	return nil
}

// LoadPolicy overlays the YAML file at path onto DefaultPolicy. An empty path
// returns the default policy.
func LoadPolicy(path string) (CoachPolicy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return CoachPolicy{}, fmt.Errorf("read policy: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return CoachPolicy{}, fmt.Errorf("decode policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return CoachPolicy{}, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}
