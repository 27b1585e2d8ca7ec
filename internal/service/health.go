package service

import (
	"context"
	"fmt"
)

// HealthCheck pings one backing dependency.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthService interface {
	// Check runs every check in order and returns the first failure,
	// prefixed with the check's name.
	Check(ctx context.Context) error
}

type healthService struct {
	checks []HealthCheck
}

func NewHealthService(checks ...HealthCheck) HealthService {
	return &healthService{checks: checks}
}

func (s *healthService) Check(ctx context.Context) error {
	for _, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", check.Name, err)
		}
	}
	return nil
}
