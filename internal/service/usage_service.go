package service

import (
	"context"
	"fmt"
	"time"

	"github.com/suar-net/usage-pricing-be/internal/model"
	"github.com/suar-net/usage-pricing-be/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type usageService struct {
	eventRepo repository.IEventRepository
	now       func() time.Time
}

func NewUsageService(eventRepo repository.IEventRepository) IUsageService {
	return &usageService{
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

// Record persists one usage event for an already authenticated caller.
func (s *usageService) Record(ctx context.Context, identity *model.Identity, usage model.UsageInput) (*model.Event, error) {
	if err := validateUsage(usage); err != nil {
		return nil, err
	}

	event := &model.Event{
		UserID:            identity.UserID,
		Endpoint:          usage.Endpoint,
		ExecutionTime:     s.now().UTC(),
		DurationMs:        usage.DurationMs,
		ResponseSizeBytes: usage.ResponseSizeBytes,
		StatusCode:        usage.StatusCode,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	return event, nil
}

// List returns the caller's own events, newest first.
func (s *usageService) List(ctx context.Context, identity *model.Identity, limit int) ([]*model.Event, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	events, err := s.eventRepo.GetByUserID(ctx, identity.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func validateUsage(usage model.UsageInput) error {
	if usage.Endpoint == "" {
		return fmt.Errorf("%w: endpoint cannot be empty", ErrInvalidUsage)
	}
	if usage.DurationMs < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrInvalidUsage, usage.DurationMs)
	}
	if usage.ResponseSizeBytes < 0 {
		return fmt.Errorf("%w: negative response size %d", ErrInvalidUsage, usage.ResponseSizeBytes)
	}
	if usage.StatusCode < 100 || usage.StatusCode > 599 {
		return fmt.Errorf("%w: status code %d out of range", ErrInvalidUsage, usage.StatusCode)
	}
	return nil
}
