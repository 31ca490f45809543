package activity

import (
	"context"
	"fmt"
	"log/slog"
)

// Service handles notification queries.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns notifications matching opts, applying the default page size.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit < 0 || opts.AfterSeq < 0 {
		return nil, ErrInvalidInput
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	s.logger.Debug("listed notifications", "count", len(entries), "after_seq", opts.AfterSeq)
	return entries, nil
}
