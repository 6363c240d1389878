package service

import (
	"time"

	repository "github.com/okian/mizan/internal/adapters/repository"
	"github.com/okian/mizan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the root holding config.json and the year directories.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithStore sets the snapshot store. Without it Start creates a MemoryStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecentLimit sets how many recent activities a report lists.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithMaxLeaderboardLimit caps the number of leaderboard entries returned.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithDefaultYear pins the year used when a caller does not pick one.
// Zero defers to the dataset's current year.
func WithDefaultYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.defaultYear = year
		}
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
