package cache

import (
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LockerFactory creates lockers based on configuration
type LockerFactory struct {
	redisConfig config.RedisConfig
	logger      *zap.Logger
}

// LockerFactoryOption is a functional option for configuring the factory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(cfg config.RedisConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		redisConfig: cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLocker returns a Redis locker when Redis is enabled and reachable.
// Otherwise it falls back to an in-memory locker, which does not coordinate
// across instances; the one-cart-per-user index still holds.
func (f *LockerFactory) CreateLocker() shared.Locker {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory locker")
		return NewInMemoryLocker()
	}

	locker, err := NewRedisLocker(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		f.logger.Warn("Redis unavailable, falling back to in-memory locker", zap.Error(err))
		return NewInMemoryLocker()
	}

	f.logger.Info("using Redis locker", zap.String("addr", f.redisConfig.Addr()))
	return locker
}
