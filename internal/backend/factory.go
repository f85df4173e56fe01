package backend

import (
	"context"
	"errors"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/events"
	"gastos/internal/log"
	"gastos/internal/storage"
	"gastos/internal/storage/csvfile"
	"gastos/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store storage.Store
		err   error
	)
	switch config.Type {
	case CSVBackend:
		store, err = f.createCSVStore(ctx, config)
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	publisher, closePublisher := f.createPublisher(ctx, config)

	return &BackendResult{
		Store:     store,
		Publisher: publisher,
		Cleanup: func() error {
			return errors.Join(closePublisher(), store.Close())
		},
	}, nil
}

func (f *DefaultFactory) createCSVStore(ctx context.Context, config Config) (storage.Store, error) {
	store := csvfile.New(config.DataDir, f.logger)
	if err := store.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare csv storage: %w", err)
	}
	f.logger.Info("Initialized csv backend", "data_directory", config.DataDir)
	return store, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (storage.Store, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

// createPublisher never fails: without a reachable broker the app keeps
// working and simply does not emit events.
func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) (events.Publisher, func() error) {
	noop := func() error { return nil }
	if config.AMQPURL == "" {
		return events.Nop{}, noop
	}

	p, err := amqp.NewPublisher(ctx, config.AMQPURL, config.AMQPExchange, f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP publisher, continuing without events", log.FieldError, err)
		return events.Nop{}, noop
	}
	f.logger.Info("Initialized AMQP publisher", "exchange", config.AMQPExchange)
	return p, p.Close
}
