package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tcheck/internal/analytics"
	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/config"
	"github.com/sandeepkv93/tcheck/internal/logging"
	"github.com/sandeepkv93/tcheck/internal/storage"
)

// runtime is everything one invocation needs: the loaded board and the
// resources behind it.
type runtime struct {
	cfg        config.Config
	logger     *log.Logger
	fileLogger *log.Logger
	board      *board.Board
	tracker    analytics.Tracker

	store      storage.Store
	dispatcher *analytics.Dispatcher
	closers    []io.Closer
}

// openRuntime builds the board from cfg. console receives diagnostics for
// one-shot commands; interactive sessions pass nil and log to the file.
func openRuntime(ctx context.Context, cfg config.Config, console io.Writer) (*runtime, error) {
	rt := &runtime{cfg: cfg}

	rt.fileLogger = logging.Discard()
	if cfg.Log.Path != "" {
		logger, closer, err := logging.OpenFile(cfg.Log.Path, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		rt.fileLogger = logger
		rt.closers = append(rt.closers, closer)
	}
	rt.logger = rt.fileLogger
	if console != nil {
		rt.logger = logging.New(console, cfg.Log.Level)
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	rt.store = store

	rt.tracker, rt.dispatcher = newTracker(cfg.Analytics, rt.fileLogger)

	delay, err := cfg.UpgradeDelay()
	if err != nil {
		rt.Close()
		return nil, err
	}
	b, err := board.New(board.Options{
		Repo:         storage.NewRepository(store),
		Tracker:      rt.tracker,
		Logger:       rt.logger,
		UpgradeDelay: delay,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	if err := b.Load(ctx); err != nil {
		// The board falls back to defaults for whatever could not be read.
		rt.logger.Warn("board loaded with defaults", "err", err)
	}
	rt.board = b
	return rt, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil
	case config.DriverRedis:
		return storage.OpenRedis(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return storage.OpenSQL(cfg.Driver, cfg.DSN)
	}
}

func newTracker(cfg config.AnalyticsConfig, logger *log.Logger) (analytics.Tracker, *analytics.Dispatcher) {
	var sink analytics.Sink
	switch cfg.Sink {
	case config.SinkLog:
		sink = analytics.LogSink{Logger: logger}
	case config.SinkKafka:
		sink = analytics.NewKafkaSink(cfg.Brokers, cfg.Topic)
	default:
		return analytics.Nop{}, nil
	}
	d := analytics.NewDispatcher(sink, logger, cfg.Buffer)
	d.Start()
	return d, d
}

// Close flushes analytics, then releases the store and log files. Write
// failures the board recorded are returned so one-shot commands can
// report them.
func (rt *runtime) Close() error {
	var errs []error
	if rt.board != nil {
		if status := rt.board.PersistStatus(); !status.Durable() && status.LastErr != nil {
			errs = append(errs, fmt.Errorf("changes not saved: %w", status.LastErr))
		}
	}
	if rt.dispatcher != nil {
		rt.dispatcher.Stop()
		if dropped := rt.dispatcher.Dropped(); dropped > 0 {
			rt.fileLogger.Debug("analytics events dropped", "count", dropped)
		}
	}
	if rt.store != nil {
		errs = append(errs, rt.store.Close())
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i].Close())
	}
	return errors.Join(errs...)
}
