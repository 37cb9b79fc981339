// Package audit periodically checks that expected indexes are present.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robfig/cron/v3"

	"github.com/onyx-go/schema/internal/database/migrations"
	"github.com/onyx-go/schema/internal/logging"
)

// ErrAlreadyRunning is returned by Start on a running auditor
var ErrAlreadyRunning = errors.New("auditor is already running")

// Checker answers index existence questions. migrations.SchemaBuilder
// satisfies it.
type Checker interface {
	IndexExists(ctx context.Context, tableName string, columns []string, options migrations.IndexOptions) (bool, error)
}

// Options configures an Auditor
type Options struct {
	Logger logging.Logger
	// RunTimeout bounds each scheduled run. Zero means one minute.
	RunTimeout time.Duration
}

// Auditor checks a fixed list of expectations, on demand or on a cron schedule
type Auditor struct {
	checker      Checker
	expectations []Expectation
	logger       logging.Logger
	runTimeout   time.Duration
	metrics      metrics

	mutex   sync.Mutex
	cron    *cron.Cron
	lastErr error
}

// New validates the expectations and creates an auditor
func New(checker Checker, expectations []Expectation, o Options) (*Auditor, error) {
	var result *multierror.Error
	for i, e := range expectations {
		if err := e.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("expectation %d: %w", i, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	if o.Logger == nil {
		o.Logger = logging.NewNullLogger()
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = time.Minute
	}

	return &Auditor{
		checker:      checker,
		expectations: expectations,
		logger:       o.Logger,
		runTimeout:   o.RunTimeout,
		metrics:      newMetrics(),
	}, nil
}

// Check runs every expectation once. It returns nil when all indexes are
// present, otherwise a multierror holding one MissingIndexError per missing
// index and any catalog errors. One failing check does not stop the others.
func (a *Auditor) Check(ctx context.Context) error {
	var (
		result  *multierror.Error
		missing int
	)

	for _, e := range a.expectations {
		exists, err := a.checker.IndexExists(ctx, e.Table, e.Columns, e.Options())
		if err != nil {
			a.metrics.CheckErrors.Inc()
			a.logger.ErrorContext(ctx, "Index check failed", map[string]interface{}{
				"table": e.Table,
				"error": err.Error(),
			})
			result = multierror.Append(result, fmt.Errorf("check %s: %w", e, err))
			continue
		}

		if !exists {
			missing++
			a.logger.WarnContext(ctx, "Expected index is missing", map[string]interface{}{
				"table":       e.Table,
				"expectation": e.String(),
			})
			result = multierror.Append(result, &MissingIndexError{Expectation: e})
		}
	}

	a.metrics.Runs.Inc()
	a.metrics.MissingIndexes.Set(float64(missing))
	a.metrics.LastRun.SetToCurrentTime()

	err := result.ErrorOrNil()

	a.mutex.Lock()
	a.lastErr = err
	a.mutex.Unlock()

	a.logger.InfoContext(ctx, "Index audit finished", map[string]interface{}{
		"expectations": len(a.expectations),
		"missing":      missing,
	})

	return err
}

// LastError returns the result of the most recent run
func (a *Auditor) LastError() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.lastErr
}

// Start runs Check on the cron schedule until Stop is called. Standard five
// field expressions and descriptors such as "@every 10m" are accepted.
func (a *Auditor) Start(schedule string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.cron != nil {
		return ErrAlreadyRunning
	}

	logger := cronLogger{logger: a.logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)

	if _, err := c.AddFunc(schedule, a.run); err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}

	c.Start()
	a.cron = c

	a.logger.Info("Index auditor started", map[string]interface{}{
		"schedule":     schedule,
		"expectations": len(a.expectations),
	})

	return nil
}

// Stop stops the schedule and waits for a running check to finish or ctx
// to be done.
func (a *Auditor) Stop(ctx context.Context) error {
	a.mutex.Lock()
	c := a.cron
	a.cron = nil
	a.mutex.Unlock()

	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		a.logger.Info("Index auditor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Auditor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), a.runTimeout)
	defer cancel()

	// Missing indexes are logged and recorded by Check
	_ = a.Check(ctx)
}

// cronLogger adapts logging.Logger to cron.Logger
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toContext(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := toContext(keysAndValues)
	fields["error"] = err.Error()
	l.logger.Error(msg, fields)
}

func toContext(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
