// Package jobs runs budgetd's background work: the periodic sweep that
// deletes expired sessions so storage stays bounded.
//
// With the PostgreSQL store the sweep runs as a River periodic job,
// which gives it at-most-one execution across replicas and a durable
// job history. Stores without a pg pool behind them use RunPeriodic, a
// plain in-process loop over the same cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/budgetd/pkg/session"
)

// SweepArgs is the payload for the session sweep job. The job carries
// no data; its schedule is the whole point.
type SweepArgs struct{}

// Kind identifies the job type in the river job table.
func (SweepArgs) Kind() string { return "session_sweep" }

// SweepWorker deletes expired sessions on each run.
type SweepWorker struct {
	river.WorkerDefaults[SweepArgs]

	sessions *session.Manager
	logger   *slog.Logger
}

// Work performs one sweep. A failed sweep is returned as an error so
// river records it; the next scheduled run retries.
func (w *SweepWorker) Work(ctx context.Context, _ *river.Job[SweepArgs]) error {
	n, err := w.sessions.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("jobs: session sweep: %w", err)
	}

	w.logger.InfoContext(ctx, "session sweep completed",
		slog.Int64("removed", n),
	)

	return nil
}

// Sweeper owns the river client running the periodic sweep.
type Sweeper struct {
	client *river.Client[pgx.Tx]
	logger *slog.Logger
}

// MigrateRiver provisions river's own schema (river_job, river_leader,
// river_queue). Must run before Sweeper.Start on a fresh database;
// job inserts and leader election fail without these tables.
func MigrateRiver(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: log})
	if err != nil {
		return fmt.Errorf("jobs: create river migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("jobs: apply river migrations: %w", err)
	}

	if len(res.Versions) > 0 {
		log.InfoContext(ctx, "river migrations applied",
			slog.Int("count", len(res.Versions)),
		)
	}

	return nil
}

// NewSweeper creates a sweeper on the given pool. The schedule is a
// five-field cron expression.
func NewSweeper(pool *pgxpool.Pool, sessions *session.Manager, schedule string, log *slog.Logger) (*Sweeper, error) {
	sched, err := ParseSchedule(schedule)
	if err != nil {
		return nil, fmt.Errorf("jobs: invalid sweep schedule %q: %w", schedule, err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &SweepWorker{sessions: sessions, logger: log})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				&cronScheduleAdapter{schedule: sched},
				func() (river.JobArgs, *river.InsertOpts) {
					return SweepArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("jobs: create river client: %w", err)
	}

	return &Sweeper{client: client, logger: log}, nil
}

// Start begins processing the periodic sweep.
func (s *Sweeper) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("jobs: start sweeper: %w", err)
	}

	s.logger.Info("session sweeper started")

	return nil
}

// Stop drains the sweeper, waiting for an in-flight sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	return s.client.Stop(ctx)
}

// cronScheduleAdapter bridges a cron.Schedule to river.PeriodicSchedule.
type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

// ParseSchedule parses a standard five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(expr)
}

// RunPeriodic invokes fn on the given cron schedule until the context
// is canceled. It backs the sweep for stores that have no pg pool for
// river to run on.
func RunPeriodic(ctx context.Context, sched cron.Schedule, fn func(context.Context) error, log *slog.Logger) {
	for {
		next := sched.Next(time.Now())

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if err := fn(ctx); err != nil {
			log.ErrorContext(ctx, "periodic task failed", slog.Any("error", err))
		}
	}
}
