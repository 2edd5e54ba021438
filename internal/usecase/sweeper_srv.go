package usecase

import (
	"context"
	"sync"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/database"
	"albergue-booking/pkg/metrics"

	"go.uber.org/zap"
)

// Sweeper expires reservations whose hold deadline has passed. Each
// overdue reservation is processed in its own transaction so one
// failure never blocks the rest of the batch.
type Sweeper struct {
	repo     *repository.Repository
	txm      database.TxManager
	clk      clock.Clock
	metrics  *metrics.Metrics
	interval time.Duration
	log      *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(
	repo *repository.Repository,
	txm database.TxManager,
	clk clock.Clock,
	m *metrics.Metrics,
	interval time.Duration,
	log *zap.Logger,
) *Sweeper {
	return &Sweeper{
		repo:     repo,
		txm:      txm,
		clk:      clk,
		metrics:  m,
		interval: interval,
		log:      log.With(zap.String("service", "sweeper")),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one sweep synchronously, then keeps sweeping on the
// configured interval until Stop is called or ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	if expired, failed, err := s.RunSweep(ctx); err != nil {
		s.log.Error("Initial sweep failed", zap.Error(err))
	} else if expired > 0 || failed > 0 {
		s.log.Info("Initial sweep done", zap.Int("expired", expired), zap.Int("failed", failed))
	}

	go s.loop(ctx)
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := s.clk.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			expired, failed, err := s.RunSweep(ctx)
			if err != nil {
				s.log.Error("Sweep failed", zap.Error(err))
				continue
			}
			if expired > 0 || failed > 0 {
				s.log.Info("Sweep done", zap.Int("expired", expired), zap.Int("failed", failed))
			}
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// RunSweep expires every reservation whose hold deadline is past and
// returns how many were expired and how many attempts failed.
func (s *Sweeper) RunSweep(ctx context.Context) (expired, failed int, err error) {
	s.metrics.SweepRuns.Inc()

	now := s.clk.Now()
	due, err := s.repo.Reservation.FindDueForExpiry(ctx, now)
	if err != nil {
		s.metrics.SweepFailures.Inc()
		return 0, 0, err
	}

	for _, reservation := range due {
		if err := s.expireOne(ctx, reservation); err != nil {
			failed++
			s.metrics.SweepFailures.Inc()
			s.log.Error("Failed to expire reservation",
				zap.String("reference", reservation.Reference),
				zap.Error(err),
			)
			continue
		}
		expired++
		s.metrics.ReservationsExpired.Inc()
		s.log.Info("Reservation expired",
			zap.String("reference", reservation.Reference),
			zap.Time("hold_deadline", reservation.HoldDeadline),
		)
	}

	return expired, failed, nil
}

func (s *Sweeper) expireOne(ctx context.Context, reservation *entity.Reservation) error {
	return s.txm.Do(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Reservation.MarkExpired(ctx, reservation.ID)
		if err != nil {
			return err
		}
		if !ok {
			// Settled or cancelled between the scan and this
			// transaction; nothing left to do.
			return nil
		}

		if reservation.BedID != nil {
			if err := s.repo.Bed.UpdateStatus(ctx, *reservation.BedID, entity.BedStatusAvailable, nil); err != nil {
				return err
			}
		}

		_, err = s.repo.Payment.ResolvePending(ctx, reservation.ID, entity.PaymentStatusCancelled, nil)
		return err
	})
}
