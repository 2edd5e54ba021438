package repository

import (
	"context"
	"errors"
	"fmt"

	"albergue-booking/internal/data/entity"
	"albergue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error)
	ResolvePending(ctx context.Context, reservationID uuid.UUID, to entity.PaymentStatus, method *string) (bool, error)
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO payments (id, reservation_id, amount, currency, method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		payment.ID,
		payment.ReservationID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("reservation_id", payment.ReservationID.String()),
		)
		return fmt.Errorf("create payment for reservation %s: %w", payment.ReservationID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, reservation_id, amount, currency, method, status, created_at, updated_at
		FROM payments
		WHERE reservation_id = $1
	`

	var payment entity.Payment
	err := q.QueryRow(ctx, query, reservationID).Scan(
		&payment.ID,
		&payment.ReservationID,
		&payment.Amount,
		&payment.Currency,
		&payment.Method,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		r.log.Error("Failed to find payment by reservation ID",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("find payment for reservation %s: %w", reservationID.String(), err)
	}

	return &payment, nil
}

// ResolvePending moves a reservation's payment out of pending. A
// failed payment stays retryable, so it can still be resolved. The
// status guard keeps terminal payments from being resolved twice when
// settlement and the expiry sweep race. Returns false if the payment
// was already terminal.
func (r *paymentRepository) ResolvePending(ctx context.Context, reservationID uuid.UUID, to entity.PaymentStatus, method *string) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE payments
		SET status = $2, method = COALESCE($3, method), updated_at = NOW()
		WHERE reservation_id = $1 AND status IN ('pending', 'failed')
	`

	tag, err := q.Exec(ctx, query, reservationID, to, method)
	if err != nil {
		r.log.Error("Failed to resolve pending payment",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
			zap.String("status", string(to)),
		)
		return false, fmt.Errorf("resolve payment for reservation %s to %s: %w",
			reservationID.String(), string(to), err)
	}

	return tag.RowsAffected() > 0, nil
}
