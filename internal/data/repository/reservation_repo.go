package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByReference(ctx context.Context, reference string) (*entity.Reservation, error)
	CountActiveOverlapping(ctx context.Context, bedID uuid.UUID, checkIn, checkOut time.Time) (int64, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReservationStatus) (bool, error)
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)
	FindDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Reservation, error)
}

const reservationColumns = "id, reference, guest_ref, bed_id, check_in, check_out, status, hold_deadline, cleanup_processed, created_at, updated_at"

type reservationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationRepository(db database.Querier, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO reservations (id, reference, guest_ref, bed_id, check_in, check_out, status, hold_deadline, cleanup_processed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		reservation.ID,
		reservation.Reference,
		reservation.GuestRef,
		reservation.BedID,
		reservation.CheckIn,
		reservation.CheckOut,
		reservation.Status,
		reservation.HoldDeadline,
		reservation.CleanupProcessed,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reference", reservation.Reference),
			zap.String("guest_ref", reservation.GuestRef),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.Reference, err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate locks the reservation row for the enclosing
// transaction so settlement, expiry, and staff transitions serialize on
// the same reservation.
func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.findByID(ctx, id, true)
}

func (r *reservationRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.Reservation, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE id = $1`, reservationColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	reservation, err := scanReservation(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return reservation, nil
}

func (r *reservationRepository) FindByReference(ctx context.Context, reference string) (*entity.Reservation, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE reference = $1`, reservationColumns)

	reservation, err := scanReservation(q.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		r.log.Error("Failed to find reservation by reference",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find reservation by reference %s: %w", reference, err)
	}

	return reservation, nil
}

// CountActiveOverlapping counts non-terminal reservations holding the
// given bed for a range overlapping [checkIn, checkOut). Hold creation
// runs this inside the same transaction that writes the hold; a
// non-zero count there means another request won the bed.
func (r *reservationRepository) CountActiveOverlapping(ctx context.Context, bedID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE bed_id = $1
		  AND status IN ('reserved', 'confirmed', 'checked_in')
		  AND check_in < $3 AND check_out > $2
	`

	var count int64
	if err := q.QueryRow(ctx, query, bedID, checkIn, checkOut).Scan(&count); err != nil {
		r.log.Error("Failed to count overlapping reservations",
			zap.Error(err),
			zap.String("bed_id", bedID.String()),
		)
		return 0, fmt.Errorf("count overlapping reservations for bed %s: %w", bedID.String(), err)
	}

	return count, nil
}

// TransitionStatus moves a reservation from one status to another only
// if it is still in the source status. The WHERE guard makes every
// transition a compare-and-swap: exactly one of several racing writers
// sees a row update. Returns false when the guard did not match.
func (r *reservationRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReservationStatus) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `UPDATE reservations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	tag, err := q.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to transition reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition reservation %s from %s to %s: %w",
			id.String(), string(from), string(to), err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkExpired is the sweep's transition: reserved → expired plus the
// cleanup flag, in one guarded statement. A reservation that already
// left reserved (settled, cancelled, or expired by a concurrent sweep)
// is skipped, which is what makes the sweep idempotent.
func (r *reservationRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		UPDATE reservations
		SET status = 'expired', cleanup_processed = TRUE, updated_at = NOW()
		WHERE id = $1 AND status = 'reserved'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark reservation expired",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("mark reservation %s expired: %w", id.String(), err)
	}

	return tag.RowsAffected() > 0, nil
}

// FindDueForExpiry returns reservations whose hold deadline has passed
// and that the sweep has not yet processed.
func (r *reservationRepository) FindDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM reservations
		WHERE status = 'reserved'
		  AND hold_deadline < $1
		  AND cleanup_processed = FALSE
		ORDER BY hold_deadline
	`, reservationColumns)

	rows, err := q.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to find reservations due for expiry", zap.Error(err))
		return nil, fmt.Errorf("find reservations due for expiry: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.Reference,
		&reservation.GuestRef,
		&reservation.BedID,
		&reservation.CheckIn,
		&reservation.CheckOut,
		&reservation.Status,
		&reservation.HoldDeadline,
		&reservation.CleanupProcessed,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}
