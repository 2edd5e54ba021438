package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/pkg/database"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AvailabilityFilter narrows the free-bed query. RoomType nil means any
// type; ForUpdate locks the returned bed rows for the enclosing
// transaction.
type AvailabilityFilter struct {
	RoomType  *entity.RoomType
	ForUpdate bool
}

type BedRepository interface {
	Seed(ctx context.Context, beds []*entity.Bed) (int, error)
	FindAll(ctx context.Context) ([]*entity.Bed, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bed, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bed, error)
	FindFreeForRange(ctx context.Context, checkIn, checkOut time.Time, filter AvailabilityFilter) ([]*entity.Bed, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BedStatus, heldUntil *time.Time) error
	CountByStatus(ctx context.Context) (map[entity.BedStatus]int, error)
}

// psql builds queries with postgres $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const bedColumns = "id, room_number, bed_number, room_name, room_type, nightly_price, currency, status, held_until, created_at, updated_at"

type bedRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBedRepository(db database.Querier, log *zap.Logger) BedRepository {
	return &bedRepository{
		db:  db,
		log: log.With(zap.String("repository", "bed")),
	}
}

// Seed inserts the bed catalog. Beds that already exist (same room and
// bed number) are left untouched, so re-seeding never duplicates rows
// or changes prices. Returns the number of beds actually inserted.
func (r *bedRepository) Seed(ctx context.Context, beds []*entity.Bed) (int, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		INSERT INTO beds (id, room_number, bed_number, room_name, room_type, nightly_price, currency, status, held_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (room_number, bed_number) DO NOTHING
	`

	inserted := 0
	for _, bed := range beds {
		tag, err := q.Exec(ctx, query,
			bed.ID,
			bed.RoomNumber,
			bed.BedNumber,
			bed.RoomName,
			bed.RoomType,
			bed.NightlyPrice,
			bed.Currency,
			bed.Status,
			bed.HeldUntil,
			bed.CreatedAt,
			bed.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to seed bed",
				zap.Error(err),
				zap.Int("room_number", bed.RoomNumber),
				zap.Int("bed_number", bed.BedNumber),
			)
			return inserted, fmt.Errorf("seed bed %d-%d: %w", bed.RoomNumber, bed.BedNumber, err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

func (r *bedRepository) FindAll(ctx context.Context) ([]*entity.Bed, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM beds
		ORDER BY room_number, bed_number
	`, bedColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list beds", zap.Error(err))
		return nil, fmt.Errorf("list beds: %w", err)
	}
	defer rows.Close()

	return scanBeds(rows)
}

func (r *bedRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bed, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate locks the bed row for the duration of the enclosing
// transaction. Hold creation and every state transition lock the bed
// first so concurrent writers serialize on it.
func (r *bedRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bed, error) {
	return r.findByID(ctx, id, true)
}

func (r *bedRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*entity.Bed, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM beds WHERE id = $1`, bedColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	bed, err := scanBed(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBedNotFound
	}
	if err != nil {
		r.log.Error("Failed to find bed by ID",
			zap.Error(err),
			zap.String("bed_id", id.String()),
		)
		return nil, fmt.Errorf("find bed by ID %s: %w", id.String(), err)
	}

	return bed, nil
}

// FindFreeForRange returns every bed with no active reservation
// overlapping [checkIn, checkOut), excluding beds in maintenance.
// Ordering is room number then bed number so allocation is
// deterministic.
func (r *bedRepository) FindFreeForRange(ctx context.Context, checkIn, checkOut time.Time, filter AvailabilityFilter) ([]*entity.Bed, error) {
	q := database.QuerierFrom(ctx, r.db)

	builder := psql.Select(
		"id", "room_number", "bed_number", "room_name", "room_type",
		"nightly_price", "currency", "status", "held_until", "created_at", "updated_at",
	).
		From("beds").
		Where(squirrel.NotEq{"status": entity.BedStatusMaintenance}).
		Where(squirrel.Expr(`NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.bed_id = beds.id
			  AND r.status IN ('reserved', 'confirmed', 'checked_in')
			  AND r.check_in < ? AND r.check_out > ?
		)`, checkOut, checkIn)).
		OrderBy("room_number", "bed_number")

	if filter.RoomType != nil {
		builder = builder.Where(squirrel.Eq{"room_type": *filter.RoomType})
	}
	if filter.ForUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build free beds query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query free beds",
			zap.Error(err),
			zap.Time("check_in", checkIn),
			zap.Time("check_out", checkOut),
		)
		return nil, fmt.Errorf("query free beds: %w", err)
	}
	defer rows.Close()

	return scanBeds(rows)
}

func (r *bedRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BedStatus, heldUntil *time.Time) error {
	q := database.QuerierFrom(ctx, r.db)

	query := `UPDATE beds SET status = $2, held_until = $3, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, status, heldUntil)
	if err != nil {
		r.log.Error("Failed to update bed status",
			zap.Error(err),
			zap.String("bed_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update bed %s status to %s: %w", id.String(), string(status), err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBedNotFound
	}

	return nil
}

func (r *bedRepository) CountByStatus(ctx context.Context) (map[entity.BedStatus]int, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `SELECT status, COUNT(*) FROM beds GROUP BY status`

	rows, err := q.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to count beds by status", zap.Error(err))
		return nil, fmt.Errorf("count beds by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.BedStatus]int)
	for rows.Next() {
		var status entity.BedStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan bed status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func scanBed(row pgx.Row) (*entity.Bed, error) {
	var bed entity.Bed
	err := row.Scan(
		&bed.ID,
		&bed.RoomNumber,
		&bed.BedNumber,
		&bed.RoomName,
		&bed.RoomType,
		&bed.NightlyPrice,
		&bed.Currency,
		&bed.Status,
		&bed.HeldUntil,
		&bed.CreatedAt,
		&bed.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

func scanBeds(rows pgx.Rows) ([]*entity.Bed, error) {
	var beds []*entity.Bed
	for rows.Next() {
		bed, err := scanBed(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bed row: %w", err)
		}
		beds = append(beds, bed)
	}
	return beds, rows.Err()
}
