package usecase

import (
	"context"
	"fmt"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"
	"albergue-booking/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OccupancyStats is the staff-facing snapshot of the bed pool.
// OccupancyRate is occupied beds over beds in service (maintenance
// excluded).
type OccupancyStats struct {
	Available     int
	Reserved      int
	Occupied      int
	Maintenance   int
	OccupancyRate float64
}

type InventoryService interface {
	Seed(ctx context.Context) (int, error)
	ListBeds(ctx context.Context) ([]*entity.Bed, error)
	GetBed(ctx context.Context, id uuid.UUID) (*entity.Bed, error)
	OccupancyStats(ctx context.Context) (*OccupancyStats, error)
}

type inventoryService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewInventoryService(repo *repository.Repository, m *metrics.Metrics, log *zap.Logger) InventoryService {
	return &inventoryService{
		repo:    repo,
		metrics: m,
		log:     log.With(zap.String("service", "inventory")),
	}
}

// Seed installs the fixed bed catalog. Safe to run on every startup:
// beds that already exist keep their ids, prices, and status.
func (s *inventoryService) Seed(ctx context.Context) (int, error) {
	inserted, err := s.repo.Bed.Seed(ctx, DefaultCatalog(time.Now()))
	if err != nil {
		return inserted, fmt.Errorf("seed bed catalog: %w", err)
	}

	if inserted > 0 {
		s.log.Info("Bed catalog seeded", zap.Int("beds_inserted", inserted))
	}

	return inserted, nil
}

func (s *inventoryService) ListBeds(ctx context.Context) ([]*entity.Bed, error) {
	return s.repo.Bed.FindAll(ctx)
}

func (s *inventoryService) GetBed(ctx context.Context, id uuid.UUID) (*entity.Bed, error) {
	return s.repo.Bed.FindByID(ctx, id)
}

func (s *inventoryService) OccupancyStats(ctx context.Context) (*OccupancyStats, error) {
	counts, err := s.repo.Bed.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("occupancy stats: %w", err)
	}

	stats := &OccupancyStats{
		Available:   counts[entity.BedStatusAvailable],
		Reserved:    counts[entity.BedStatusReserved],
		Occupied:    counts[entity.BedStatusOccupied],
		Maintenance: counts[entity.BedStatusMaintenance],
	}

	inService := stats.Available + stats.Reserved + stats.Occupied
	if inService > 0 {
		stats.OccupancyRate = float64(stats.Occupied) / float64(inService)
	}

	for status, count := range counts {
		s.metrics.BedsByStatus.WithLabelValues(string(status)).Set(float64(count))
	}

	return stats, nil
}

// DefaultCatalog is the albergue's fixed bed layout. Dormitorio A is
// the larger dormitory and carries the lowest room number, so the
// deterministic (room, bed) allocation order prefers it.
func DefaultCatalog(now time.Time) []*entity.Bed {
	type room struct {
		number   int
		name     string
		roomType entity.RoomType
		beds     int
		price    float64
	}

	rooms := []room{
		{number: 1, name: "Dormitorio A", roomType: entity.RoomTypeDormitory, beds: 10, price: 12},
		{number: 2, name: "Dormitorio B", roomType: entity.RoomTypeDormitory, beds: 6, price: 12},
		{number: 3, name: "Habitación Privada 1", roomType: entity.RoomTypePrivate, beds: 1, price: 30},
		{number: 4, name: "Habitación Privada 2", roomType: entity.RoomTypePrivate, beds: 1, price: 30},
	}

	var catalog []*entity.Bed
	for _, r := range rooms {
		for bedNumber := 1; bedNumber <= r.beds; bedNumber++ {
			catalog = append(catalog, &entity.Bed{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				RoomNumber:   r.number,
				BedNumber:    bedNumber,
				RoomName:     r.name,
				RoomType:     r.roomType,
				NightlyPrice: r.price,
				Currency:     "EUR",
				Status:       entity.BedStatusAvailable,
			})
		}
	}

	return catalog
}
