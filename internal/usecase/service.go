package usecase

import (
	"albergue-booking/internal/data/repository"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/database"
	"albergue-booking/pkg/metrics"
	"albergue-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Inventory    InventoryService
	Availability AvailabilityService
	Reservation  ReservationService
	Settlement   SettlementService
	Sweeper      *Sweeper
}

func NewService(
	repo *repository.Repository,
	txm database.TxManager,
	clk clock.Clock,
	m *metrics.Metrics,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	inventory := NewInventoryService(repo, m, log)
	availability := NewAvailabilityService(repo, log)

	return &Service{
		Inventory:    inventory,
		Availability: availability,
		Reservation:  NewReservationService(repo, txm, clk, availability, m, config.Engine.HoldDuration, log),
		Settlement:   NewSettlementService(repo, txm, m, log),
		Sweeper:      NewSweeper(repo, txm, clk, m, config.Engine.SweepInterval, log),
	}
}
