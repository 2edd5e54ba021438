// Package memstore is an in-memory implementation of the repository
// interfaces plus a serializing transaction manager. It backs the
// engine's tests and the DB_DRIVER=memory development mode; the
// postgres repositories are the production path.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Store holds all engine state in maps. A plain mutex guards the maps
// for single-call atomicity; the transaction lock is held exclusively
// for the whole of a transaction and shared by every call outside one,
// so readers never observe a transaction's intermediate writes and the
// semantics match a serializable database.
type Store struct {
	mu sync.Mutex

	beds         map[uuid.UUID]*entity.Bed
	bedsByNumber map[string]uuid.UUID // "room-bed" composite key
	reservations map[uuid.UUID]*entity.Reservation
	refs         map[string]uuid.UUID
	payments     map[uuid.UUID]*entity.Payment // keyed by reservation id

	txMu sync.RWMutex
}

func New() *Store {
	return &Store{
		beds:         make(map[uuid.UUID]*entity.Bed),
		bedsByNumber: make(map[string]uuid.UUID),
		reservations: make(map[uuid.UUID]*entity.Reservation),
		refs:         make(map[string]uuid.UUID),
		payments:     make(map[uuid.UUID]*entity.Payment),
	}
}

// Per-aggregate views over the shared store. The repository interfaces
// overlap in method names (FindByID, Create), so each aggregate gets
// its own receiver type.
type bedStore struct{ *Store }
type reservationStore struct{ *Store }
type paymentStore struct{ *Store }

// Repositories returns the store wired as the repository aggregate the
// usecases consume.
func (s *Store) Repositories() *repository.Repository {
	return &repository.Repository{
		Bed:         bedStore{s},
		Reservation: reservationStore{s},
		Payment:     paymentStore{s},
	}
}

// Do runs fn as one atomic unit. Transactions are fully serialized:
// the transaction lock is held exclusively for the duration of fn, and
// a snapshot taken up front is restored if fn fails, so partial writes
// never survive and never leak to concurrent readers. A Do on a context
// that already carries a transaction joins it instead of opening a new
// one, mirroring the postgres transaction manager.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()

	if err := fn(withTx(ctx)); err != nil {
		s.restore(snapshot)
		return err
	}

	return nil
}

type txKey struct{}

func withTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, true)
}

func inTx(ctx context.Context) bool {
	active, _ := ctx.Value(txKey{}).(bool)
	return active
}

// lockState takes the locks one repository call needs and returns the
// matching unlock. A call inside a transaction already holds the
// transaction lock exclusively; a call outside takes it shared, which
// blocks until any in-flight transaction commits or rolls back.
func (s *Store) lockState(ctx context.Context) func() {
	if inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.RLock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.RUnlock()
	}
}

type storeSnapshot struct {
	beds         map[uuid.UUID]*entity.Bed
	bedsByNumber map[string]uuid.UUID
	reservations map[uuid.UUID]*entity.Reservation
	refs         map[string]uuid.UUID
	payments     map[uuid.UUID]*entity.Payment
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := storeSnapshot{
		beds:         make(map[uuid.UUID]*entity.Bed, len(s.beds)),
		bedsByNumber: make(map[string]uuid.UUID, len(s.bedsByNumber)),
		reservations: make(map[uuid.UUID]*entity.Reservation, len(s.reservations)),
		refs:         make(map[string]uuid.UUID, len(s.refs)),
		payments:     make(map[uuid.UUID]*entity.Payment, len(s.payments)),
	}
	for id, bed := range s.beds {
		snap.beds[id] = cloneBed(bed)
	}
	for key, id := range s.bedsByNumber {
		snap.bedsByNumber[key] = id
	}
	for id, reservation := range s.reservations {
		snap.reservations[id] = cloneReservation(reservation)
	}
	for ref, id := range s.refs {
		snap.refs[ref] = id
	}
	for id, payment := range s.payments {
		snap.payments[id] = clonePayment(payment)
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.beds = snap.beds
	s.bedsByNumber = snap.bedsByNumber
	s.reservations = snap.reservations
	s.refs = snap.refs
	s.payments = snap.payments
}

func bedNumberKey(roomNumber, bedNumber int) string {
	return fmt.Sprintf("%d-%d", roomNumber, bedNumber)
}

func cloneBed(bed *entity.Bed) *entity.Bed {
	clone := *bed
	if bed.HeldUntil != nil {
		heldUntil := *bed.HeldUntil
		clone.HeldUntil = &heldUntil
	}
	return &clone
}

func cloneReservation(reservation *entity.Reservation) *entity.Reservation {
	clone := *reservation
	if reservation.BedID != nil {
		bedID := *reservation.BedID
		clone.BedID = &bedID
	}
	return &clone
}

func clonePayment(payment *entity.Payment) *entity.Payment {
	clone := *payment
	if payment.Method != nil {
		method := *payment.Method
		clone.Method = &method
	}
	return &clone
}
