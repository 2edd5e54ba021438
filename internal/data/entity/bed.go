package entity

import "time"

type RoomType string

const (
	RoomTypeDormitory RoomType = "dormitory"
	RoomTypePrivate   RoomType = "private"
)

type BedStatus string

const (
	BedStatusAvailable   BedStatus = "available"
	BedStatusReserved    BedStatus = "reserved"
	BedStatusOccupied    BedStatus = "occupied"
	BedStatusMaintenance BedStatus = "maintenance"
)

// Bed is one physical bed in the hostel. Room number + bed number is
// unique. Status is only ever mutated by a reservation state transition,
// never directly by handlers.
//
// Invariant: Status == reserved implies HeldUntil is set;
// Status == available implies HeldUntil is nil.
type Bed struct {
	Base
	RoomNumber   int        `db:"room_number"`
	BedNumber    int        `db:"bed_number"`
	RoomName     string     `db:"room_name"` // Dormitorio A, Habitación Privada 1, etc.
	RoomType     RoomType   `db:"room_type"`
	NightlyPrice float64    `db:"nightly_price"`
	Currency     string     `db:"currency"`
	Status       BedStatus  `db:"status"`
	HeldUntil    *time.Time `db:"held_until"`
}
