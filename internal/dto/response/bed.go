package response

import (
	"time"

	"albergue-booking/internal/data/entity"
)

type BedResponse struct {
	ID           string           `json:"id"`
	RoomNumber   int              `json:"room_number"`
	BedNumber    int              `json:"bed_number"`
	RoomName     string           `json:"room_name"`
	RoomType     entity.RoomType  `json:"room_type"`
	NightlyPrice float64          `json:"nightly_price"`
	Currency     string           `json:"currency"`
	Status       entity.BedStatus `json:"status"`
	HeldUntil    *time.Time       `json:"held_until,omitempty"`
}

type AvailabilityResponse struct {
	CheckIn  string        `json:"check_in"`
	CheckOut string        `json:"check_out"`
	Count    int           `json:"count"`
	Beds     []BedResponse `json:"beds"`
}

type AvailabilitySummaryResponse struct {
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	TotalBeds     int    `json:"total_beds"`
	AvailableBeds int    `json:"available_beds"`
	OccupiedBeds  int    `json:"occupied_beds"`
}

type OccupancyResponse struct {
	TotalBeds     int     `json:"total_beds"`
	Available     int     `json:"available"`
	Reserved      int     `json:"reserved"`
	Occupied      int     `json:"occupied"`
	Maintenance   int     `json:"maintenance"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// Helper converters
func BedToResponse(bed *entity.Bed) BedResponse {
	return BedResponse{
		ID:           bed.ID.String(),
		RoomNumber:   bed.RoomNumber,
		BedNumber:    bed.BedNumber,
		RoomName:     bed.RoomName,
		RoomType:     bed.RoomType,
		NightlyPrice: bed.NightlyPrice,
		Currency:     bed.Currency,
		Status:       bed.Status,
		HeldUntil:    bed.HeldUntil,
	}
}

func BedsToResponse(beds []*entity.Bed) []BedResponse {
	out := make([]BedResponse, 0, len(beds))
	for _, bed := range beds {
		out = append(out, BedToResponse(bed))
	}
	return out
}
