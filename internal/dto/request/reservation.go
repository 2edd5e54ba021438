package request

type CreateReservationRequest struct {
	GuestRef string  `json:"guest_ref" validate:"required,min=2,max=120"`
	CheckIn  string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	RoomType *string `json:"room_type,omitempty" validate:"omitempty,oneof=dormitory private"`
}

type PaymentEventRequest struct {
	ReservationID string  `json:"reservation_id" validate:"required,uuid4"`
	Success       bool    `json:"success"`
	Amount        float64 `json:"amount" validate:"omitempty,min=0"`
	Method        string  `json:"method,omitempty" validate:"omitempty,oneof=cash card transfer"`
}
