package request

// AvailabilityQuery carries the query-string filters for availability
// lookups. Validation happens after parsing from the URL, so the tags
// mirror the JSON requests.
type AvailabilityQuery struct {
	CheckIn  string  `validate:"required,datetime=2006-01-02"`
	CheckOut string  `validate:"required,datetime=2006-01-02"`
	RoomType *string `validate:"omitempty,oneof=dormitory private"`
}
