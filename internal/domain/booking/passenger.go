package booking

// Passenger is one traveller within a Booking. Passengers are written in the
// same transaction as their booking and are never mutated afterwards. The
// identity document fields are optional and stored as supplied.
type Passenger struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	IsAdult  bool   `json:"is_adult"`
	IDType   string `json:"id_type,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}
