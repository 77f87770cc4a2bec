package models

import "time"

// Customer represents a tour customer linked to a recipient
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// BookingInfo is the customer's most recent tour booking, used to
// auto-fill template variables (tour name, departure date, amount).
type BookingInfo struct {
	TourTitle     string    `json:"tour_title"`
	DepartureDate time.Time `json:"departure_date"`
	Amount        int64     `json:"amount"`
}

// Validate performs basic validation on customer data
func (c *Customer) Validate() error {
	if c.Phone == "" {
		return ErrInvalidInput("phone is required")
	}
	return nil
}
