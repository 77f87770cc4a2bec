package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetLatestBooking(ctx context.Context, customerID int64) (*models.BookingInfo, error)
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT id, name, phone, COALESCE(email, '')
		FROM customers
		WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Email,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetLatestBooking retrieves the customer's most recent tour booking
func (r *customerRepository) GetLatestBooking(ctx context.Context, customerID int64) (*models.BookingInfo, error) {
	query := `
		SELECT t.title, t.departure_date, b.amount
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC
		LIMIT 1`

	booking := &models.BookingInfo{}
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&booking.TourTitle,
		&booking.DepartureDate,
		&booking.Amount,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("no booking found for customer %d", customerID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest booking: %w", err)
	}

	return booking, nil
}
