// Package model defines the core domain types for the event booking system.
package model

import "time"

// Roles assignable to users. Admins manage the catalog; regular users book.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Category groups events in the catalog.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event represents a bookable event in the catalog.
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CategoryID     string    `json:"category_id"`
	Category       *Category `json:"category,omitempty"`
	Price          float64   `json:"price"`
	Date           time.Time `json:"date"`
	Duration       string    `json:"duration"`
	Venue          string    `json:"venue"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsSoldOut returns true when no seats remain.
func (e *Event) IsSoldOut() bool {
	return e.AvailableSeats <= 0
}

// Booking binds one customer to one event. The (UserID, EventID) pair is
// unique across all bookings.
type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Event     *Event    `json:"event,omitempty"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an authenticated account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest is the payload for updating a category.
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"required"`
	CategoryID     string    `json:"category_id" validate:"required,uuid4"`
	Price          float64   `json:"price" validate:"gte=0"`
	Date           time.Time `json:"date" validate:"required"`
	Duration       string    `json:"duration" validate:"required"`
	Venue          string    `json:"venue" validate:"required"`
	AvailableSeats int       `json:"available_seats" validate:"gt=0,lte=100000"`
}

// UpdateEventRequest is the payload for updating an event's catalog fields.
// Seat counters are owned by the reservation engine and are not updatable here.
type UpdateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	CategoryID  string    `json:"category_id" validate:"required,uuid4"`
	Price       float64   `json:"price" validate:"gte=0"`
	Date        time.Time `json:"date" validate:"required"`
	Duration    string    `json:"duration" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateBookingRequest is the payload for reserving a seat. The customer is
// taken from the authenticated session, never from the body.
type CreateBookingRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
}

// TokenResponse carries a signed session token back to the client.
type TokenResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
