package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip groups a collaborator's travel dates, destination, and expense notes.
type Trip struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExpenseNote is a single justified cost item attached to a trip.
type ExpenseNote struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	ReceiptURL  *string   `json:"receiptUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateTripRequest is the validated input for creating a trip.
type CreateTripRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Destination string    `json:"destination" validate:"required,max=200"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
}

// UpdateTripRequest is the validated input for updating a trip.
type UpdateTripRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Destination string    `json:"destination" validate:"required,max=200"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
}

// CreateExpenseNoteRequest is the validated input for adding an expense note.
type CreateExpenseNoteRequest struct {
	Category    string    `json:"category" validate:"required,oneof=transport lodging meals other"`
	Description string    `json:"description" validate:"max=500"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Date        time.Time `json:"date" validate:"required"`
	ReceiptURL  *string   `json:"receiptUrl" validate:"omitempty,url"`
}

// TripDetail is a trip with its notes and computed totals.
type TripDetail struct {
	Trip             Trip               `json:"trip"`
	Notes            []ExpenseNote      `json:"notes"`
	Total            float64            `json:"total"`
	TotalsByCategory map[string]float64 `json:"totalsByCategory"`
}

// NewTripDetail assembles the detail view, summing note amounts overall
// and per category.
func NewTripDetail(trip Trip, notes []ExpenseNote) TripDetail {
	detail := TripDetail{
		Trip:             trip,
		Notes:            notes,
		TotalsByCategory: make(map[string]float64),
	}
	if detail.Notes == nil {
		detail.Notes = []ExpenseNote{}
	}
	for _, n := range notes {
		detail.Total += n.Amount
		detail.TotalsByCategory[n.Category] += n.Amount
	}
	return detail
}

// NewTripID generates a new UUID for a trip.
func NewTripID() string {
	return uuid.New().String()
}

// NewExpenseNoteID generates a new UUID for an expense note.
func NewExpenseNoteID() string {
	return uuid.New().String()
}
