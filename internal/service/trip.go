package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/logger"
	"go.uber.org/zap"
)

// TripService handles business logic for trips and expense notes. Trip
// creation is gated by the subscription usage engine.
type TripService struct {
	trips    TripStore
	expenses ExpenseStore
	subs     SubscriptionStore
	validate *validator.Validate
}

// NewTripService creates a new TripService.
func NewTripService(trips TripStore, expenses ExpenseStore, subs SubscriptionStore) *TripService {
	return &TripService{
		trips:    trips,
		expenses: expenses,
		subs:     subs,
		validate: validator.New(),
	}
}

// Create creates a new trip for the user after passing the usage gate and
// then bumps the cumulative trip counter. The check and the increment are
// two separate statements: two racing requests can both pass the gate and
// overshoot the quota by one. Accepted for single-user interactive usage.
func (s *TripService) Create(ctx context.Context, userID string, req *domain.CreateTripRequest) (*domain.Trip, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, domain.ErrValidation("end date must not be before start date")
	}

	sub, err := s.loadOrMigrateSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !domain.CanCreateTrip(*sub) {
		maxTrips := 0
		if plan, ok := domain.GetPlanByID(sub.PlanID); ok {
			maxTrips = plan.MaxTrips
		}
		return nil, domain.ErrPlanLimit(domain.RemainingTrips(*sub), maxTrips)
	}

	now := time.Now()
	trip := &domain.Trip{
		ID:          domain.NewTripID(),
		UserID:      userID,
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, domain.ErrInternal("failed to save trip", err)
	}

	// Counter is bumped only after the trip is durably created.
	if err := s.subs.IncrementTripsUsed(ctx, userID); err != nil {
		logger.Get().Error("failed to increment trip counter",
			zap.String("userId", userID), zap.Error(err))
	}

	return trip, nil
}

// List returns all trips of a user.
func (s *TripService) List(ctx context.Context, userID string) ([]*domain.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list trips", err)
	}
	if trips == nil {
		trips = []*domain.Trip{}
	}
	return trips, nil
}

// Get returns a trip with its expense notes and totals.
func (s *TripService) Get(ctx context.Context, userID, tripID string) (*domain.TripDetail, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	notes, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list expense notes", err)
	}

	detail := domain.NewTripDetail(*trip, notes)
	return &detail, nil
}

// Update rewrites a trip's mutable fields.
func (s *TripService) Update(ctx context.Context, userID, tripID string, req *domain.UpdateTripRequest) (*domain.Trip, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	trip.Title = req.Title
	trip.Destination = req.Destination
	trip.StartDate = req.StartDate
	trip.EndDate = req.EndDate
	trip.UpdatedAt = time.Now()

	if err := s.trips.Update(ctx, trip); err != nil {
		return nil, domain.ErrInternal("failed to update trip", err)
	}
	return trip, nil
}

// Delete removes a trip and its notes. The usage counter is cumulative and
// is NOT decremented here: deleted trips do not refund quota.
func (s *TripService) Delete(ctx context.Context, userID, tripID string) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return domain.ErrInternal("failed to delete trip", err)
	}
	return nil
}

// AddExpense attaches a new expense note to a trip.
func (s *TripService) AddExpense(ctx context.Context, userID, tripID string, req *domain.CreateExpenseNoteRequest) (*domain.ExpenseNote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	note := &domain.ExpenseNote{
		ID:          domain.NewExpenseNoteID(),
		TripID:      tripID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		ReceiptURL:  req.ReceiptURL,
		CreatedAt:   time.Now(),
	}
	if err := s.expenses.Create(ctx, note); err != nil {
		return nil, domain.ErrInternal("failed to save expense note", err)
	}
	return note, nil
}

// ListExpenses returns the expense notes of a trip.
func (s *TripService) ListExpenses(ctx context.Context, userID, tripID string) ([]domain.ExpenseNote, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	notes, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list expense notes", err)
	}
	if notes == nil {
		notes = []domain.ExpenseNote{}
	}
	return notes, nil
}

// UpdateExpense rewrites an expense note.
func (s *TripService) UpdateExpense(ctx context.Context, userID, tripID, noteID string, req *domain.CreateExpenseNoteRequest) (*domain.ExpenseNote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	note, err := s.ownedExpense(ctx, userID, tripID, noteID)
	if err != nil {
		return nil, err
	}

	note.Category = req.Category
	note.Description = req.Description
	note.Amount = req.Amount
	note.Date = req.Date
	note.ReceiptURL = req.ReceiptURL

	if err := s.expenses.Update(ctx, note); err != nil {
		return nil, domain.ErrInternal("failed to update expense note", err)
	}
	return note, nil
}

// DeleteExpense removes an expense note.
func (s *TripService) DeleteExpense(ctx context.Context, userID, tripID, noteID string) error {
	if _, err := s.ownedExpense(ctx, userID, tripID, noteID); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, noteID); err != nil {
		return domain.ErrInternal("failed to delete expense note", err)
	}
	return nil
}

// ownedTrip loads a trip and verifies ownership.
func (s *TripService) ownedTrip(ctx context.Context, userID, tripID string) (*domain.Trip, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find trip", err)
	}
	if trip == nil || trip.UserID != userID {
		return nil, domain.ErrNotFound("trip not found")
	}
	return trip, nil
}

// ownedExpense loads an expense note and verifies it belongs to the
// user's trip.
func (s *TripService) ownedExpense(ctx context.Context, userID, tripID, noteID string) (*domain.ExpenseNote, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	note, err := s.expenses.FindByID(ctx, noteID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find expense note", err)
	}
	if note == nil || note.TripID != tripID {
		return nil, domain.ErrNotFound("expense note not found")
	}
	return note, nil
}

// loadOrMigrateSubscription returns the user's subscription, writing back
// a synthesized free-tier default for legacy users without one.
func (s *TripService) loadOrMigrateSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.subs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to load subscription", err)
	}
	if sub == nil {
		def := domain.NewDefaultSubscription()
		if err := s.subs.Upsert(ctx, userID, &def); err != nil {
			return nil, domain.ErrInternal("failed to migrate subscription", err)
		}
		sub = &def
	}
	return sub, nil
}
