package service

import (
	"context"
	"sync"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/repository"
)

// In-memory fakes for the store interfaces. They mimic the pgx repositories'
// contract: FindBy* returns (nil, nil) on a miss.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Exists(ctx context.Context, email string) (bool, error) {
	u, err := s.FindByEmail(ctx, email)
	return u != nil, err
}

func (s *fakeUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

type fakeSubscriptionStore struct {
	mu   sync.Mutex
	subs map[string]*domain.Subscription

	incrementErr error
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[string]*domain.Subscription)}
}

func (s *fakeSubscriptionStore) Upsert(ctx context.Context, userID string, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.subs[userID] = &cp
	return nil
}

func (s *fakeSubscriptionStore) FindByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s *fakeSubscriptionStore) IncrementTripsUsed(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return s.incrementErr
	}
	if sub, ok := s.subs[userID]; ok {
		sub.TripsUsed++
	}
	return nil
}

func (s *fakeSubscriptionStore) UpdatePlan(ctx context.Context, userID string, planID domain.PlanType, status domain.SubscriptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[userID]; ok {
		sub.PlanID = planID
		sub.Status = status
	}
	return nil
}

type fakeTripStore struct {
	mu    sync.Mutex
	trips map[string]*domain.Trip
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: make(map[string]*domain.Trip)}
}

func (s *fakeTripStore) Create(ctx context.Context, t *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s *fakeTripStore) FindByID(ctx context.Context, id string) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTripStore) ListByUser(ctx context.Context, userID string) ([]*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Trip
	for _, t := range s.trips {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeTripStore) Update(ctx context.Context, t *domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s *fakeTripStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trips, id)
	return nil
}

type fakeExpenseStore struct {
	mu    sync.Mutex
	notes map[string]*domain.ExpenseNote
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{notes: make(map[string]*domain.ExpenseNote)}
}

func (s *fakeExpenseStore) Create(ctx context.Context, n *domain.ExpenseNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s *fakeExpenseStore) FindByID(ctx context.Context, id string) (*domain.ExpenseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (s *fakeExpenseStore) ListByTrip(ctx context.Context, tripID string) ([]domain.ExpenseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ExpenseNote
	for _, n := range s.notes {
		if n.TripID == tripID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *fakeExpenseStore) Update(ctx context.Context, n *domain.ExpenseNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s *fakeExpenseStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notes, id)
	return nil
}

type fakePaymentEventStore struct {
	mu     sync.Mutex
	events []repository.PaymentEvent
}

func newFakePaymentEventStore() *fakePaymentEventStore {
	return &fakePaymentEventStore{}
}

func (s *fakePaymentEventStore) Record(ctx context.Context, e *repository.PaymentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *e)
	return nil
}
