package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
)

// stubIdentities keeps the plain password in PasswordHash.
type stubIdentities struct {
	mu      sync.Mutex
	byUID   map[string]*domain.Identity
	seq     int
	failGet map[string]bool
}

func newStubIdentities() *stubIdentities {
	return &stubIdentities{byUID: map[string]*domain.Identity{}, failGet: map[string]bool{}}
}

func (s *stubIdentities) CreateUser(_ context.Context, in ports.CreateIdentityInput) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.byUID {
		if id.Email == in.Email {
			return nil, domain.ErrUserExists
		}
	}
	s.seq++
	id := &domain.Identity{
		UID:          "uid-" + strconv.Itoa(s.seq),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: in.Password,
	}
	s.byUID[id.UID] = id
	clone := *id
	return &clone, nil
}

func (s *stubIdentities) GetUserByEmail(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.byUID {
		if id.Email == email {
			clone := *id
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubIdentities) GetUser(_ context.Context, uid string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet[uid] {
		return nil, errors.New("provider unavailable")
	}
	id, ok := s.byUID[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *id
	return &clone, nil
}

func (s *stubIdentities) VerifyPassword(_ context.Context, identity *domain.Identity, password string) error {
	if identity.PasswordHash != password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type stubUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: map[string]*domain.User{}}
}

func (r *stubUsers) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	r.users[u.UID] = &clone
	return nil
}

func (r *stubUsers) FindByUID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUsers) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *stubUsers) SetAdmin(_ context.Context, uid string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (r *stubUsers) LinkRestaurant(_ context.Context, uid, restaurantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok || u.RestaurantID != "" {
		return false, nil
	}
	u.RestaurantID = restaurantID
	return true, nil
}

type stubRestaurants struct {
	mu          sync.Mutex
	restaurants map[string]*domain.Restaurant
}

func newStubRestaurants(rs ...*domain.Restaurant) *stubRestaurants {
	s := &stubRestaurants{restaurants: map[string]*domain.Restaurant{}}
	for _, r := range rs {
		s.restaurants[r.ID] = r
	}
	return s
}

func (s *stubRestaurants) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.restaurants[id]
	return ok, nil
}

func (s *stubRestaurants) Create(_ context.Context, r *domain.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restaurants[r.ID]; ok {
		return domain.ErrDuplicateID
	}
	clone := *r
	s.restaurants[r.ID] = &clone
	return nil
}

func (s *stubRestaurants) FindByID(_ context.Context, id string) (*domain.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.restaurants[id]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	clone := *r
	return &clone, nil
}

func (s *stubRestaurants) List(_ context.Context) ([]*domain.Restaurant, error) {
	return s.filter(func(*domain.Restaurant) bool { return true }), nil
}

func (s *stubRestaurants) ListByOwner(_ context.Context, ownerUID string) ([]*domain.Restaurant, error) {
	return s.filter(func(r *domain.Restaurant) bool { return r.OwnerUID == ownerUID }), nil
}

func (s *stubRestaurants) FirstByOwner(ctx context.Context, ownerUID string) (*domain.Restaurant, error) {
	owned, _ := s.ListByOwner(ctx, ownerUID)
	if len(owned) == 0 {
		return nil, domain.ErrRestaurantNotFound
	}
	return owned[0], nil
}

func (s *stubRestaurants) filter(keep func(*domain.Restaurant) bool) []*domain.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Restaurant
	for _, r := range s.restaurants {
		if keep(r) {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type stubMenuItems struct {
	mu    sync.Mutex
	items map[string]*domain.MenuItem
}

func newStubMenuItems(items ...*domain.MenuItem) *stubMenuItems {
	s := &stubMenuItems{items: map[string]*domain.MenuItem{}}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *stubMenuItems) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return ok, nil
}

func (s *stubMenuItems) Create(_ context.Context, item *domain.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		return domain.ErrDuplicateID
	}
	clone := *item
	s.items[item.ID] = &clone
	return nil
}

func (s *stubMenuItems) FindByID(_ context.Context, id string) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (s *stubMenuItems) ListByRestaurant(_ context.Context, restaurantID string) ([]*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.MenuItem
	for _, it := range s.items {
		if it.RestaurantID == restaurantID {
			clone := *it
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubMenuItems) Replace(_ context.Context, item *domain.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrMenuItemNotFound
	}
	clone := *item
	s.items[item.ID] = &clone
	return nil
}

func (s *stubMenuItems) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrMenuItemNotFound
	}
	delete(s.items, id)
	return nil
}

type stubSessions struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*domain.Session
	// beforeIssue runs before a session is stored.
	beforeIssue func()
}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: map[string]*domain.Session{}}
}

func (s *stubSessions) Issue(_ context.Context, sess domain.Session) (string, error) {
	if s.beforeIssue != nil {
		s.beforeIssue()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	sess.Token = "token-" + strconv.Itoa(s.seq)
	s.sessions[sess.Token] = &sess
	return sess.Token, nil
}

func (s *stubSessions) Resolve(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessions) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *stubSessions) PropagateAdminChange(_ context.Context, isAdmin bool, keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		for _, k := range keys {
			if k != "" && (sess.UID == k || sess.Email == k) {
				sess.IsAdmin = isAdmin
				n++
				break
			}
		}
	}
	return n, nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *stubAudit) Record(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) types() []domain.AuthEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuthEventType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

// existsFunc adapts a predicate to ports.IDChecker.
type existsFunc func(id string) bool

func (f existsFunc) Exists(_ context.Context, id string) (bool, error) {
	return f(id), nil
}
