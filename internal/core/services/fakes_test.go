package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

// fakeStore is an in-memory Pool that counts acquired and released sessions.
type fakeStore struct {
	mu       sync.Mutex
	cars     map[int64]*domain.Car
	users    map[int64]*domain.User
	nextID   int64
	acquired int
	released int

	acquireErr   error
	searchResult []domain.Car
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cars:  map[int64]*domain.Car{},
		users: map[int64]*domain.User{},
	}
}

func (s *fakeStore) Acquire(ctx context.Context) (ports.Session, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired++
	return &fakeSession{s: s}, nil
}

func (s *fakeStore) Ping(ctx context.Context) error {
	return s.acquireErr
}

func (s *fakeStore) requireBalanced(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, s.acquired, s.released, "every acquired session must be released")
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(name string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	u := &domain.User{
		ID:          id,
		Name:        name,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PhoneNumber: "0912000000" + string(rune('0'+id%10)),
		Password:    "hashed:Str0ng!Pass",
		Role:        role,
		CreatedAt:   time.Now(),
	}
	s.users[id] = u
	return u
}

func (s *fakeStore) addCar(owner int64, name string) *domain.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	c := &domain.Car{ID: id, Name: name, Brand: "Brand", Model: "Model", Color: "Red", Year: 2015, Status: domain.CarPending, UserID: owner}
	s.cars[id] = c
	return c
}

type fakeSession struct {
	s *fakeStore
}

func (f *fakeSession) Cars() ports.CarRepository   { return &fakeCars{s: f.s} }
func (f *fakeSession) Users() ports.UserRepository { return &fakeUsers{s: f.s} }

func (f *fakeSession) Release() {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.released++
}

type fakeCars struct {
	s *fakeStore
}

func (r *fakeCars) List(ctx context.Context) ([]domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Car{}
	for _, c := range r.s.cars {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCars) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCars) Create(ctx context.Context, car *domain.Car) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[car.UserID]; !ok {
		return domain.ErrInvalidReference
	}
	car.ID = r.s.id()
	cp := *car
	r.s.cars[car.ID] = &cp
	return nil
}

func (r *fakeCars) Update(ctx context.Context, id int64, conds []query.Condition) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	for _, cond := range conds {
		switch cond.Column {
		case "name":
			c.Name = cond.Value.(string)
		case "price":
			c.Price = cond.Value.(float64)
		case "status":
			c.Status = domain.CarStatus(cond.Value.(string))
		}
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCars) Delete(ctx context.Context, id int64) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	delete(r.s.cars, id)
	return c, nil
}

func (r *fakeCars) Search(ctx context.Context, s query.Search) ([]domain.Car, error) {
	return r.s.searchResult, nil
}

func (r *fakeCars) ListByUser(ctx context.Context, userID int64) ([]domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Car{}
	for _, c := range r.s.cars {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeUsers struct {
	s *fakeStore
}

func (r *fakeUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUsers) List(ctx context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUsers) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.PhoneNumber == phone })
}

func (r *fakeUsers) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.RefreshToken != nil && *u.RefreshToken == token })
}

func (r *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
		if u.PhoneNumber == user.PhoneNumber {
			return domain.ErrDuplicatePhone
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUsers) Update(ctx context.Context, id int64, conds []query.Condition) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, cond := range conds {
		v := cond.Value.(string)
		switch cond.Column {
		case "name":
			u.Name = v
		case "email":
			for _, other := range r.s.users {
				if other.ID != id && other.Email == v {
					return nil, domain.ErrDuplicateEmail
				}
			}
			u.Email = v
		case "password":
			u.Password = v
		case "phone_number":
			u.PhoneNumber = v
		case "role":
			u.Role = domain.Role(v)
		}
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) Delete(ctx context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return u, nil
}

func (r *fakeUsers) SetRefreshToken(ctx context.Context, id int64, token *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUsers) ClearRefreshToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			u.RefreshToken = nil
		}
	}
	return nil
}

// fakeHasher prefixes instead of hashing.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Compare(plaintext, digest string) (bool, error) {
	return digest == "hashed:"+plaintext, nil
}

func requireKind(t *testing.T, err error, kind domain.Kind, msg string) {
	t.Helper()
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, kind, de.Kind)
	assert.Equal(t, msg, de.Message)
}
