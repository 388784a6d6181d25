package test

import (
	"context"
	"strconv"
	"sync"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// BlobStoreStub keeps blobs in a map and records deletions.
type BlobStoreStub struct {
	PutErr    error
	DeleteErr error

	mu      sync.Mutex
	next    int
	Blobs   map[string][]byte
	Types   map[string]string
	Deleted []string
}

// Put stores data under a sequential reference.
func (s *BlobStoreStub) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Blobs == nil {
		s.Blobs = make(map[string][]byte)
		s.Types = make(map[string]string)
	}
	s.next++
	ref := "/files/blob-" + strconv.Itoa(s.next)
	s.Blobs[ref] = append([]byte(nil), data...)
	s.Types[ref] = contentType
	return ref, nil
}

// Delete forgets ref and records the call even when DeleteErr is set.
func (s *BlobStoreStub) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, ref)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Blobs, ref)
	return nil
}

// Stored returns the number of blobs currently held.
func (s *BlobStoreStub) Stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Blobs)
}

// CacheStub is an in-memory TrackingCache that records invalidations.
type CacheStub struct {
	GetErr error
	SetErr error

	mu          sync.Mutex
	Entries     map[string]model.Order
	Hits        int
	Invalidated []string
}

// Get returns a copy of the cached order for code.
func (c *CacheStub) Get(ctx context.Context, code string) (*model.Order, bool, error) {
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.Entries[code]
	if !ok {
		return nil, false, nil
	}
	c.Hits++
	return &o, true, nil
}

// Set stores a copy of order under code.
func (c *CacheStub) Set(ctx context.Context, code string, order *model.Order) error {
	if c.SetErr != nil {
		return c.SetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Entries == nil {
		c.Entries = make(map[string]model.Order)
	}
	c.Entries[code] = *order
	return nil
}

// Invalidate drops code and records the call.
func (c *CacheStub) Invalidate(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidated = append(c.Invalidated, code)
	delete(c.Entries, code)
	return nil
}
