package core

import (
	"context"
	"sync"
)

// FakeUserStorage is a test-only fake implementing UserStorage. It stores
// users in a map and exposes error fields for behavior injection.
type FakeUserStorage struct {
	mu    sync.RWMutex
	users map[string]*User // key: user ID

	CreateErr error
	GetErr    error
	UpdateErr error
}

func NewFakeUserStorage() *FakeUserStorage {
	return &FakeUserStorage{
		users: make(map[string]*User),
	}
}

func (f *FakeUserStorage) CreateUser(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *FakeUserStorage) GetUserIdentity(_ context.Context, id string) (*UserIdentity, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &UserIdentity{ID: u.ID, Email: u.Email, Name: u.Name}, nil
}

func (f *FakeUserStorage) GetUserByID(_ context.Context, id string) (*User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *FakeUserStorage) GetUserByEmail(_ context.Context, email string) (*User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *FakeUserStorage) GetUserByResetToken(_ context.Context, token string) (*User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *FakeUserStorage) UpdateUser(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *FakeUserStorage) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// Seed inserts a user directly, bypassing error injection.
func (f *FakeUserStorage) Seed(u *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
}

var _ UserStorage = (*FakeUserStorage)(nil)

// FakeMailer records outbound mail instead of sending it.
type FakeMailer struct {
	mu sync.Mutex

	VerificationCodes map[string]string // email -> code
	ResetTokens       map[string]string // email -> token
	SendErr           error
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{
		VerificationCodes: make(map[string]string),
		ResetTokens:       make(map[string]string),
	}
}

func (m *FakeMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.VerificationCodes[email] = code
	return nil
}

func (m *FakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.ResetTokens[email] = token
	return nil
}

var _ Mailer = (*FakeMailer)(nil)
