package memory

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.UserContact
}

func NewUserRepository(users ...domain.UserContact) *UserRepository {
	r := &UserRepository{users: make(map[string]domain.UserContact, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// Put adds or replaces a user contact.
func (r *UserRepository) Put(u domain.UserContact) {
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
}

func (r *UserRepository) FindContactByID(ctx context.Context, id string) (*domain.UserContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
