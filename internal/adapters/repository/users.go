package repository

import (
	"fmt"

	"github.com/okian/scoutdb/internal/domain/hashtable"
	"github.com/okian/scoutdb/internal/domain/model"
)

// UserStore keeps users by id.
type UserStore struct {
	users *hashtable.HashTable[uint32, model.User]
}

func newUserStore(capacity int) *UserStore {
	return &UserStore{users: hashtable.New[uint32, model.User](capacity)}
}

// Insert stores u, replacing a user with the same id.
func (s *UserStore) Insert(u model.User) {
	s.users.Upsert(u.ID, u.Clone())
}

// Get returns a copy of the user.
func (s *UserStore) Get(id uint32) (model.User, error) {
	u, ok := s.users.Get(id)
	if !ok {
		return model.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	return u.Clone(), nil
}

// GetMut returns the stored user for in-place updates.
func (s *UserStore) GetMut(id uint32) (*model.User, bool) {
	return s.users.GetMut(id)
}

// AddRating appends r to its user, creating the user on first sight.
func (s *UserStore) AddRating(r model.Rating) error {
	u, err := s.users.GetOrInsertDefault(r.UserID)
	if err != nil {
		return fmt.Errorf("user %d: %w", r.UserID, err)
	}
	u.ID = r.UserID
	u.Ratings = append(u.Ratings, r)
	return nil
}

// Len is the number of users.
func (s *UserStore) Len() int { return s.users.Len() }
