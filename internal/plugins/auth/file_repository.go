package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/keyxmakerx/zeromovies/internal/apperror"
	"github.com/keyxmakerx/zeromovies/internal/store/filestore"
)

// fileUserRepository implements UserRepository on a JSON file collection.
type fileUserRepository struct {
	users *filestore.Collection[User]
}

// NewFileUserRepository opens the users collection under dataDir.
func NewFileUserRepository(dataDir string) (UserRepository, error) {
	users, err := filestore.Open[User](dataDir, "users")
	if err != nil {
		return nil, fmt.Errorf("opening users collection: %w", err)
	}
	return &fileUserRepository{users: users}, nil
}

func (r *fileUserRepository) Create(_ context.Context, user *User) error {
	err := r.users.PutUnique(*user, func(existing User) bool {
		return existing.Username == user.Username || existing.Email == user.Email
	})
	if errors.Is(err, filestore.ErrConflict) {
		return apperror.NewConflict("Username or email already exists")
	}
	if err != nil {
		return fmt.Errorf("storing user: %w", err)
	}
	return nil
}

func (r *fileUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	user, ok := r.users.Get(id)
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	return &user, nil
}

func (r *fileUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	user, ok := r.users.FindOne(func(u User) bool { return u.Username == username })
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	return &user, nil
}

func (r *fileUserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, ok := r.users.FindOne(func(u User) bool {
		return u.Username == username || u.Email == email
	})
	return ok, nil
}

func (r *fileUserRepository) CountUsers(_ context.Context) (int, error) {
	return len(r.users.List()), nil
}
