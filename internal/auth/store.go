package auth

import "context"

// UserStore describes the persistence operations the auth subsystem needs.
// Exactly two lookup shapes exist: by case-normalized email (login) and by
// id (refresh).
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
