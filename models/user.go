package models

import "time"

// User represents a library account: either a member or a librarian.
// The password is persisted only as a bcrypt hash and never leaves the server.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"user_id"`

	// Name is the display name shown in pages. At most 80 characters.
	Name string `json:"name"`

	// Email is the unique login identifier. Stored exactly as submitted after
	// surrounding whitespace is trimmed; comparisons are case-sensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// Librarian grants catalog management rights.
	Librarian bool `json:"librarian"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Registration carries the raw form values submitted on the sign-up page.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Identity is the authenticated principal of a request: the user plus the
// session the request was authenticated with. A nil *Identity means the
// request is anonymous.
type Identity struct {
	User
	SessionID string
}

// IsLibrarian reports whether the identity belongs to a librarian.
// It is safe to call on a nil receiver.
func (i *Identity) IsLibrarian() bool {
	return i != nil && i.Librarian
}
