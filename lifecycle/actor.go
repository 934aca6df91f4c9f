package lifecycle

import "leadflow/models"

// Actor is the session context threaded into every engine operation. It is
// always passed explicitly so tests can supply a fixed fake context.
type Actor struct {
	UserID    uint
	Role      string
	Territory string
}

// ActorFor builds the engine context from an authenticated user.
func ActorFor(u *models.User) Actor {
	return Actor{
		UserID:    u.ID,
		Role:      u.Role,
		Territory: u.Territory,
	}
}

// IsZero reports whether no session context was supplied.
func (a Actor) IsZero() bool {
	return a.UserID == 0
}
