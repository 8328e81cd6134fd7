package ports

import "context"

// Pool hands out one exclusive Session per unit of work.
type Pool interface {
	Acquire(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
}

// Session is bound to a single database connection until Release is called.
type Session interface {
	Cars() CarRepository
	Users() UserRepository
	Release()
}
