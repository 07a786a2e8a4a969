package authorization

import (
	"context"
	"errors"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID  int64
	Role    string
	StoreID int64
}

type Service interface {
	// Authorize checks the role policy for object/action and, for store-scoped
	// objects, that the actor may act on storeID. storeID 0 means the request
	// is not scoped to a store.
	Authorize(ctx context.Context, actor Actor, object, action string, storeID int64) error
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)
