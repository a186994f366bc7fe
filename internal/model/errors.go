package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("group order not found")
	ErrAlreadyClosed         = errors.New("group order already closed")
	ErrGroupClosed           = errors.New("group order is closed")
	ErrNotLeader             = errors.New("only the leader may close this group order")
	ErrUnsupportedRestaurant = errors.New("restaurant is not supported")
	ErrEmptyItems            = errors.New("no items in order text")
	ErrItemNotFound          = errors.New("item not found in user order")
	ErrCloseTimeInPast       = errors.New("close time must be in the future")
)

// ConflictError reports that the restaurant already has an open group
// order, carrying the existing leader so callers can name them.
type ConflictError struct {
	Restaurant string
	LeaderID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("open group order already exists for %s (leader %s)", e.Restaurant, e.LeaderID)
}
