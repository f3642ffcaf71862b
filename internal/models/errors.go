package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemNotTracked     = errors.New("item not tracked in inventory")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyReady       = errors.New("preparation already ready")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrCommitFailed       = errors.New("commit failed")
)

// Kind is the stable, machine-readable class of an error
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindItemNotFound       Kind = "ItemNotFound"
	KindItemNotTracked     Kind = "ItemNotTracked"
	KindInsufficientStock  Kind = "InsufficientStock"
	KindInvalidQuantity    Kind = "InvalidQuantity"
	KindNotFound           Kind = "NotFound"
	KindAlreadyReady       Kind = "AlreadyReady"
	KindServiceUnavailable Kind = "ServiceUnavailable"
	KindCommitFailed       Kind = "CommitFailed"
	KindInternal           Kind = "Internal"
)

var kinds = []struct {
	target error
	kind   Kind
}{
	{ErrValidation, KindValidation},
	{ErrInvalidQuantity, KindInvalidQuantity},
	{ErrItemNotFound, KindItemNotFound},
	{ErrItemNotTracked, KindItemNotTracked},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrAlreadyReady, KindAlreadyReady},
	{ErrNotFound, KindNotFound},
	{ErrServiceUnavailable, KindServiceUnavailable},
	{ErrCommitFailed, KindCommitFailed},
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return KindInternal
}

// ValidationError reports a malformed or missing request field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ItemNotFoundError names a basket item missing from the shop's catalog
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found in menu", e.ItemID)
}

func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// InsufficientStockError carries on-hand and requested quantities
type InsufficientStockError struct {
	ItemID    string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient inventory for %s: available %d, requested %d", e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// CommitError wraps the write that aborted an order transaction
type CommitError struct {
	Step string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at %s: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}
