package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", ValidationError{Field: "items", Message: "items cannot be empty"}, KindValidation},
		{"wrapped validation", fmt.Errorf("place order: %w", ValidationError{Field: "shop_id"}), KindValidation},
		{"item not found", &ItemNotFoundError{ItemID: "I9"}, KindItemNotFound},
		{"insufficient stock", &InsufficientStockError{ItemID: "I1", Available: 3, Requested: 5}, KindInsufficientStock},
		{"not tracked", fmt.Errorf("item I1: %w", ErrItemNotTracked), KindItemNotTracked},
		{"invalid quantity", ErrInvalidQuantity, KindInvalidQuantity},
		{"not found", fmt.Errorf("order O1: %w", ErrNotFound), KindNotFound},
		{"already ready", fmt.Errorf("prep P1: %w", ErrAlreadyReady), KindAlreadyReady},
		{"unavailable", fmt.Errorf("%w: %w", ErrServiceUnavailable, errors.New("dial tcp")), KindServiceUnavailable},
		{"commit", &CommitError{Step: "payment", Err: errors.New("constraint")}, KindCommitFailed},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestCommitError_UnwrapsCause(t *testing.T) {
	cause := errors.New("unique violation")
	err := error(&CommitError{Step: "order_lines", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrCommitFailed)
	assert.Contains(t, err.Error(), "order_lines")
}

func TestInsufficientStockError_CarriesQuantities(t *testing.T) {
	err := fmt.Errorf("consume: %w", &InsufficientStockError{ItemID: "I1", Available: 3, Requested: 5})

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
}
