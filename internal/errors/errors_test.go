package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "seller stock not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Equal(t, CodeNotFound, err.Code)
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewProductNotFoundError(7)

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "product 7 not found", notFoundErr.Message)
	assert.Equal(t, CodeProductNotFound, notFoundErr.Code)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading seller: %w", NewSellerNotFoundError(3))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeSellerNotFound, notFoundErr.Code)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "sellerId", Message: "sellerId is required"},
		{Field: "items", Message: "items must not be empty"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
	assert.Equal(t, CodeValidation, err.Code)
}

func TestInvalidAmountError(t *testing.T) {
	err := NewInvalidAmountError(-2)

	assert.Equal(t, CodeInvalidAmount, err.Code)
	assert.Contains(t, err.Error(), "-2")
	assert.Equal(t, CodeInvalidAmount, CodeOf(err))
}

func TestConflictError_QuantityMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConflictError
		code     Code
		contains string
	}{
		{"insufficient stock", NewInsufficientStockError(10, 6), CodeInsufficientStock, "cannot decrease by 10, only 6 available"},
		{"insufficient warehouse", NewInsufficientWarehouseStockError(30, 20), CodeInsufficientWarehouseStock, "only 20 available"},
		{"insufficient seller stock", NewInsufficientSellerStockError(5, 1), CodeInsufficientSellerStock, "only 1 held"},
		{"stock still held", NewStockStillHeldError(25), CodeStockStillHeld, "25 units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Contains(t, tt.err.Error(), tt.contains)

			ce, ok := IsConflictError(fmt.Errorf("wrapped: %w", tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.code, ce.Code)
		})
	}
}

func TestConflictError_RequestedAndAvailable(t *testing.T) {
	err := NewInsufficientStockError(26, 25)

	assert.Equal(t, 26, err.Requested)
	assert.Equal(t, 25, err.Available)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeForbidden, CodeOf(NewForbiddenError("nope")))
	assert.Equal(t, CodeDeadlock, CodeOf(NewDeadlockError("max retries exceeded")))
	assert.Equal(t, CodeNotAssigned, CodeOf(NewNotAssignedError(1, 2)))
	assert.Equal(t, CodeStockRecordNotFound, CodeOf(NewStockRecordNotFoundError("missing")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
