package errors

import (
	stderrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation                 Code = "VALIDATION_ERROR"
	CodeInvalidAmount              Code = "INVALID_AMOUNT"
	CodeInsufficientStock          Code = "INSUFFICIENT_STOCK"
	CodeInsufficientWarehouseStock Code = "INSUFFICIENT_WAREHOUSE_STOCK"
	CodeInsufficientSellerStock    Code = "INSUFFICIENT_SELLER_STOCK"
	CodeAssignmentNotActive        Code = "ASSIGNMENT_NOT_ACTIVE"
	CodeStockStillHeld             Code = "STOCK_STILL_HELD"
	CodeNotAssigned                Code = "NOT_ASSIGNED"
	CodeProductInactive            Code = "PRODUCT_INACTIVE"
	CodeProductNotFound            Code = "PRODUCT_NOT_FOUND"
	CodeSellerNotFound             Code = "SELLER_NOT_FOUND"
	CodeStockRecordNotFound        Code = "STOCK_RECORD_NOT_FOUND"
	CodeCategoryNotFound           Code = "CATEGORY_NOT_FOUND"
	CodeSaleNotFound               Code = "SALE_NOT_FOUND"
	CodeDuplicate                  Code = "DUPLICATE"
	CodeNotFound                   Code = "NOT_FOUND"
	CodeConflict                   Code = "CONFLICT"
	CodeForbidden                  Code = "FORBIDDEN"
	CodeDeadlock                   Code = "DEADLOCK"
	CodeInternal                   Code = "INTERNAL_ERROR"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Code    Code
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

// NewInvalidAmountError rejects a non-positive quantity before any transaction starts.
func NewInvalidAmountError(amount int) *ValidationError {
	msg := fmt.Sprintf("amount must be positive, got %d", amount)
	return &ValidationError{
		Code:    CodeInvalidAmount,
		Message: msg,
		Details: []ValidationDetail{{Field: "quantity", Message: msg}},
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Code    Code
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Code: CodeNotFound, Message: message}
}

func NewProductNotFoundError(productID int64) *NotFoundError {
	return &NotFoundError{Code: CodeProductNotFound, Message: fmt.Sprintf("product %d not found", productID)}
}

func NewSellerNotFoundError(sellerID int64) *NotFoundError {
	return &NotFoundError{Code: CodeSellerNotFound, Message: fmt.Sprintf("seller %d not found", sellerID)}
}

func NewStockRecordNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Code: CodeStockRecordNotFound, Message: message}
}

func NewCategoryNotFoundError(categoryID int64) *NotFoundError {
	return &NotFoundError{Code: CodeCategoryNotFound, Message: fmt.Sprintf("category %d not found", categoryID)}
}

func NewSaleNotFoundError(saleID int64) *NotFoundError {
	return &NotFoundError{Code: CodeSaleNotFound, Message: fmt.Sprintf("sale %d not found", saleID)}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// ConflictError is a business rule violation. Requested and Available are set
// for quantity preconditions so callers can show an actionable message.
type ConflictError struct {
	Code      Code
	Message   string
	Requested int
	Available int
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Code: CodeConflict, Message: message}
}

func NewInsufficientStockError(requested, available int) *ConflictError {
	return &ConflictError{
		Code:      CodeInsufficientStock,
		Message:   fmt.Sprintf("cannot decrease by %d, only %d available", requested, available),
		Requested: requested,
		Available: available,
	}
}

func NewInsufficientWarehouseStockError(requested, available int) *ConflictError {
	return &ConflictError{
		Code:      CodeInsufficientWarehouseStock,
		Message:   fmt.Sprintf("warehouse cannot supply %d, only %d available", requested, available),
		Requested: requested,
		Available: available,
	}
}

func NewInsufficientSellerStockError(requested, available int) *ConflictError {
	return &ConflictError{
		Code:      CodeInsufficientSellerStock,
		Message:   fmt.Sprintf("seller cannot return %d, only %d held", requested, available),
		Requested: requested,
		Available: available,
	}
}

func NewAssignmentNotActiveError(sellerID, productID int64) *ConflictError {
	return &ConflictError{
		Code:    CodeAssignmentNotActive,
		Message: fmt.Sprintf("product %d is not assigned to seller %d", productID, sellerID),
	}
}

func NewNotAssignedError(sellerID, productID int64) *ConflictError {
	return &ConflictError{
		Code:    CodeNotAssigned,
		Message: fmt.Sprintf("seller %d is not allowed to sell product %d", sellerID, productID),
	}
}

func NewStockStillHeldError(held int) *ConflictError {
	return &ConflictError{
		Code:      CodeStockStillHeld,
		Message:   fmt.Sprintf("seller still holds %d units, return the stock first", held),
		Available: held,
	}
}

func NewProductInactiveError(productID int64) *ConflictError {
	return &ConflictError{
		Code:    CodeProductInactive,
		Message: fmt.Sprintf("product %d is inactive", productID),
	}
}

func NewDuplicateError(message string) *ConflictError {
	return &ConflictError{Code: CodeDuplicate, Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the stable code of an application error, CodeInternal otherwise.
func CodeOf(err error) Code {
	if ve, ok := IsValidationError(err); ok {
		return ve.Code
	}
	if nf, ok := IsNotFoundError(err); ok {
		return nf.Code
	}
	if ce, ok := IsConflictError(err); ok {
		return ce.Code
	}
	if _, ok := IsForbiddenError(err); ok {
		return CodeForbidden
	}
	if _, ok := IsDeadlockError(err); ok {
		return CodeDeadlock
	}
	return CodeInternal
}
