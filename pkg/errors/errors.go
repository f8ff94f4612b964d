package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrClientNotFound        = errors.New("client not found")
	ErrIneligibleClient      = errors.New("client is not eligible")
	ErrLimitAccountsExceeded = errors.New("account limit reached")
	ErrInvalidProduct        = errors.New("invalid product configuration")
	ErrVersionConflict       = errors.New("entity was modified concurrently")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeResourceNotFound = "RESOURCE_NOT_FOUND"
	ErrCodeClientNotFound   = "CLIENT_NOT_FOUND"
	ErrCodeIneligibleClient = "INELIGIBLE_CLIENT"
	ErrCodeLimitAccounts    = "LIMIT_ACCOUNTS_EXCEEDED"
	ErrCodeInvalidProduct   = "INVALID_PRODUCT_CONFIGURATION"
	ErrCodeVersionConflict  = "VERSION_CONFLICT"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeCacheError       = "CACHE_ERROR"
	ErrCodeRemoteService    = "REMOTE_SERVICE_ERROR"
)

// Wrap common errors with business context
func WrapResourceNotFound(resource, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeResourceNotFound,
		fmt.Sprintf("The %s with id %s doesn't exist", resource, id),
		ErrResourceNotFound,
	)
}

func WrapClientNotFound(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("The client with id %s doesn't exist", clientID),
		ErrClientNotFound,
	)
}

// WrapClientsNotFound reports holder or signatory ids that resolved to no client.
func WrapClientsNotFound(missingIDs []string) *BusinessError {
	return NewBusinessError(
		ErrCodeClientNotFound,
		fmt.Sprintf("The following clients were not found: %s", strings.Join(missingIDs, ", ")),
		ErrClientNotFound,
	)
}

func WrapIneligibleClient(message string) *BusinessError {
	return NewBusinessError(ErrCodeIneligibleClient, message, ErrIneligibleClient)
}

func WrapOverdueDebt(clientID string) *BusinessError {
	return NewBusinessError(
		ErrCodeIneligibleClient,
		fmt.Sprintf("The client %s has an overdue debt", clientID),
		ErrIneligibleClient,
	)
}

func WrapLimitAccounts(message string) *BusinessError {
	return NewBusinessError(ErrCodeLimitAccounts, message, ErrLimitAccountsExceeded)
}

func WrapInvalidProduct(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidProduct, message, ErrInvalidProduct)
}

func WrapVersionConflict(resource, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeVersionConflict,
		fmt.Sprintf("The %s with id %s was modified concurrently", resource, id),
		ErrVersionConflict,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(ErrCodeDatabaseError, "database operation failed", err)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(ErrCodeCacheError, "cache operation failed", err)
}

func WrapRemoteServiceError(service string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeRemoteService,
		fmt.Sprintf("call to %s service failed", service),
		err,
	)
}
