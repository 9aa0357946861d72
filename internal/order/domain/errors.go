package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	inventorydomain "github.com/smallbiznis/retailerp/internal/inventory/domain"
)

var (
	ErrValidation          = errors.New("validation_error")
	ErrInsufficientPayment = errors.New("insufficient_payment")
	ErrTransactionFailed   = errors.New("transaction_failed")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidID           = errors.New("invalid_id")
)

// ValidationErrors maps a request field path such as "items.0.quantity"
// to its messages.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(v[field], ", "))
	}
	return "validation_error: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// StockShortage describes one product that cannot be served.
type StockShortage struct {
	LineIndex   int
	ProductID   snowflake.ID
	ProductName string
	Requested   int64
	Available   int64
	NotStocked  bool
}

// StockShortageError lists every product short at checkout.
type StockShortageError struct {
	Items []StockShortage
}

func (e *StockShortageError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item.NotStocked {
			parts = append(parts, fmt.Sprintf("%s not stocked", item.ProductID))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s requested %d available %d", item.ProductID, item.Requested, item.Available))
	}
	return "insufficient_stock: " + strings.Join(parts, "; ")
}

func (e *StockShortageError) Unwrap() error {
	return inventorydomain.ErrInsufficientStock
}

type InsufficientPaymentError struct {
	Required decimal.Decimal
	Received decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient_payment: required %s, received %s",
		e.Required.StringFixed(2), e.Received.StringFixed(2))
}

func (e *InsufficientPaymentError) Unwrap() error {
	return ErrInsufficientPayment
}

// TransactionFailedError wraps an unexpected persistence fault. Nothing of
// the order was committed.
type TransactionFailedError struct {
	Err error
}

func (e *TransactionFailedError) Error() string {
	if e.Err == nil {
		return ErrTransactionFailed.Error()
	}
	return ErrTransactionFailed.Error() + ": " + e.Err.Error()
}

func (e *TransactionFailedError) Unwrap() error {
	return e.Err
}

func (e *TransactionFailedError) Is(target error) bool {
	return target == ErrTransactionFailed
}
