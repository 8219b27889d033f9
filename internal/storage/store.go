// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/waritt/billsplit/internal/models"
)

// ErrBillNotFound is returned when a bill ID does not exist in the
// store. Implementations wrap it so callers can match with errors.Is.
var ErrBillNotFound = errors.New("bill not found")

// Store defines the interface for bill persistence. The wizard core
// never talks to a Store directly; the service layer persists finished
// bills and hydrates history through this boundary, so backends can be
// swapped without touching the core.
type Store interface {
	// SaveBill persists a finished bill together with its computed
	// splits. The store assigns bill.ID and bill.CreatedAt.
	SaveBill(ctx context.Context, bill *models.Bill, results []models.SplitResult) error

	// GetBill retrieves a bill and its stored splits by ID. Collections
	// are always non-nil: missing rows hydrate to empty slices.
	GetBill(ctx context.Context, billID string) (*models.Bill, []models.SplitResult, error)

	// ListBills returns all persisted bills, newest first, without
	// their split results.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// SetBillStatus updates a bill's payment status.
	SetBillStatus(ctx context.Context, billID string, status models.PaymentStatus) error

	// DeleteBill removes a bill and everything hanging off it.
	DeleteBill(ctx context.Context, billID string) error

	// Close releases any resources held by the store.
	Close() error
}
