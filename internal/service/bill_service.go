// Package service ties the wizard core to its external collaborators:
// it owns wizard sessions, persists finished bills, hydrates history,
// and builds the share projection handed to the link generator.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/waritt/billsplit/internal/calculator"
	"github.com/waritt/billsplit/internal/models"
	"github.com/waritt/billsplit/internal/storage"
	"github.com/waritt/billsplit/internal/wizard"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrWizardIncomplete is returned when finalizing a session that has
	// not reached the results step.
	ErrWizardIncomplete = errors.New("wizard has not reached the results step")
)

// ShareProjection is the read-only hand-off for the external
// link-generation collaborator. The payment payload is passed through
// untouched; this service neither generates nor validates it.
type ShareProjection struct {
	BillID      string
	Name        string
	FinalTotal  float64
	Status      models.PaymentStatus
	PromptPayID string
	QRPayload   string
	Notes       string
	Results     []models.SplitResult
}

// BillService manages wizard sessions and persisted bills.
//
// The mutex guards the session map; each Controller carries its own
// lock, so concurrent requests targeting the same session serialize on
// the controller rather than racing on its state.
type BillService struct {
	store storage.Store
	calc  *calculator.Calculator

	mu       sync.Mutex
	sessions map[string]*wizard.Controller
}

// NewBillService creates a BillService persisting to store and
// computing splits with calc.
func NewBillService(store storage.Store, calc *calculator.Calculator) *BillService {
	return &BillService{
		store:    store,
		calc:     calc,
		sessions: make(map[string]*wizard.Controller),
	}
}

// StartSession creates a new wizard session hydrated with the persisted
// bill history and returns its ID. A hydration failure is recoverable:
// the session starts with empty history and the error is only logged.
func (s *BillService) StartSession(ctx context.Context) string {
	controller := wizard.NewController(s.calc)

	bills, err := s.store.ListBills(ctx)
	if err != nil {
		slog.Warn("StartSession: failed to hydrate bill history", "error", err)
		bills = nil
	}
	controller.Dispatch(wizard.SetBills{Bills: bills})

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = controller
	s.mu.Unlock()

	slog.Info("Wizard session started", "session_id", id, "history_count", len(bills))
	return id
}

// Session returns the controller for a session ID.
func (s *BillService) Session(id string) (*wizard.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	controller, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return controller, nil
}

// EndSession discards a session. Unknown IDs are a no-op.
func (s *BillService) EndSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Finalize persists the session's bill and computed splits, then resets
// the session for the next bill. On a write failure the in-memory state
// is preserved so the caller can retry.
func (s *BillService) Finalize(ctx context.Context, sessionID string) (*models.Bill, []models.SplitResult, error) {
	controller, err := s.Session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !controller.Step().IsTerminal() {
		return nil, nil, ErrWizardIncomplete
	}

	state := controller.State()
	bill := state.Bill
	results := state.Results

	if err := s.store.SaveBill(ctx, &bill, results); err != nil {
		slog.Error("Finalize: failed to persist bill", "session_id", sessionID, "error", err)
		return nil, nil, err
	}
	slog.Info("Bill persisted", "bill_id", bill.ID, "participants", len(bill.Participants), "total", bill.FinalTotal())

	controller.Reset()
	if bills, err := s.store.ListBills(ctx); err == nil {
		controller.Dispatch(wizard.SetBills{Bills: bills})
	}

	return &bill, results, nil
}

// GetBill returns a persisted bill with its stored splits.
func (s *BillService) GetBill(ctx context.Context, billID string) (*models.Bill, []models.SplitResult, error) {
	return s.store.GetBill(ctx, billID)
}

// ListBills returns all persisted bills, newest first.
func (s *BillService) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.store.ListBills(ctx)
}

// MarkBillPaid flips a persisted bill to paid.
func (s *BillService) MarkBillPaid(ctx context.Context, billID string) error {
	return s.store.SetBillStatus(ctx, billID, models.PaymentPaid)
}

// DeleteBill removes a persisted bill.
func (s *BillService) DeleteBill(ctx context.Context, billID string) error {
	return s.store.DeleteBill(ctx, billID)
}

// Share builds the read-only projection for the external link
// generator from a persisted bill.
func (s *BillService) Share(ctx context.Context, billID, promptPayID, qrPayload, notes string) (*ShareProjection, error) {
	bill, results, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &ShareProjection{
		BillID:      bill.ID,
		Name:        bill.Name,
		FinalTotal:  bill.FinalTotal(),
		Status:      bill.Status,
		PromptPayID: promptPayID,
		QRPayload:   qrPayload,
		Notes:       notes,
		Results:     results,
	}, nil
}
