// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/waritt/billsplit/internal/models"
	"github.com/waritt/billsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBill persists a bill and its computed splits in one transaction.
func (s *SQLiteStore) SaveBill(ctx context.Context, bill *models.Bill, results []models.SplitResult) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Status == "" {
		bill.Status = models.PaymentPending
	}
	if bill.Name == "" {
		bill.Name = generateName(bill.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, name, vat_percent, service_charge_percent, discount_amount,
		 split_method, category_id, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Name, bill.VATPercent, bill.ServiceChargePercent, bill.DiscountAmount,
		string(bill.Method), bill.CategoryID, string(bill.Status), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for _, p := range bill.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (id, bill_id, name, status) VALUES (?, ?, ?, ?)",
			p.ID, bill.ID, p.Name, string(p.Status),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range bill.LineItems {
		item := &bill.LineItems[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, name, price) VALUES (?, ?, ?, ?)",
			item.ID, bill.ID, item.Name, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		for _, pid := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (bill_id, item_id, participant_id) VALUES (?, ?, ?)",
				bill.ID, item.ID, pid,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	for _, result := range results {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO split_results (bill_id, participant_id, amount) VALUES (?, ?, ?)",
			bill.ID, result.ParticipantID, result.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split result: %w", err)
		}
		for pos, entry := range result.Breakdown {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO split_breakdown (bill_id, participant_id, position, label, amount) VALUES (?, ?, ?, ?, ?)",
				bill.ID, result.ParticipantID, pos, entry.Label, entry.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert breakdown entry: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill with its participants, items, and splits.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, []models.SplitResult, error) {
	bill := &models.Bill{
		Participants: []models.Participant{},
		LineItems:    []models.LineItem{},
	}
	var method, status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, vat_percent, service_charge_percent, discount_amount,
		 split_method, category_id, status, created_at FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Name, &bill.VATPercent, &bill.ServiceChargePercent,
		&bill.DiscountAmount, &method, &bill.CategoryID, &status, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("%w: %s", storage.ErrBillNotFound, billID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Method = models.SplitMethod(method)
	bill.Status = models.PaymentStatus(status)

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, status FROM participants WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		var pStatus string
		if err := rows.Scan(&p.ID, &p.Name, &pStatus); err != nil {
			return nil, nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Status = models.PaymentStatus(pStatus)
		bill.Participants = append(bill.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price FROM items WHERE bill_id = ? ORDER BY rowid",
		billID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := models.LineItem{AssignedTo: []string{}}
		if err := itemRows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, nil, fmt.Errorf("failed to scan item: %w", err)
		}

		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant_id FROM item_assignments WHERE bill_id = ? AND item_id = ? ORDER BY participant_id",
			billID, item.ID,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var pid string
			if err := assignRows.Scan(&pid); err != nil {
				assignRows.Close()
				return nil, nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, pid)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}

		bill.LineItems = append(bill.LineItems, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	results, err := s.getSplitResults(ctx, billID)
	if err != nil {
		return nil, nil, err
	}

	return bill, results, nil
}

func (s *SQLiteStore) getSplitResults(ctx context.Context, billID string) ([]models.SplitResult, error) {
	results := []models.SplitResult{}

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, amount FROM split_results WHERE bill_id = ? ORDER BY participant_id",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		result := models.SplitResult{Breakdown: []models.BreakdownEntry{}}
		if err := rows.Scan(&result.ParticipantID, &result.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split results: %w", err)
	}

	for i := range results {
		entryRows, err := s.db.QueryContext(ctx,
			"SELECT label, amount FROM split_breakdown WHERE bill_id = ? AND participant_id = ? ORDER BY position",
			billID, results[i].ParticipantID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get breakdown: %w", err)
		}
		for entryRows.Next() {
			var entry models.BreakdownEntry
			if err := entryRows.Scan(&entry.Label, &entry.Amount); err != nil {
				entryRows.Close()
				return nil, fmt.Errorf("failed to scan breakdown entry: %w", err)
			}
			results[i].Breakdown = append(results[i].Breakdown, entry)
		}
		entryRows.Close()
		if err := entryRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate breakdown: %w", err)
		}
	}

	return results, nil
}

// ListBills returns all bills newest first, without items or splits.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, vat_percent, service_charge_percent, discount_amount,
		 split_method, category_id, status, created_at FROM bills ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		bill := models.Bill{
			Participants: []models.Participant{},
			LineItems:    []models.LineItem{},
		}
		var method, status string
		if err := rows.Scan(&bill.ID, &bill.Name, &bill.VATPercent, &bill.ServiceChargePercent,
			&bill.DiscountAmount, &method, &bill.CategoryID, &status, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill.Method = models.SplitMethod(method)
		bill.Status = models.PaymentStatus(status)
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// SetBillStatus updates a bill's payment status.
func (s *SQLiteStore) SetBillStatus(ctx context.Context, billID string, status models.PaymentStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE bills SET status = ? WHERE id = ?",
		string(status), billID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrBillNotFound, billID)
	}
	return nil
}

// DeleteBill removes a bill; child rows cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrBillNotFound, billID)
	}
	return nil
}

// generateName creates an auto-generated bill name from participants.
func generateName(participants []models.Participant) string {
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
