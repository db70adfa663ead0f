package points

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists ledger entries and account balances. All balance
// mutation goes through a single transaction per operation; the row locks
// are taken in deterministic id order so two concurrent transfers between
// the same pair cannot deadlock.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// lockBalance takes a FOR UPDATE lock on the user row and returns the
// balance observed at lock time.
func (r *Repository) lockBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `SELECT points FROM users WHERE id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	return balance, err
}

func (r *Repository) updateBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET points = $1, updated_at = now() WHERE id = $2`, balance, userID)
	return err
}

func (r *Repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, t *Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO points_transactions (
			id, transaction_code, sender_id, recipient_id, amount, type, status,
			sender_balance_before, sender_balance_after,
			recipient_balance_before, recipient_balance_after,
			description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		t.ID, t.TransactionCode, t.SenderID, t.RecipientID, t.Amount, t.Type, t.Status,
		t.SenderBalanceBefore, t.SenderBalanceAfter,
		t.RecipientBalanceBefore, t.RecipientBalanceAfter,
		t.Description, t.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// Transfer moves amount from sender to recipient and records the ledger
// entry with before/after snapshots, all in one database transaction.
// The sender balance is re-checked under the row lock, so a concurrent
// transfer that drained the account fails here with ErrInsufficientFunds
// rather than producing a lost update.
func (r *Repository) Transfer(ctx context.Context, senderID, recipientID uuid.UUID, amount int64, code, description string) (*Transaction, error) {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock both rows in deterministic order to avoid A/B vs B/A deadlock.
	first, second := senderID, recipientID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	balances := make(map[uuid.UUID]int64, 2)
	for _, id := range []uuid.UUID{first, second} {
		b, err := r.lockBalance(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		balances[id] = b
	}

	senderBefore := balances[senderID]
	recipientBefore := balances[recipientID]

	if senderBefore < amount {
		return nil, ErrInsufficientFunds
	}

	senderAfter := senderBefore - amount
	recipientAfter := recipientBefore + amount

	if err := r.updateBalance(ctx, tx, senderID, senderAfter); err != nil {
		return nil, err
	}
	if err := r.updateBalance(ctx, tx, recipientID, recipientAfter); err != nil {
		return nil, err
	}

	entry := &Transaction{
		ID:                     uuid.New(),
		TransactionCode:        code,
		SenderID:               uuid.NullUUID{UUID: senderID, Valid: true},
		RecipientID:            recipientID,
		Amount:                 amount,
		Type:                   TransactionTypeTransfer,
		Status:                 StatusCompleted,
		SenderBalanceBefore:    senderBefore,
		SenderBalanceAfter:     senderAfter,
		RecipientBalanceBefore: recipientBefore,
		RecipientBalanceAfter:  recipientAfter,
		Description:            description,
		CreatedAt:              time.Now().UTC(),
	}

	if err := r.insertTransaction(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Grant credits amount to recipient with no sender side. Used for reward,
// bonus, system and premium entries.
func (r *Repository) Grant(ctx context.Context, recipientID uuid.UUID, amount int64, txType TransactionType, code, description string) (*Transaction, error) {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	before, err := r.lockBalance(ctx, tx, recipientID)
	if err != nil {
		return nil, err
	}
	after := before + amount

	if err := r.updateBalance(ctx, tx, recipientID, after); err != nil {
		return nil, err
	}

	entry := &Transaction{
		ID:                     uuid.New(),
		TransactionCode:        code,
		RecipientID:            recipientID,
		Amount:                 amount,
		Type:                   txType,
		Status:                 StatusCompleted,
		RecipientBalanceBefore: before,
		RecipientBalanceAfter:  after,
		Description:            description,
		CreatedAt:              time.Now().UTC(),
	}

	if err := r.insertTransaction(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetBalance returns the current points balance for a user
func (r *Repository) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT points FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	return balance, err
}

// ListByUser returns the account's ledger history, newest first, each entry
// annotated with the account's direction.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*TransactionView, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `
		SELECT count(*) FROM points_transactions
		WHERE sender_id = $1 OR recipient_id = $1
	`, userID)
	if err != nil {
		return nil, 0, err
	}

	var rows []*TransactionView
	err = r.db.SelectContext(ctx, &rows, `
		SELECT t.*,
		       CASE WHEN t.sender_id = $1 THEN 'sent' ELSE 'received' END AS direction
		FROM points_transactions t
		WHERE t.sender_id = $1 OR t.recipient_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetByCode returns a ledger entry by its transaction code
func (r *Repository) GetByCode(ctx context.Context, code string) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t, `SELECT * FROM points_transactions WHERE transaction_code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTxNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Leaderboard returns accounts ordered by balance descending. Ties are
// broken by account creation order so pagination stays deterministic.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	var entries []*LeaderboardEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, username, display_name, points
		FROM users
		ORDER BY points DESC, created_at ASC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries, nil
}
