package points

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies what produced a ledger entry.
type TransactionType string

const (
	TransactionTypeTransfer    TransactionType = "transfer"
	TransactionTypeReward      TransactionType = "reward"
	TransactionTypeBonus       TransactionType = "bonus"
	TransactionTypeSystem      TransactionType = "system"
	TransactionTypePremium     TransactionType = "premium"
	TransactionTypePremiumGift TransactionType = "premium_gift"
)

// TransactionStatus is the terminal state recorded on a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction is an append-only ledger entry. Balance snapshot fields are
// written once at creation and never updated.
type Transaction struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	TransactionCode string            `db:"transaction_code" json:"transaction_code"`
	SenderID        uuid.NullUUID     `db:"sender_id" json:"sender_id,omitempty"`
	RecipientID     uuid.UUID         `db:"recipient_id" json:"recipient_id"`
	Amount          int64             `db:"amount" json:"amount"`
	Type            TransactionType   `db:"type" json:"type"`
	Status          TransactionStatus `db:"status" json:"status"`

	SenderBalanceBefore    int64 `db:"sender_balance_before" json:"sender_balance_before"`
	SenderBalanceAfter     int64 `db:"sender_balance_after" json:"sender_balance_after"`
	RecipientBalanceBefore int64 `db:"recipient_balance_before" json:"recipient_balance_before"`
	RecipientBalanceAfter  int64 `db:"recipient_balance_after" json:"recipient_balance_after"`

	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OwnerIDs lists the accounts on either side of the entry. System grants
// have no sender, so the recipient may be the only owner.
func (t *Transaction) OwnerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2)
	if t.SenderID.Valid {
		ids = append(ids, t.SenderID.UUID)
	}
	return append(ids, t.RecipientID)
}

// Direction annotates whose side of a transaction the requesting account is on.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// TransactionView is a ledger entry annotated for one account's history.
type TransactionView struct {
	Transaction
	Direction Direction `db:"direction" json:"direction"`
}

// LeaderboardEntry is one row of the points ranking.
type LeaderboardEntry struct {
	Rank        int       `db:"-" json:"rank"`
	UserID      uuid.UUID `db:"id" json:"user_id"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Balance     int64     `db:"points" json:"balance"`
}
