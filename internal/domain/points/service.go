package points

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/user"
	"github.com/konekt/konekt-api/internal/pkg/capability"
)

// DefaultTransferCeiling is the per-transfer policy limit when none is configured.
const DefaultTransferCeiling = 10000

// codeRetries bounds regeneration attempts on a transaction code collision.
const codeRetries = 3

// Notifier receives completed-transfer events. Delivery is best-effort;
// failures are logged and never affect the transfer result.
type Notifier interface {
	TransferReceived(ctx context.Context, recipientID uuid.UUID, entry *Transaction, senderName string)
}

// Service implements the points ledger operations
type Service struct {
	repo     *Repository
	userRepo user.Repository
	notifier Notifier
	ceiling  int64
}

// NewService creates points service. A ceiling <= 0 selects the default.
func NewService(repo *Repository, userRepo user.Repository, notifier Notifier, ceiling int64) *Service {
	if ceiling <= 0 {
		ceiling = DefaultTransferCeiling
	}
	return &Service{repo: repo, userRepo: userRepo, notifier: notifier, ceiling: ceiling}
}

// Transfer moves points from sender to the account behind recipientUsername.
// Validation and recipient resolution happen before any mutation; the
// balance mutation itself is a single atomic repository transaction.
func (s *Service) Transfer(ctx context.Context, senderID uuid.UUID, recipientUsername string, amount int64, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > s.ceiling {
		return nil, ErrAmountAboveCeiling
	}

	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if recipient.ID == senderID {
		return nil, ErrSelfTransfer
	}

	var entry *Transaction
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := GenerateTransactionCode()
		if err != nil {
			return nil, err
		}

		entry, err = s.repo.Transfer(ctx, senderID, recipient.ID, amount, code, description)
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if entry == nil {
		return nil, ErrDuplicateCode
	}

	log.Info().
		Str("transaction_code", entry.TransactionCode).
		Str("sender_id", senderID.String()).
		Str("recipient_id", recipient.ID.String()).
		Int64("amount", amount).
		Msg("points transfer completed")

	if s.notifier != nil {
		senderName := ""
		if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
			senderName = sender.DisplayName
		}
		s.notifier.TransferReceived(ctx, recipient.ID, entry, senderName)
	}

	return entry, nil
}

// Grant credits points to a user outside the peer transfer path (rewards,
// bonuses, system and premium credits). Admin-only at the handler.
func (s *Service) Grant(ctx context.Context, recipientID uuid.UUID, amount int64, txType TransactionType, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch txType {
	case TransactionTypeReward, TransactionTypeBonus, TransactionTypeSystem,
		TransactionTypePremium, TransactionTypePremiumGift:
	default:
		return nil, ErrInvalidAmount
	}

	var entry *Transaction
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := GenerateTransactionCode()
		if err != nil {
			return nil, err
		}

		entry, err = s.repo.Grant(ctx, recipientID, amount, txType, code, description)
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if entry == nil {
		return nil, ErrDuplicateCode
	}

	log.Info().
		Str("transaction_code", entry.TransactionCode).
		Str("recipient_id", recipientID.String()).
		Str("type", string(txType)).
		Int64("amount", amount).
		Msg("points grant applied")

	return entry, nil
}

// GetBalance returns the current balance for a user
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// ListTransactions returns paginated history for an account
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) ([]*TransactionView, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, (page-1)*limit)
}

// GetTransaction returns a ledger entry by its transaction code. Only the
// accounts on the entry (or an admin) may see it; anyone else gets the same
// not-found answer as a nonexistent code.
func (s *Service) GetTransaction(ctx context.Context, userID uuid.UUID, role, code string) (*Transaction, error) {
	entry, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d := capability.Check(userID, role, entry, capability.ActionRead); !d.Allowed {
		return nil, ErrTxNotFound
	}
	return entry, nil
}

// Leaderboard returns the top accounts by balance
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.Leaderboard(ctx, limit)
}
