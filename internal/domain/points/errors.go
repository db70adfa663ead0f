package points

import "errors"

var (
	ErrInvalidAmount      = errors.New("amount must be a positive integer")
	ErrAmountAboveCeiling = errors.New("amount exceeds per-transfer ceiling")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrSelfTransfer       = errors.New("cannot transfer points to yourself")
	ErrInsufficientFunds  = errors.New("insufficient points balance")
	ErrDuplicateCode      = errors.New("duplicate transaction code")
	ErrAccountNotFound    = errors.New("account not found")
	ErrTxNotFound         = errors.New("transaction not found")
)
