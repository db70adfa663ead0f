package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/user"
)

// DefaultCodeTTL is how long an issued code stays valid
const DefaultCodeTTL = 10 * time.Minute

const codeLength = 6

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// CodeSender delivers an issued code to the user. Delivery transport
// (SMS gateway, chat bot, email fallback) is external; a nil sender only
// logs the code, which is the development behavior.
type CodeSender interface {
	SendCode(ctx context.Context, userID uuid.UUID, contact, code string, ttl time.Duration) error
}

// Verified is called after a successful verification. Best-effort.
type Verified interface {
	PhoneVerified(ctx context.Context, userID uuid.UUID)
}

// Service issues and checks phone verification codes
type Service struct {
	store    Store
	userRepo user.Repository
	sender   CodeSender
	onDone   Verified
	codeTTL  time.Duration
}

// NewService creates verification service. sender and onDone may be nil,
// a zero codeTTL falls back to the default.
func NewService(store Store, userRepo user.Repository, sender CodeSender, onDone Verified, codeTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &Service{store: store, userRepo: userRepo, sender: sender, onDone: onDone, codeTTL: codeTTL}
}

// Issue stores a fresh 6-digit code for the phone and hands it to the
// sender. Reissuing replaces the previous code.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidContact
	}

	code, err := generateNumericCode(codeLength)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, phone, code, s.codeTTL); err != nil {
		return err
	}

	if s.sender == nil {
		log.Info().Str("phone", phone).Str("code", code).Msg("verification code issued (no sender configured)")
		return nil
	}
	if err := s.sender.SendCode(ctx, userID, phone, code, s.codeTTL); err != nil {
		log.Warn().Err(err).Str("phone", phone).Msg("verification code delivery failed")
	}
	return nil
}

// Verify consumes the code and marks the user's phone verified
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, phone, code string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidContact
	}

	ok, err := s.store.Consume(ctx, phone, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	if err := s.userRepo.SetPhoneVerified(ctx, userID, phone); err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Msg("phone verified")

	if s.onDone != nil {
		s.onDone.PhoneVerified(ctx, userID)
	}
	return nil
}

func generateNumericCode(length int) (string, error) {
	max := big.NewInt(10)
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
