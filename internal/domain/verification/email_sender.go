package verification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/konekt/konekt-api/internal/domain/user"
	"github.com/konekt/konekt-api/internal/pkg/email"
)

// EmailSender delivers verification codes to the account email. Used
// when no SMS gateway is configured; the user proves control of the
// phone number by reading the code from their inbox and entering it on
// the device.
type EmailSender struct {
	users user.Repository
	email *email.Service
}

// NewEmailSender creates an email-backed code sender
func NewEmailSender(users user.Repository, emailService *email.Service) *EmailSender {
	return &EmailSender{users: users, email: emailService}
}

func (s *EmailSender) SendCode(ctx context.Context, userID uuid.UUID, contact, code string, ttl time.Duration) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	s.email.SendVerificationCode(u.Email, u.DisplayName, code, int(ttl.Minutes()))
	return nil
}
