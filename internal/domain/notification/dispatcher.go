package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/call"
	"github.com/konekt/konekt-api/internal/domain/points"
	"github.com/konekt/konekt-api/internal/domain/post"
	"github.com/konekt/konekt-api/internal/domain/user"
	"github.com/konekt/konekt-api/internal/pkg/email"
)

// realtimeSender pushes a named event to one connected user
type realtimeSender interface {
	SendToUser(userID uuid.UUID, event string, payload interface{}) error
}

// Dispatcher fans domain events out to the notification store, the
// realtime channel and email. Every step is best-effort; a failed
// delivery is logged and never surfaced to the originating operation.
type Dispatcher struct {
	service  *Service
	realtime realtimeSender
	userRepo user.Repository
	email    *email.Service
}

// NewDispatcher creates the event dispatcher, realtime and email may be nil
func NewDispatcher(service *Service, realtime realtimeSender, userRepo user.Repository, emailService *email.Service) *Dispatcher {
	return &Dispatcher{service: service, realtime: realtime, userRepo: userRepo, email: emailService}
}

// TransferReceived handles a completed points transfer
func (d *Dispatcher) TransferReceived(ctx context.Context, recipientID uuid.UUID, entry *points.Transaction, senderName string) {
	_, err := d.service.Create(ctx, recipientID, TypeTransferReceived,
		senderName+" sent you points",
		"",
		&NotificationData{
			TransactionCode: &entry.TransactionCode,
			Amount:          &entry.Amount,
		},
	)
	if err != nil {
		log.Warn().Err(err).Str("code", entry.TransactionCode).Msg("transfer notification store failed")
	}

	d.push(recipientID, "transfer_received", entry)

	if d.email != nil {
		recipient, err := d.userRepo.GetByID(ctx, recipientID)
		if err == nil {
			d.email.SendTransferReceived(recipient.Email, recipient.DisplayName,
				senderName, entry.TransactionCode, entry.Description,
				entry.Amount, entry.RecipientBalanceAfter)
		}
	}
}

// Notify handles call lifecycle events
func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{}) error {
	session, _ := payload.(*call.Session)

	switch event {
	case call.EventIncomingCall:
		if session != nil {
			caller := d.displayName(ctx, session.CallerID)
			d.store(ctx, userID, TypeIncomingCall, caller+" is calling you",
				&NotificationData{CallID: &session.ID})
		}
	case call.EventCallMissed:
		if session != nil {
			caller := d.displayName(ctx, session.CallerID)
			d.store(ctx, session.CalleeID, TypeMissedCall, "Missed call from "+caller,
				&NotificationData{CallID: &session.ID})
			if d.email != nil {
				callee, err := d.userRepo.GetByID(ctx, session.CalleeID)
				if err == nil {
					d.email.SendMissedCall(callee.Email, callee.DisplayName, caller, string(session.Type))
				}
			}
		}
	}

	d.push(userID, event, payload)
	return nil
}

// NewFollower handles a new follow edge
func (d *Dispatcher) NewFollower(ctx context.Context, followeeID uuid.UUID, follower *user.User) {
	d.store(ctx, followeeID, TypeNewFollower, follower.DisplayName+" started following you",
		&NotificationData{UserID: &follower.ID})

	d.push(followeeID, "new_follower", follower.ToProfile())

	if d.email != nil {
		followee, err := d.userRepo.GetByID(ctx, followeeID)
		if err == nil {
			d.email.SendNewFollower(followee.Email, followee.DisplayName,
				follower.DisplayName, "/u/"+follower.Username)
		}
	}
}

// PostLiked handles a like on a post
func (d *Dispatcher) PostLiked(ctx context.Context, authorID uuid.UUID, p *post.Post, likerID uuid.UUID) {
	liker := d.displayName(ctx, likerID)
	d.store(ctx, authorID, TypePostLiked, liker+" liked your post",
		&NotificationData{PostID: &p.ID, UserID: &likerID})

	d.push(authorID, "post_liked", map[string]interface{}{
		"post_id":  p.ID,
		"liker_id": likerID,
	})
}

// PhoneVerified handles a successful contact verification
func (d *Dispatcher) PhoneVerified(ctx context.Context, userID uuid.UUID) {
	d.store(ctx, userID, TypePhoneVerified, "Your phone number is verified", nil)
	d.push(userID, "phone_verified", nil)
}

func (d *Dispatcher) store(ctx context.Context, userID uuid.UUID, t Type, title string, data *NotificationData) {
	if _, err := d.service.Create(ctx, userID, t, title, "", data); err != nil {
		log.Warn().Err(err).Str("type", string(t)).Msg("notification store failed")
	}
}

func (d *Dispatcher) push(userID uuid.UUID, event string, payload interface{}) {
	if d.realtime == nil {
		return
	}
	if err := d.realtime.SendToUser(userID, event, payload); err != nil {
		log.Debug().Err(err).Str("event", event).Msg("realtime push skipped")
	}
}

func (d *Dispatcher) displayName(ctx context.Context, userID uuid.UUID) string {
	u, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "Someone"
	}
	return u.DisplayName
}
