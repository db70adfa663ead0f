package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Service handles email sending with templates. Sends are queued and
// processed by a single async worker; a full queue drops the email
// since delivery is best-effort.
type Service struct {
	client       *SendGridClient
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service
func NewService(config SendGridConfig) *Service {
	s := &Service{
		client:    NewSendGridClient(config),
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	s.baseTemplate, _ = template.New("base").Parse(BaseTemplate)
	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		"transfer_received": TransferReceivedTemplate,
		"missed_call":       MissedCallTemplate,
		"new_follower":      NewFollowerTemplate,
		"verification_code": VerificationCodeTemplate,
		"welcome":           WelcomeTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		ctx := context.Background()
		if err := s.send(ctx, email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	tmpl, ok := s.templates[email.TemplateName]
	if !ok {
		log.Warn().Str("template", email.TemplateName).Msg("Template not found")
		return nil
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, email.Data); err != nil {
		return err
	}

	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return err
	}

	return s.client.Send(ctx, &EmailMessage{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: htmlBuf.String(),
	})
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Msg("Email queue full, dropping email")
	}
}

// Close stops the email worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

// --- Convenience methods for specific emails ---

// SendTransferReceived notifies the recipient of an incoming transfer
func (s *Service) SendTransferReceived(to, toName, senderName, transactionCode, description string, amount, balance int64) {
	s.Queue(to, toName, "transfer_received", "You received points on Konekt", map[string]interface{}{
		"SenderName":      senderName,
		"Amount":          amount,
		"Balance":         balance,
		"TransactionCode": transactionCode,
		"Description":     description,
	})
}

// SendMissedCall notifies the callee of an unanswered call
func (s *Service) SendMissedCall(to, toName, callerName, callType string) {
	s.Queue(to, toName, "missed_call", "Missed call from "+callerName, map[string]string{
		"CallerName": callerName,
		"CallType":   callType,
	})
}

// SendNewFollower notifies a user of a new follower
func (s *Service) SendNewFollower(to, toName, followerName, profileURL string) {
	s.Queue(to, toName, "new_follower", followerName+" started following you", map[string]string{
		"FollowerName": followerName,
		"ProfileURL":   profileURL,
	})
}

// SendVerificationCode delivers a contact verification code
func (s *Service) SendVerificationCode(to, toName, code string, ttlMinutes int) {
	s.Queue(to, toName, "verification_code", "Your Konekt verification code", map[string]interface{}{
		"Code":       code,
		"TTLMinutes": ttlMinutes,
	})
}

// SendWelcome sends welcome email to new user
func (s *Service) SendWelcome(to, toName, userName, appURL string) {
	s.Queue(to, toName, "welcome", "Welcome to Konekt", map[string]string{
		"UserName": userName,
		"AppURL":   appURL,
	})
}
