// Package intake receives forwarded suspect emails over SMTP. Users
// point their mailbox's forwarding rule at this listener instead of the
// service polling a mailbox; nothing is stored once the scan is logged.
package intake

import (
	"bytes"
	"context"
	"io"
	"net/mail"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/core"
)

// Intake is an SMTP endpoint that triages every message it receives.
type Intake struct {
	service     *core.ScanService
	logger      *zap.Logger
	listenAddr  string
	domain      string
	scanTimeout time.Duration
	server      *smtp.Server
}

// NewIntake creates a new SMTP intake.
func NewIntake(
	service *core.ScanService,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	scanTimeout time.Duration,
) *Intake {
	return &Intake{
		service:     service,
		logger:      logger,
		listenAddr:  listenAddr,
		domain:      domain,
		scanTimeout: scanTimeout,
	}
}

// Start starts the SMTP listener.
func (i *Intake) Start() error {
	i.server = smtp.NewServer(&smtpBackend{intake: i})

	i.server.Addr = i.listenAddr
	i.server.Domain = i.domain
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	i.server.MaxRecipients = 5
	i.server.AllowInsecureAuth = true

	i.logger.Info("Mail intake starting", zap.String("address", i.listenAddr))

	go func() {
		if err := i.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				i.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP listener.
func (i *Intake) Stop() error {
	if i.server != nil {
		return i.server.Close()
	}
	return nil
}

// processMessage extracts a submission from a raw message and scans it.
// The verdict is logged; the message itself is discarded.
func (i *Intake) processMessage(raw []byte) error {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		i.logger.Warn("Failed to parse intake message", zap.Error(err))
		return &smtp.SMTPError{
			Code:    554,
			Message: "unparseable message",
		}
	}

	sub, err := ExtractSubmission(msg)
	if err != nil {
		i.logger.Warn("Failed to extract submission from intake message", zap.Error(err))
		return &smtp.SMTPError{
			Code:    554,
			Message: "could not extract email content",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), i.scanTimeout)
	defer cancel()

	verdict := i.service.Scan(ctx, sub)
	i.logger.Info("Intake scan complete",
		zap.String("subject", sub.Subject),
		zap.String("suspect_sender", sub.SenderEmail),
		zap.Int("score", verdict.Score),
		zap.Strings("reasons", verdict.Reasons),
		zap.String("explain", verdict.Explain))

	return nil
}

// smtpBackend implements the go-smtp Backend interface.
type smtpBackend struct {
	intake *Intake
}

// NewSession creates a new SMTP session.
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

// smtpSession implements the go-smtp Session interface.
type smtpSession struct {
	intake     *Intake
	sender     string
	recipients []string
}

// Reset resets the session state.
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Logout is called when the client disconnects.
func (s *smtpSession) Logout() error {
	return nil
}

// Mail sets the sender address.
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient.
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data handles the message payload.
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	return s.intake.processMessage(raw)
}
