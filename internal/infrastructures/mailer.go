package infrastructures

import (
	"bytes"
	"context"

	"github.com/wneessen/go-mail"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// Mailer implements the dispatcher's message transport over SMTP. Every
// failure is returned as a transport error; the dispatcher owns the retry
// policy.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer() *Mailer {
	return &Mailer{
		host:     Config.SMTP_HOST,
		port:     Config.SMTP_PORT,
		username: Config.SMTP_USERNAME,
		password: Config.SMTP_PASSWORD,
		from:     Config.MAIL_FROM,
	}
}

func (m *Mailer) Send(ctx context.Context, msg *models.OutboundMessage) (string, error) {
	message := mail.NewMsg()
	if err := message.From(m.from); err != nil {
		return "", errors.NewTransportError(err, "Invalid sender address")
	}
	if err := message.To(msg.To); err != nil {
		return "", errors.NewTransportError(err, "Invalid recipient address")
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.Body)
	message.SetMessageID()

	if len(msg.Attachment) > 0 {
		name := msg.AttachmentName
		if name == "" {
			name = "voucher.pdf"
		}
		if err := message.AttachReader(name, bytes.NewReader(msg.Attachment)); err != nil {
			return "", errors.NewTransportError(err, "Failed to attach document")
		}
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return "", errors.NewTransportError(err, "Failed to create SMTP client")
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return "", errors.NewTransportError(err, "Failed to send message")
	}

	ids := message.GetGenHeader(mail.HeaderMessageID)
	if len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
