package devapi

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/config"
)

// Mailer delivers one-time codes. Without SMTP configuration it logs the
// code instead, which is what local development wants anyway.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewMailer(cfg *config.DevAPIConfig) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.FromEmail,
	}
}

func (m *Mailer) SendOTP(email, code string) error {
	if m.host == "" || m.port == "" || m.user == "" || m.pass == "" {
		log.Printf("SMTP not configured, code for %s: %s", email, code)
		return nil
	}

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	message := fmt.Sprintf("To: %s\r\n"+
		"Subject: Your sign-in code\r\n"+
		"\r\n"+
		"Your one-time code is %s. It expires in 5 minutes.\r\n"+
		"If you did not request this, you can ignore this email.\r\n",
		email, code)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{email}, []byte(message)); err != nil {
		log.Printf("send mail to %s: %v", email, err)
		return err
	}
	return nil
}
