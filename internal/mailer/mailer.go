package mailer

import (
	"bytes"
	"html/template"
	"log"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

const verificationTemplate = `
{{define "subject"}}Verify Your Email{{end}}
{{define "plainBody"}}Hi {{.FullName}},

Click the link to verify your email: {{.Link}}

The link expires in 10 minutes.{{end}}
{{define "htmlBody"}}<p>Hi {{.FullName}},</p>
<p>Please click <a href="{{.Link}}">here</a> to verify your email.</p>
<p>The link expires in 10 minutes.</p>{{end}}`

const passwordResetTemplate = `
{{define "subject"}}Reset Your Password{{end}}
{{define "plainBody"}}Hi {{.FullName}},

Click the link to reset your password: {{.Link}}

The link expires in 10 minutes. If you didn't request this, ignore this email.{{end}}
{{define "htmlBody"}}<p>Hi {{.FullName}},</p>
<p>Please click <a href="{{.Link}}">here</a> to reset your password.</p>
<p>The link expires in 10 minutes. If you didn't request this, ignore this email.</p>{{end}}`

var (
	verification  = template.Must(template.New("verification").Parse(verificationTemplate))
	passwordReset = template.Must(template.New("password_reset").Parse(passwordResetTemplate))
)

type LinkData struct {
	FullName string
	Link     string
}

type Mailer struct {
	dialer *mail.Dialer
	sender string
}

func NewFromEnv() *Mailer {
	port, err := strconv.Atoi(os.Getenv("MAIL_SMTP_PORT"))
	if err != nil {
		port = 587
	}

	return New(
		os.Getenv("MAIL_SMTP_HOST"),
		port,
		os.Getenv("MAIL_SMTP_USER"),
		os.Getenv("MAIL_SMTP_PASSWORD"),
		os.Getenv("MAIL_SENDER"),
	)
}

func New(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// SendVerificationAsync delivers in the background. Registration responses
// never wait on SMTP; a failed delivery is only logged.
func (m *Mailer) SendVerificationAsync(to string, data LinkData) {
	go func() {
		if err := m.send(to, verification, data); err != nil {
			log.Printf("Failed to send verification email to %s: %v", to, err)
		}
	}()
}

func (m *Mailer) SendPasswordResetAsync(to string, data LinkData) {
	go func() {
		if err := m.send(to, passwordReset, data); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", to, err)
		}
	}()
}

func (m *Mailer) send(to string, tmpl *template.Template, data any) error {
	var subject, plainBody, htmlBody bytes.Buffer

	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(&plainBody, "plainBody", data); err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(&htmlBody, "htmlBody", data); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	var err error
	for i := 0; i < 3; i++ {
		if err = m.dialer.DialAndSend(msg); err == nil {
			break
		}
	}
	return err
}
