package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"StakeBanner/internal/model"
)

// EmailNotifier mails the weekly stats table via SMTP.
type EmailNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Display  Display
	Log      *logrus.Logger

	send func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(host string, port int, username, password, from string, to []string, d Display, log *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		To:       to,
		Display:  d,
		Log:      log,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify sends the report as a plain-text table.
func (n *EmailNotifier) Notify(_ context.Context, r *model.Report) error {
	e := email.NewEmail()
	e.From = n.From
	e.To = n.To
	e.Subject = fmt.Sprintf("Weekly staking stats for contract %d", r.ContractID)
	e.Text = []byte(TableString(r, n.Display))

	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}
	addr := n.Host + ":" + strconv.Itoa(n.Port)
	if err := n.send(e, addr, auth); err != nil {
		n.Log.Errorf("failed to send email to %v: %v", n.To, err)
		return fmt.Errorf("send email: %w", err)
	}
	n.Log.Infof("email sent to %v: %s", n.To, e.Subject)
	return nil
}
