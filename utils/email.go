package utils

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker"

	"projecthub/backend/logging"
)

// EmailSender delivers mail through SMTP behind a circuit breaker so a
// dead mail server cannot stall every request that notifies someone.
type EmailSender struct {
	host     string
	port     string
	from     string
	password string
	breaker  *gobreaker.CircuitBreaker
}

func NewEmailSender(host, port, from, password string) *EmailSender {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "smtp",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Circuit breaker %s transitioned from %s to %s", name, from, to)
		},
	})

	return &EmailSender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		breaker:  breaker,
	}
}

func (e *EmailSender) Send(to, subject, body string) error {
	if e.password == "" {
		return fmt.Errorf("EMAIL_PASSWORD is not set")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + e.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	_, err := e.breaker.Execute(func() (interface{}, error) {
		auth := smtp.PlainAuth("", e.from, e.password, e.host)
		if err := smtp.SendMail(e.host+":"+e.port, auth, e.from, []string{to}, message); err != nil {
			return nil, fmt.Errorf("failed to send email: %v", err)
		}
		return nil, nil
	})
	return err
}
