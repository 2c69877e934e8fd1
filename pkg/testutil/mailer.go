package testutil

import "context"

type MockMailer struct {
	SendTextFunc func(ctx context.Context, to, subject, body string) error

	// Sent records every delivered mail when no hook is set.
	Sent []SentMail
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *MockMailer) SendText(ctx context.Context, to, subject, body string) error {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, to, subject, body)
	}

	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}
