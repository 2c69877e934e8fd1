package mailer

import "context"

type MockMailer struct {
	SendTextFunc func(ctx context.Context, to, subject, body string) error
}

func (m *MockMailer) SendText(ctx context.Context, to, subject, body string) error {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, to, subject, body)
	}

	return nil
}
