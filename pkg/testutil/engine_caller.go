package testutil

import (
	"context"

	"github.com/th3void/lotus-routine/internal/domain/notification/event"
)

type MockNotificationEngineCaller struct {
	EmitFunc func(ctx context.Context, ev *event.EventRequest) error
}

func (m *MockNotificationEngineCaller) Emit(ctx context.Context, ev *event.EventRequest) error {
	if m.EmitFunc != nil {
		return m.EmitFunc(ctx, ev)
	}

	return nil
}

func (m *MockNotificationEngineCaller) Close() {}
