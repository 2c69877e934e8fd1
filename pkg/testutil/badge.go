package testutil

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
)

type MockBadgeScanner struct {
	NameValue string
	ScanFunc  func(ctx context.Context, userID string) ([]entity.Badge, error)
}

func (b *MockBadgeScanner) Name() string {
	return b.NameValue
}

func (b *MockBadgeScanner) Scan(ctx context.Context, userID string) ([]entity.Badge, error) {
	if b.ScanFunc != nil {
		return b.ScanFunc(ctx, userID)
	}

	return nil, nil
}
