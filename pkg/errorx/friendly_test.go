package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFriendly(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Error
	}{
		{
			name: "passes errorx values through",
			err:  New(PermissionDenied, "Permission denied"),
			want: Error{PermissionDenied, "Permission denied"},
		},
		{
			name: "wrapped errorx values are unwrapped",
			err:  fmt.Errorf("handler: %w", New(NotFound, "Not found")),
			want: Error{NotFound, "Not found"},
		},
		{
			name: "mysql duplicate entry",
			err:  errors.New("Error 1062: Duplicate entry 'lotus' for key 'users.name'"),
			want: Error{AlreadyExists, "This value is already taken"},
		},
		{
			name: "sqlite unique constraint",
			err:  errors.New("UNIQUE constraint failed: daily_logs.user_id, daily_logs.date"),
			want: Error{AlreadyExists, "This value is already taken"},
		},
		{
			name: "bcrypt mismatch",
			err:  errors.New("crypto/bcrypt: hashedPassword is not the hash of the given password"),
			want: Error{Unauthenticated, "Invalid username or password"},
		},
		{
			name: "unrecognized errors collapse to unknown",
			err:  errors.New("dial tcp 10.0.0.1:3306: i/o timeout"),
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Friendly(tt.err))
		})
	}
}
