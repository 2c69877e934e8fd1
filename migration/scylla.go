package migration

import (
	"context"
	"fmt"

	"github.com/scylladb/gocqlx/v2"
)

// MigrateScyllaDB creates the chat message table. The partition key pairs a
// channel with a time bucket so a busy channel never grows a single
// partition without bound.
func MigrateScyllaDB(ctx context.Context, session gocqlx.Session) error {
	stmt := `
		CREATE TABLE IF NOT EXISTS messages (
			channel_id     bigint,
			bucket         bigint,
			id             bigint,
			author_id      text,
			recipient_id   text,
			type           text,
			content        text,
			attachment_url text,
			reply_to       bigint,
			is_deleted     boolean,
			created_at     timestamp,
			PRIMARY KEY ((channel_id, bucket), id)
		) WITH CLUSTERING ORDER BY (id DESC)`

	if err := session.ExecStmt(stmt); err != nil {
		return fmt.Errorf("cannot create messages table: %w", err)
	}

	return nil
}
