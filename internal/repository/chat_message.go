package repository

import (
	"context"

	"github.com/scylladb/gocqlx/v2"
	"github.com/scylladb/gocqlx/v2/qb"
	"github.com/scylladb/gocqlx/v2/table"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/numberutil"
	"github.com/th3void/lotus-routine/pkg/reflectutil"
)

type ChatMessageFilter struct {
	ChannelID int64

	// Before is an exclusive upper bound. Callers pass last_message_id+1 to
	// start from the newest message.
	Before int64
	Limit  int
}

type ChatMessageRepository interface {
	Create(ctx context.Context, data *entity.ChatMessage) error
	Get(ctx context.Context, channelID, id int64) (*entity.ChatMessage, error)
	GetList(ctx context.Context, filter ChatMessageFilter) ([]entity.ChatMessage, error)
	SoftDelete(ctx context.Context, channelID, id int64) error
	CountRange(ctx context.Context, channelID, fromID, toID int64) (int64, error)
}

type chatMessageRepository struct {
	session gocqlx.Session
	tbl     *table.Table
}

func NewChatMessageRepository(session gocqlx.Session) *chatMessageRepository {
	e := &entity.ChatMessage{}
	m := table.Metadata{
		Name:    e.TableName(),
		Columns: reflectutil.GetColumnNames(e),
		PartKey: []string{"channel_id", "bucket"},
		SortKey: []string{"id"},
	}

	return &chatMessageRepository{
		session: session,
		tbl:     table.New(m),
	}
}

func (r *chatMessageRepository) Create(ctx context.Context, data *entity.ChatMessage) error {
	stmt, names := r.tbl.Insert()
	err := gocqlx.Session.Query(r.session, stmt, names).BindStruct(data).ExecRelease()
	if err != nil {
		return err
	}

	return nil
}

func (r *chatMessageRepository) Get(
	ctx context.Context, channelID, id int64,
) (*entity.ChatMessage, error) {
	bucket := numberutil.BucketFrom(id)
	var result entity.ChatMessage
	stmt, names := r.tbl.Get()
	err := gocqlx.Session.
		Query(r.session, stmt, names).
		Bind(channelID, bucket, id).
		GetRelease(&result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList pages messages newest first. It walks partitions downward from the
// bucket holding the cursor; the channel id is a snowflake, so its own bucket
// is a hard floor below which no message can exist.
func (r *chatMessageRepository) GetList(
	ctx context.Context, filter ChatMessageFilter,
) ([]entity.ChatMessage, error) {
	stmt, names := qb.Select(r.tbl.Name()).
		Columns(r.tbl.Metadata().Columns...).
		Where(qb.Eq("channel_id"), qb.Eq("bucket"), qb.Lt("id")).
		OrderBy("id", qb.DESC).
		Limit(uint(filter.Limit)).
		ToCql()

	floor := numberutil.BucketFrom(filter.ChannelID)
	result := []entity.ChatMessage{}
	for bucket := numberutil.BucketFrom(filter.Before); bucket >= floor; bucket-- {
		var batch []entity.ChatMessage
		err := gocqlx.Session.Query(r.session, stmt, names).
			BindMap(map[string]any{
				"channel_id": filter.ChannelID,
				"bucket":     bucket,
				"id":         filter.Before,
			}).
			SelectRelease(&batch)
		if err != nil {
			return nil, err
		}

		result = append(result, batch...)
		if len(result) >= filter.Limit {
			return result[:filter.Limit], nil
		}
	}

	return result, nil
}

// SoftDelete blanks the message in place. The row stays so clients holding
// the id still resolve it to a tombstone instead of a hole.
func (r *chatMessageRepository) SoftDelete(ctx context.Context, channelID, id int64) error {
	bucket := numberutil.BucketFrom(id)
	stmt, names := r.tbl.Update("is_deleted", "content", "attachment_url")
	err := gocqlx.Session.Query(r.session, stmt, names).
		Bind(true, "", "", channelID, bucket, id).
		ExecRelease()
	if err != nil {
		return err
	}

	return nil
}

// CountRange counts messages with fromID < id <= toID.
func (r *chatMessageRepository) CountRange(
	ctx context.Context, channelID, fromID, toID int64,
) (int64, error) {
	if toID <= fromID {
		return 0, nil
	}

	stmt, names := qb.Select(r.tbl.Name()).
		CountAll().
		Where(
			qb.Eq("channel_id"), qb.Eq("bucket"),
			qb.GtNamed("id", "from_id"), qb.LtOrEqNamed("id", "to_id"),
		).
		ToCql()

	var total int64
	for bucket := numberutil.BucketFrom(fromID); bucket <= numberutil.BucketFrom(toID); bucket++ {
		var count int64
		err := gocqlx.Session.Query(r.session, stmt, names).
			BindMap(map[string]any{
				"channel_id": channelID,
				"bucket":     bucket,
				"from_id":    fromID,
				"to_id":      toID,
			}).
			GetRelease(&count)
		if err != nil {
			return 0, err
		}

		total += count
	}

	return total, nil
}
