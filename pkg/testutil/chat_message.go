package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/gocql/gocql"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
)

// InMemoryChatMessageRepository replaces the scylla-backed repository in
// tests. It keeps messages per channel, newest first.
type InMemoryChatMessageRepository struct {
	mutex    sync.Mutex
	messages map[int64][]entity.ChatMessage
}

func NewInMemoryChatMessageRepository() *InMemoryChatMessageRepository {
	return &InMemoryChatMessageRepository{messages: make(map[int64][]entity.ChatMessage)}
}

func (r *InMemoryChatMessageRepository) Create(ctx context.Context, data *entity.ChatMessage) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.messages[data.ChannelID] = append(r.messages[data.ChannelID], *data)
	sort.Slice(r.messages[data.ChannelID], func(i, j int) bool {
		return r.messages[data.ChannelID][i].ID > r.messages[data.ChannelID][j].ID
	})

	return nil
}

func (r *InMemoryChatMessageRepository) Get(
	ctx context.Context, channelID, id int64,
) (*entity.ChatMessage, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.messages[channelID] {
		if r.messages[channelID][i].ID == id {
			msg := r.messages[channelID][i]
			return &msg, nil
		}
	}

	return nil, gocql.ErrNotFound
}

func (r *InMemoryChatMessageRepository) GetList(
	ctx context.Context, filter repository.ChatMessageFilter,
) ([]entity.ChatMessage, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var result []entity.ChatMessage
	for _, msg := range r.messages[filter.ChannelID] {
		if msg.ID >= filter.Before {
			continue
		}

		result = append(result, msg)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}

	return result, nil
}

func (r *InMemoryChatMessageRepository) SoftDelete(ctx context.Context, channelID, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.messages[channelID] {
		if r.messages[channelID][i].ID == id {
			r.messages[channelID][i].IsDeleted = true
			r.messages[channelID][i].Content = ""
			r.messages[channelID][i].AttachmentURL = ""
			return nil
		}
	}

	return gocql.ErrNotFound
}

func (r *InMemoryChatMessageRepository) CountRange(
	ctx context.Context, channelID, fromID, toID int64,
) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var count int64
	for _, msg := range r.messages[channelID] {
		if msg.ID > fromID && msg.ID <= toID {
			count++
		}
	}

	return count, nil
}
