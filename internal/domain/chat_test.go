package domain

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/crypto"
	"github.com/th3void/lotus-routine/pkg/numberutil"
	"github.com/th3void/lotus-routine/pkg/testutil"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

func newTestChatDomain(redisClient *testutil.MockRedisClient) *chatDomain {
	if redisClient == nil {
		redisClient = &testutil.MockRedisClient{}
	}

	return NewChatDomain(
		repository.NewChatChannelRepository(),
		testutil.NewInMemoryChatMessageRepository(),
		repository.NewGroupMemberRepository(),
		repository.NewUserRepository(),
		redisClient,
		&testutil.MockPublisher{},
		&testutil.MockNotificationEngineCaller{},
	)
}

func Test_chatDomain_CreateDirectChannel(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChatDomain(nil)

	resp, err := domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ChannelDirect), resp.Channel.Type)
	require.Equal(t, testutil.User2.Name, resp.Channel.Partner.Name)

	// Opening the channel from the other side returns the same channel.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	resp2, err := domain.CreateDirectChannel(ctx2, &model.CreateDirectChannelRequest{
		UserID: testutil.User1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, resp.Channel.ID, resp2.Channel.ID)
	require.Equal(t, testutil.User1.Name, resp2.Channel.Partner.Name)

	_, err = domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Cannot open a channel with yourself", err.Error())

	_, err = domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{UserID: "nobody"})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

func Test_chatDomain_SendMessage(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChatDomain(nil)

	channel, err := domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)

	resp, err := domain.SendMessage(ctx, &model.SendMessageRequest{
		ChannelID: channel.Channel.ID,
		Content:   "hello there",
	})
	require.NoError(t, err)
	require.Equal(t, "hello there", resp.Message.Content)
	require.Equal(t, testutil.User1.Name, resp.Message.Author.Name)

	// The stored content is encrypted at rest.
	stored, err := domain.chatMessageRepo.Get(ctx, channel.Channel.ID, resp.Message.ID)
	require.NoError(t, err)
	require.NotEqual(t, "hello there", stored.Content)

	// The recipient reads the message back in clear text.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	messages, err := domain.GetMessages(ctx2, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
	})
	require.NoError(t, err)
	require.Len(t, messages.Messages, 1)
	require.Equal(t, "hello there", messages.Messages[0].Content)

	// Outsiders have no access to the channel.
	ctx3 := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	_, err = domain.SendMessage(ctx3, &model.SendMessageRequest{
		ChannelID: channel.Channel.ID,
		Content:   "let me in",
	})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	_, err = domain.SendMessage(ctx, &model.SendMessageRequest{ChannelID: channel.Channel.ID})
	require.Error(t, err)
	require.Equal(t, "Not allow an empty message", err.Error())
}

func Test_chatDomain_SendMessage_refIdempotency(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)

	// A tiny stateful SetNX/Get pair, enough to exercise the ref path.
	stored := map[string]string{}
	redisClient := &testutil.MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			if _, ok := stored[key]; ok {
				return false, nil
			}

			stored[key] = value
			return true, nil
		},
		GetFunc: func(ctx context.Context, key string) (string, error) {
			return stored[key], nil
		},
	}

	domain := newTestChatDomain(redisClient)
	channel, err := domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)

	first, err := domain.SendMessage(ctx, &model.SendMessageRequest{
		ChannelID: channel.Channel.ID,
		Ref:       "client-ref-1",
		Content:   "only once",
	})
	require.NoError(t, err)

	// The retried send replays the original message instead of storing a
	// second one.
	second, err := domain.SendMessage(ctx, &model.SendMessageRequest{
		ChannelID: channel.Channel.ID,
		Ref:       "client-ref-1",
		Content:   "only once",
	})
	require.NoError(t, err)
	require.Equal(t, first.Message.ID, second.Message.ID)
	require.Equal(t, "only once", second.Message.Content)
	require.Equal(t, "client-ref-1", second.Message.Ref)

	messages, err := domain.GetMessages(ctx, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
	})
	require.NoError(t, err)
	require.Len(t, messages.Messages, 1)
}

func Test_chatDomain_GetMessages_pagination(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChatDomain(nil)

	channel, err := domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := domain.SendMessage(ctx, &model.SendMessageRequest{
			ChannelID: channel.Channel.ID,
			Content:   fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	page, err := domain.GetMessages(ctx, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
		Limit:     3,
	})
	require.NoError(t, err)
	require.Len(t, page.Messages, 3)
	require.Equal(t, "message 4", page.Messages[0].Content)

	rest, err := domain.GetMessages(ctx, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
		Before:    page.Messages[2].ID,
	})
	require.NoError(t, err)
	require.Len(t, rest.Messages, 2)
	require.Equal(t, "message 1", rest.Messages[0].Content)

	_, err = domain.GetMessages(ctx, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
		Limit:     101,
	})
	require.Error(t, err)
}

func Test_chatDomain_GetMessages_legacyEncryptedRows(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChatDomain(nil)

	channel, err := domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)

	// A row written by the retired unsorted pair scheme still reads back in
	// clear text.
	pepper := xcontext.Configs(ctx).Chat.EncryptionPepper
	legacyKey := crypto.DeriveLegacyPairKey(testutil.User1.ID, testutil.User2.ID, pepper)
	legacyEnvelope, err := crypto.EncryptEnvelope("from the old days", legacyKey)
	require.NoError(t, err)

	require.NoError(t, domain.chatMessageRepo.Create(ctx, &entity.ChatMessage{
		ID:          1,
		ChannelID:   channel.Channel.ID,
		Bucket:      numberutil.BucketFrom(1),
		AuthorID:    testutil.User1.ID,
		RecipientID: testutil.User2.ID,
		Type:        string(entity.MessageText),
		Content:     legacyEnvelope,
		CreatedAt:   time.Now(),
	}))

	// A row sealed under no known derivation degrades to the placeholder.
	strangerKey := crypto.DeriveLegacyPairKey("nobody", "anybody", pepper)
	strangerEnvelope, err := crypto.EncryptEnvelope("lost forever", strangerKey)
	require.NoError(t, err)

	require.NoError(t, domain.chatMessageRepo.Create(ctx, &entity.ChatMessage{
		ID:          2,
		ChannelID:   channel.Channel.ID,
		Bucket:      numberutil.BucketFrom(2),
		AuthorID:    testutil.User1.ID,
		RecipientID: testutil.User2.ID,
		Type:        string(entity.MessageText),
		Content:     strangerEnvelope,
		CreatedAt:   time.Now(),
	}))

	messages, err := domain.GetMessages(ctx, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
		Before:    3,
	})
	require.NoError(t, err)
	require.Len(t, messages.Messages, 2)
	require.Equal(t, crypto.DecryptPlaceholder, messages.Messages[0].Content)
	require.Equal(t, "from the old days", messages.Messages[1].Content)
}

func Test_chatDomain_DeleteMessage(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.MockContextWithFixtures(), testutil.User1.ID)
	domain := newTestChatDomain(nil)

	channel, err := domain.CreateDirectChannel(ctx, &model.CreateDirectChannelRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)

	resp, err := domain.SendMessage(ctx, &model.SendMessageRequest{
		ChannelID: channel.Channel.ID,
		Content:   "regret this",
	})
	require.NoError(t, err)

	// Only the author can delete, not the other party.
	ctx2 := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = domain.DeleteMessage(ctx2, &model.DeleteMessageRequest{
		ChannelID: channel.Channel.ID,
		ID:        resp.Message.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Only the author can delete a message", err.Error())

	_, err = domain.DeleteMessage(ctx, &model.DeleteMessageRequest{
		ChannelID: channel.Channel.ID,
		ID:        resp.Message.ID,
	})
	require.NoError(t, err)

	// A deleted message keeps its place in history but loses its content.
	messages, err := domain.GetMessages(ctx, &model.GetMessagesRequest{
		ChannelID: channel.Channel.ID,
	})
	require.NoError(t, err)
	require.Len(t, messages.Messages, 1)
	require.True(t, messages.Messages[0].IsDeleted)
	require.Empty(t, messages.Messages[0].Content)
}
