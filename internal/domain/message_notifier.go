package domain

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/pubsub"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
)

// MessageNotifierDomain consumes persisted chat messages off kafka and turns
// direct messages to offline users into notifications. It runs in the
// subscriber service, off the send path, so a slow notification write never
// delays a send.
type MessageNotifierDomain interface {
	HandleMessagePersisted(ctx context.Context, pack *pubsub.Pack, t time.Time)
}

type messageNotifierDomain struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	redisClient      xredis.Client
	engineCaller     client.NotificationEngineCaller
}

func NewMessageNotifierDomain(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
	engineCaller client.NotificationEngineCaller,
) *messageNotifierDomain {
	return &messageNotifierDomain{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		redisClient:      redisClient,
		engineCaller:     engineCaller,
	}
}

func (d *messageNotifierDomain) HandleMessagePersisted(
	ctx context.Context, pack *pubsub.Pack, t time.Time,
) {
	var message entity.ChatMessage
	if err := json.Unmarshal(pack.Msg, &message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal persisted message: %v", err)
		return
	}

	// Group messages have no recipient hint and fan out too wide to notify.
	if message.RecipientID == "" {
		return
	}

	online, err := d.redisClient.Exist(ctx, common.RedisKeyUserStatus(message.RecipientID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check recipient status: %v", err)
	}

	// An online recipient already saw the message through their stream.
	if online {
		return
	}

	author, err := d.userRepo.GetByID(ctx, message.AuthorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return
	}

	pushNotification(ctx, d.notificationRepo, d.engineCaller, &entity.Notification{
		Base:    entity.Base{ID: uuid.NewString()},
		UserID:  message.RecipientID,
		Type:    entity.NotificationMessage,
		Title:   "New message",
		Message: author.Name + " sent you a message",
		Metadata: entity.Map{
			"channel_id": strconv.FormatInt(message.ChannelID, 10),
			"message_id": strconv.FormatInt(message.ID, 10),
			"author_id":  message.AuthorID,
		},
	})
}
