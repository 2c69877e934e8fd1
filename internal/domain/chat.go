package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/common"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/crypto"
	"github.com/th3void/lotus-routine/pkg/enum"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/numberutil"
	"github.com/th3void/lotus-routine/pkg/pubsub"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"github.com/th3void/lotus-routine/pkg/xredis"
	"gorm.io/gorm"
)

type ChatDomain interface {
	CreateDirectChannel(context.Context, *model.CreateDirectChannelRequest) (*model.CreateDirectChannelResponse, error)
	GetChannels(context.Context, *model.GetChannelsRequest) (*model.GetChannelsResponse, error)
	SendMessage(context.Context, *model.SendMessageRequest) (*model.SendMessageResponse, error)
	GetMessages(context.Context, *model.GetMessagesRequest) (*model.GetMessagesResponse, error)
	DeleteMessage(context.Context, *model.DeleteMessageRequest) (*model.DeleteMessageResponse, error)
}

type chatDomain struct {
	chatChannelRepo repository.ChatChannelRepository
	chatMessageRepo repository.ChatMessageRepository
	groupMemberRepo repository.GroupMemberRepository
	userRepo        repository.UserRepository
	redisClient     xredis.Client
	publisher       pubsub.Publisher
	engineCaller    client.NotificationEngineCaller
}

func NewChatDomain(
	chatChannelRepo repository.ChatChannelRepository,
	chatMessageRepo repository.ChatMessageRepository,
	groupMemberRepo repository.GroupMemberRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
	engineCaller client.NotificationEngineCaller,
) *chatDomain {
	return &chatDomain{
		chatChannelRepo: chatChannelRepo,
		chatMessageRepo: chatMessageRepo,
		groupMemberRepo: groupMemberRepo,
		userRepo:        userRepo,
		redisClient:     redisClient,
		publisher:       publisher,
		engineCaller:    engineCaller,
	}
}

func (d *chatDomain) CreateDirectChannel(
	ctx context.Context, req *model.CreateDirectChannelRequest,
) (*model.CreateDirectChannelResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.UserID == userID {
		return nil, errorx.New(errorx.BadRequest, "Cannot open a channel with yourself")
	}

	partner, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	first, second := userID, req.UserID
	if second < first {
		first, second = second, first
	}

	directKey := fmt.Sprintf("%s:%s", first, second)
	channel, err := d.chatChannelRepo.GetByDirectKey(ctx, directKey)
	if err == nil {
		// The pair already has its channel, hand it back.
		return &model.CreateDirectChannelResponse{
			Channel: convertDirectChannel(channel, model.ConvertShortUser(partner)),
		}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get channel by direct key: %v", err)
		return nil, errorx.Unknown
	}

	channel = &entity.ChatChannel{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Type:          entity.ChannelDirect,
		DirectKey:     sql.NullString{Valid: true, String: directKey},
		UserAID:       sql.NullString{Valid: true, String: first},
		UserBID:       sql.NullString{Valid: true, String: second},
	}

	if err := d.chatChannelRepo.Create(ctx, channel); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create direct channel: %v", err)
		return nil, errorx.Unknown
	}

	// Tell both parties so their clients join the new channel.
	for _, id := range []string{userID, req.UserID} {
		ev := event.New(
			&event.ChannelCreatedEvent{ChatChannel: model.ChatChannel{
				ID:   channel.ID,
				Type: string(channel.Type),
			}},
			event.Metadata{ToUser: id},
		)
		if err := d.engineCaller.Emit(ctx, ev); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot emit channel created event: %v", err)
		}
	}

	return &model.CreateDirectChannelResponse{
		Channel: convertDirectChannel(channel, model.ConvertShortUser(partner)),
	}, nil
}

func (d *chatDomain) GetChannels(
	ctx context.Context, req *model.GetChannelsRequest,
) (*model.GetChannelsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	directs, err := d.chatChannelRepo.GetDirectChannelsOfUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get direct channels: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.ChatChannel{}
	for i := range directs {
		partnerID := directs[i].UserAID.String
		if partnerID == userID {
			partnerID = directs[i].UserBID.String
		}

		partner, err := d.userRepo.GetByID(ctx, partnerID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get channel partner: %v", err)
		}

		result = append(result, convertDirectChannel(&directs[i], model.ConvertShortUser(partner)))
	}

	memberships, err := d.groupMemberRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get memberships: %v", err)
		return nil, errorx.Unknown
	}

	for _, m := range memberships {
		channel, err := d.chatChannelRepo.GetByGroupID(ctx, m.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}

			xcontext.Logger(ctx).Errorf("Cannot get group channel: %v", err)
			return nil, errorx.Unknown
		}

		result = append(result, model.ChatChannel{
			ID:            channel.ID,
			Type:          string(channel.Type),
			GroupID:       channel.GroupID.String,
			LastMessageID: channel.LastMessageID,
		})
	}

	return &model.GetChannelsResponse{Channels: result}, nil
}

func (d *chatDomain) SendMessage(
	ctx context.Context, req *model.SendMessageRequest,
) (*model.SendMessageResponse, error) {
	if req.Content == "" && req.AttachmentURL == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty message")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = string(entity.MessageText)
	} else if _, err := enum.ToEnum[entity.MessageType](msgType); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid message type %s", req.Type)
	}

	userID := xcontext.RequestUserID(ctx)
	channel, err := d.verifyChannelAccess(ctx, req.ChannelID, userID)
	if err != nil {
		return nil, err
	}

	messageID := xcontext.SnowFlake(ctx).Generate().Int64()

	if req.Ref != "" {
		refKey := common.RedisKeySendRef(req.ChannelID, req.Ref)
		ttl := xcontext.Configs(ctx).Chat.SendRefTTL
		fresh, err := d.redisClient.SetNX(ctx, refKey, strconv.FormatInt(messageID, 10), ttl)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reserve send ref: %v", err)
			return nil, errorx.Unknown
		}

		// A lost ref means the client retried: return the message created
		// the first time instead of storing another one.
		if !fresh {
			return d.replayByRef(ctx, channel, refKey, req.Ref)
		}
	}

	envelope, err := crypto.EncryptEnvelope(req.Content, d.channelKey(ctx, channel))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encrypt message: %v", err)
		return nil, errorx.Unknown
	}

	message := &entity.ChatMessage{
		ID:            messageID,
		ChannelID:     channel.ID,
		Bucket:        numberutil.BucketFrom(messageID),
		AuthorID:      userID,
		RecipientID:   directRecipient(channel, userID),
		Type:          msgType,
		Content:       envelope,
		AttachmentURL: req.AttachmentURL,
		ReplyTo:       req.ReplyTo,
		CreatedAt:     time.Now(),
	}

	if err := d.chatMessageRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.chatChannelRepo.SetLastMessage(ctx, channel.ID, messageID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set last message of channel: %v", err)
	}

	if channel.Type == entity.ChannelGroup {
		// The trending sweep reads this counter to score group activity.
		activityKey := common.RedisKeyGroupActivity(channel.GroupID.String)
		if _, err := d.redisClient.Incr(ctx, activityKey); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot count group activity: %v", err)
		} else if err := d.redisClient.Expire(ctx, activityKey, 24*time.Hour); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot expire group activity counter: %v", err)
		}
	}

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	msg := model.ConvertChatMessage(message, model.ConvertShortUser(author), req.Content)
	msg.Ref = req.Ref

	ev := event.New(
		(*event.MessageCreatedEvent)(&msg),
		event.Metadata{ToChannel: channel.ID},
	)
	if err := d.engineCaller.Emit(ctx, ev); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot emit message created event: %v", err)
	}

	b, err := json.Marshal(message)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal message: %v", err)
	} else {
		err := d.publisher.Publish(ctx, common.MessagePersistedTopic, &pubsub.Pack{
			Key: []byte(strconv.FormatInt(channel.ID, 10)),
			Msg: b,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish message persisted event: %v", err)
		}
	}

	return &model.SendMessageResponse{Message: msg}, nil
}

func (d *chatDomain) GetMessages(
	ctx context.Context, req *model.GetMessagesRequest,
) (*model.GetMessagesResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	channel, err := d.verifyChannelAccess(ctx, req.ChannelID, userID)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = xcontext.Configs(ctx).Chat.MessagePageSize
	}

	if limit > 100 {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (100)")
	}

	before := req.Before
	if before == 0 {
		before = channel.LastMessageID + 1
	}

	messages, err := d.chatMessageRepo.GetList(ctx, repository.ChatMessageFilter{
		ChannelID: channel.ID,
		Before:    before,
		Limit:     limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get messages: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := []string{}
	for i := range messages {
		authorIDs = append(authorIDs, messages[i].AuthorID)
	}

	authors, err := d.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get authors: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]*entity.User{}
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}

	channelKey := d.channelKey(ctx, channel)
	pepper := xcontext.Configs(ctx).Chat.EncryptionPepper

	result := []model.ChatMessage{}
	for i := range messages {
		m := &messages[i]

		content := ""
		if !m.IsDeleted {
			content = crypto.DecryptWithFallback(m.Content,
				channelKey,
				crypto.DeriveLegacyPairKey(m.AuthorID, m.RecipientID, pepper),
				crypto.DeriveLegacyKey(m.AuthorID, pepper),
				crypto.DeriveLegacyKey(m.RecipientID, pepper),
			)
		}

		result = append(result, model.ConvertChatMessage(
			m, model.ConvertShortUser(byID[m.AuthorID]), content))
	}

	return &model.GetMessagesResponse{Messages: result}, nil
}

func (d *chatDomain) DeleteMessage(
	ctx context.Context, req *model.DeleteMessageRequest,
) (*model.DeleteMessageResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	channel, err := d.verifyChannelAccess(ctx, req.ChannelID, userID)
	if err != nil {
		return nil, err
	}

	message, err := d.chatMessageRepo.Get(ctx, channel.ID, req.ID)
	if err != nil {
		return nil, errorx.New(errorx.NotFound, "Not found message")
	}

	if message.AuthorID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete a message")
	}

	if err := d.chatMessageRepo.SoftDelete(ctx, channel.ID, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete message: %v", err)
		return nil, errorx.Unknown
	}

	ev := event.New(
		&event.MessageDeletedEvent{ChannelID: channel.ID, MessageID: req.ID},
		event.Metadata{ToChannel: channel.ID},
	)
	if err := d.engineCaller.Emit(ctx, ev); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot emit message deleted event: %v", err)
	}

	return &model.DeleteMessageResponse{}, nil
}

// replayByRef returns the message a previous send with the same ref stored.
func (d *chatDomain) replayByRef(
	ctx context.Context, channel *entity.ChatChannel, refKey, ref string,
) (*model.SendMessageResponse, error) {
	stored, err := d.redisClient.Get(ctx, refKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get send ref: %v", err)
		return nil, errorx.Unknown
	}

	originalID, err := strconv.ParseInt(stored, 10, 64)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid send ref value %q: %v", stored, err)
		return nil, errorx.Unknown
	}

	message, err := d.chatMessageRepo.Get(ctx, channel.ID, originalID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get original message of ref: %v", err)
		return nil, errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, message.AuthorID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	pepper := xcontext.Configs(ctx).Chat.EncryptionPepper
	content := crypto.DecryptWithFallback(message.Content,
		d.channelKey(ctx, channel),
		crypto.DeriveLegacyPairKey(message.AuthorID, message.RecipientID, pepper),
		crypto.DeriveLegacyKey(message.AuthorID, pepper),
		crypto.DeriveLegacyKey(message.RecipientID, pepper),
	)

	msg := model.ConvertChatMessage(message, model.ConvertShortUser(author), content)
	msg.Ref = ref
	return &model.SendMessageResponse{Message: msg}, nil
}

func (d *chatDomain) verifyChannelAccess(
	ctx context.Context, channelID int64, userID string,
) (*entity.ChatChannel, error) {
	channel, err := d.chatChannelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	switch channel.Type {
	case entity.ChannelDirect:
		if channel.UserAID.String != userID && channel.UserBID.String != userID {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

	case entity.ChannelGroup:
		if _, err := d.groupMemberRepo.Get(ctx, channel.GroupID.String, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
			}

			xcontext.Logger(ctx).Errorf("Cannot get group member: %v", err)
			return nil, errorx.Unknown
		}
	}

	return channel, nil
}

func (d *chatDomain) channelKey(ctx context.Context, channel *entity.ChatChannel) []byte {
	pepper := xcontext.Configs(ctx).Chat.EncryptionPepper
	if channel.Type == entity.ChannelGroup {
		return crypto.DeriveGroupKey(channel.GroupID.String, pepper)
	}

	return crypto.DeriveDirectKey(channel.UserAID.String, channel.UserBID.String, pepper)
}

func directRecipient(channel *entity.ChatChannel, authorID string) string {
	if channel.Type != entity.ChannelDirect {
		return ""
	}

	if channel.UserAID.String == authorID {
		return channel.UserBID.String
	}

	return channel.UserAID.String
}

func convertDirectChannel(channel *entity.ChatChannel, partner model.ShortUser) model.ChatChannel {
	return model.ChatChannel{
		ID:            channel.ID,
		Type:          string(channel.Type),
		Partner:       partner,
		LastMessageID: channel.LastMessageID,
	}
}
