package proxy

import (
	"context"
	"encoding/json"

	"github.com/th3void/lotus-routine/internal/domain/notification/directive"
	"github.com/th3void/lotus-routine/internal/domain/notification/event"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/xcontext"
)

type ProxyServer struct {
	router          *Router
	chatChannelRepo repository.ChatChannelRepository
	groupMemberRepo repository.GroupMemberRepository
	userRepo        repository.UserRepository
}

func NewProxyServer(
	ctx context.Context,
	chatChannelRepo repository.ChatChannelRepository,
	groupMemberRepo repository.GroupMemberRepository,
	userRepo repository.UserRepository,
) *ProxyServer {
	return &ProxyServer{
		router:          NewRouter(ctx),
		chatChannelRepo: chatChannelRepo,
		groupMemberRepo: groupMemberRepo,
		userRepo:        userRepo,
	}
}

// ServeProxy drives one browser websocket session: joins the user's channel
// hubs plus the per-user stream, sends the ready event, then relays events
// out and directives in until the socket closes.
func (server *ProxyServer) ServeProxy(ctx context.Context, req *model.ServeNotificationProxyRequest) error {
	userID := xcontext.RequestUserID(ctx)
	session := NewUserSession(userID)
	defer session.Leave()

	channels, err := server.channelsOfUser(ctx, userID)
	if err != nil {
		return err
	}

	modelChannels := []model.ChatChannel{}
	for _, channel := range channels {
		modelChannels = append(modelChannels, model.ChatChannel{
			ID:            channel.ID,
			Type:          string(channel.Type),
			GroupID:       channel.GroupID.String,
			LastMessageID: channel.LastMessageID,
		})
	}

	session.C <- event.New(&event.ReadyEvent{Channels: modelChannels}, event.Metadata{ToUser: userID})

	for _, channel := range channels {
		hub, err := server.router.GetHub(ctx, channel.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get hub of channel %d: %v", channel.ID, err)
			return errorx.Unknown
		}

		session.JoinChannel(hub)
	}

	userHub, err := server.router.GetUserHub(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user hub: %v", err)
		return errorx.Unknown
	}

	session.JoinUser(userHub)

	wsClient := xcontext.WSClient(ctx)
	var seq int64
	for {
		select {
		case ev, ok := <-session.C:
			if !ok {
				return errorx.New(errorx.Unavailable, "Session is closed")
			}

			evResp := event.Format(ev, seq)
			seq++

			b, err := json.Marshal(evResp)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot marshal resp: %v", err)
				continue
			}

			if err := wsClient.Write(b, false); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot send resp to client: %v", err)
				return errorx.Unknown
			}

		case req, ok := <-wsClient.R:
			if !ok {
				return errorx.Unknown
			}

			var d directive.ServerDirective
			if err := json.Unmarshal(req, &d); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unmarshal directive: %v", err)
				return errorx.New(errorx.BadRequest, "Invalid directive")
			}

			switch d.Op {
			case directive.ProxyPingDirectiveOp:

			case directive.ProxyJoinChannelDirectiveOp:
				var join directive.ProxyJoinChannelDirective
				if err := json.Unmarshal(d.Data, &join); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot unmarshal join channel data: %v", err)
					return errorx.New(errorx.BadRequest, "Invalid directive")
				}

				if err := server.verifyChannelAccess(ctx, userID, join.ChannelID); err != nil {
					xcontext.Logger(ctx).Warnf("Denied join of channel %d: %v", join.ChannelID, err)
					continue
				}

				hub, err := server.router.GetHub(ctx, join.ChannelID)
				if err != nil {
					xcontext.Logger(ctx).Errorf("Cannot get hub of channel %d: %v", join.ChannelID, err)
					continue
				}

				session.JoinChannel(hub)
			}
		}
	}
}

func (server *ProxyServer) channelsOfUser(ctx context.Context, userID string) ([]entity.ChatChannel, error) {
	channels, err := server.chatChannelRepo.GetDirectChannelsOfUser(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get direct channels: %v", err)
		return nil, errorx.Unknown
	}

	members, err := server.groupMemberRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get group memberships: %v", err)
		return nil, errorx.Unknown
	}

	for _, member := range members {
		channel, err := server.chatChannelRepo.GetByGroupID(ctx, member.GroupID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get channel of group %s: %v", member.GroupID, err)
			continue
		}

		channels = append(channels, *channel)
	}

	return channels, nil
}

func (server *ProxyServer) verifyChannelAccess(ctx context.Context, userID string, channelID int64) error {
	channel, err := server.chatChannelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}

	switch channel.Type {
	case entity.ChannelDirect:
		if channel.UserAID.String != userID && channel.UserBID.String != userID {
			return errorx.New(errorx.PermissionDenied, "Permission denied")
		}

	case entity.ChannelGroup:
		if _, err := server.groupMemberRepo.Get(ctx, channel.GroupID.String, userID); err != nil {
			return errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	return nil
}
