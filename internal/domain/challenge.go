package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/th3void/lotus-routine/internal/client"
	"github.com/th3void/lotus-routine/internal/domain/challengerule"
	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/model"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/dateutil"
	"github.com/th3void/lotus-routine/pkg/enum"
	"github.com/th3void/lotus-routine/pkg/errorx"
	"github.com/th3void/lotus-routine/pkg/sanitize"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"gorm.io/gorm"
)

const maxChallengeWindowDays = 366

// ChallengeProgressTracker re-scores a user against their active challenges.
// The daily log domain calls it after every write so progress follows the
// activity it is derived from.
type ChallengeProgressTracker interface {
	TouchProgress(ctx context.Context, userID string) error
}

type ChallengeDomain interface {
	ChallengeProgressTracker

	Create(context.Context, *model.CreateChallengeRequest) (*model.CreateChallengeResponse, error)
	Join(context.Context, *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	Leave(context.Context, *model.LeaveChallengeRequest) (*model.LeaveChallengeResponse, error)
	GetList(context.Context, *model.GetChallengesRequest) (*model.GetChallengesResponse, error)
	GetParticipants(context.Context, *model.GetChallengeParticipantsRequest) (*model.GetChallengeParticipantsResponse, error)
}

type challengeDomain struct {
	challengeRepo    repository.ChallengeRepository
	participantRepo  repository.ChallengeParticipantRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	engineCaller     client.NotificationEngineCaller
	ruleFactory      challengerule.Factory
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	engineCaller client.NotificationEngineCaller,
	ruleFactory challengerule.Factory,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:    challengeRepo,
		participantRepo:  participantRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		engineCaller:     engineCaller,
		ruleFactory:      ruleFactory,
	}
}

func (d *challengeDomain) Create(
	ctx context.Context, req *model.CreateChallengeRequest,
) (*model.CreateChallengeResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	challengeType, err := enum.ToEnum[entity.ChallengeType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid challenge type %s", req.Type)
	}

	startDate, err := dateutil.ParseDate(req.StartDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start date")
	}

	endDate, err := dateutil.ParseDate(req.EndDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid end date")
	}

	if !endDate.After(startDate) {
		return nil, errorx.New(errorx.BadRequest, "End date must be after start date")
	}

	if endDate.Sub(startDate) > maxChallengeWindowDays*24*time.Hour {
		return nil, errorx.New(errorx.BadRequest, "Challenge window is too long")
	}

	rule, err := d.ruleFactory.NewRule(ctx, challengeType, req.Rule)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	challenge := &entity.Challenge{
		Base:        entity.Base{ID: uuid.NewString()},
		CreatedBy:   userID,
		Title:       req.Title,
		Description: sanitize.UGC(req.Description),
		Type:        challengeType,
		Rule:        challengerule.ToMap(rule),
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    true,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.challengeRepo.Create(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
		return nil, errorx.Unknown
	}

	// The creator always takes part in their own challenge.
	err = d.participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add creator as participant: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	creator, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creator: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChallengeResponse{
		Challenge: model.ConvertChallenge(challenge, model.ConvertShortUser(creator), 1),
	}, nil
}

func (d *challengeDomain) Join(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	challenge, err := d.challengeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	if !challenge.IsActive || time.Now().After(challenge.EndDate) {
		return nil, errorx.New(errorx.Unavailable, "Challenge has ended")
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.participantRepo.Get(ctx, challenge.ID, userID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Already joined this challenge")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	err = d.participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create participant: %v", err)
		return nil, errorx.Unknown
	}

	// Late joiners get credit for activity already logged inside the window.
	if err := d.refreshParticipant(ctx, challenge, userID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot score new participant: %v", err)
	}

	return &model.JoinChallengeResponse{}, nil
}

func (d *challengeDomain) Leave(
	ctx context.Context, req *model.LeaveChallengeRequest,
) (*model.LeaveChallengeResponse, error) {
	challenge, err := d.challengeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if challenge.CreatedBy == userID {
		return nil, errorx.New(errorx.PermissionDenied, "Creator cannot leave their own challenge")
	}

	if _, err := d.participantRepo.Get(ctx, challenge.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not joined this challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.participantRepo.Delete(ctx, challenge.ID, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete participant: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LeaveChallengeResponse{}, nil
}

func (d *challengeDomain) GetList(
	ctx context.Context, req *model.GetChallengesRequest,
) (*model.GetChallengesResponse, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.Limit < 0 || req.Limit > 50 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range 0-50")
	}

	challenges, err := d.challengeRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges: %v", err)
		return nil, errorx.Unknown
	}

	creatorIDs := []string{}
	for _, c := range challenges {
		creatorIDs = append(creatorIDs, c.CreatedBy)
	}

	creators, err := d.userRepo.GetByIDs(ctx, creatorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creators: %v", err)
		return nil, errorx.Unknown
	}

	creatorByID := map[string]*entity.User{}
	for i := range creators {
		creatorByID[creators[i].ID] = &creators[i]
	}

	resp := []model.Challenge{}
	for i := range challenges {
		count, err := d.participantRepo.Count(ctx, challenges[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count participants: %v", err)
			return nil, errorx.Unknown
		}

		resp = append(resp, model.ConvertChallenge(
			&challenges[i],
			model.ConvertShortUser(creatorByID[challenges[i].CreatedBy]),
			count,
		))
	}

	return &model.GetChallengesResponse{Challenges: resp}, nil
}

func (d *challengeDomain) GetParticipants(
	ctx context.Context, req *model.GetChallengeParticipantsRequest,
) (*model.GetChallengeParticipantsResponse, error) {
	if _, err := d.challengeRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	participants, err := d.participantRepo.GetByChallengeID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := []string{}
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participant users: %v", err)
		return nil, errorx.Unknown
	}

	userByID := map[string]*entity.User{}
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	resp := []model.ChallengeParticipant{}
	for i := range participants {
		resp = append(resp, model.ConvertChallengeParticipant(
			&participants[i],
			model.ConvertShortUser(userByID[participants[i].UserID]),
		))
	}

	return &model.GetChallengeParticipantsResponse{Participants: resp}, nil
}

func (d *challengeDomain) TouchProgress(ctx context.Context, userID string) error {
	participations, err := d.participantRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for _, p := range participations {
		if p.IsCompleted {
			continue
		}

		challenge, err := d.challengeRepo.GetByID(ctx, p.ChallengeID)
		if err != nil {
			return err
		}

		now := time.Now()
		if !challenge.IsActive || now.Before(challenge.StartDate) || now.After(challenge.EndDate) {
			continue
		}

		if err := d.refreshParticipant(ctx, challenge, userID); err != nil {
			return err
		}
	}

	return nil
}

// refreshParticipant re-evaluates one participant and records completion the
// first time they hit 100.
func (d *challengeDomain) refreshParticipant(
	ctx context.Context, challenge *entity.Challenge, userID string,
) error {
	rule, err := d.ruleFactory.LoadRule(ctx, challenge)
	if err != nil {
		return err
	}

	progress, err := rule.Evaluate(ctx, userID, challenge)
	if err != nil {
		return err
	}

	if err := d.participantRepo.UpdateProgress(ctx, challenge.ID, userID, progress); err != nil {
		return err
	}

	if progress < 100 {
		return nil
	}

	participant, err := d.participantRepo.Get(ctx, challenge.ID, userID)
	if err != nil {
		return err
	}

	if participant.IsCompleted {
		return nil
	}

	if err := d.participantRepo.SetCompleted(ctx, challenge.ID, userID, time.Now()); err != nil {
		return err
	}

	pushNotification(ctx, d.notificationRepo, d.engineCaller, &entity.Notification{
		Base:    entity.Base{ID: uuid.NewString()},
		UserID:  userID,
		Type:    entity.NotificationChallenge,
		Title:   "Challenge completed",
		Message: "You completed the challenge " + challenge.Title,
		Metadata: entity.Map{
			"challenge_id": challenge.ID,
		},
	})

	return nil
}
