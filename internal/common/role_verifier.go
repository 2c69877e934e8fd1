package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
	"github.com/th3void/lotus-routine/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user is not valid")
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}

// GroupRoleVerifier checks group membership roles. Global admins pass every
// check so they can moderate any group.
type GroupRoleVerifier struct {
	groupMemberRepo repository.GroupMemberRepository
	userRepo        repository.UserRepository
}

func NewGroupRoleVerifier(
	groupMemberRepo repository.GroupMemberRepository,
	userRepo repository.UserRepository,
) *GroupRoleVerifier {
	return &GroupRoleVerifier{groupMemberRepo: groupMemberRepo, userRepo: userRepo}
}

func (verifier *GroupRoleVerifier) Verify(
	ctx context.Context,
	groupID string,
	requiredRoles ...entity.GroupRole,
) error {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user is not valid")
	}

	if slices.Contains(entity.GlobalAdminRoles, u.Role) {
		return nil
	}

	member, err := verifier.groupMemberRepo.Get(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user is not a group member")
		}

		return err
	}

	if !slices.Contains(requiredRoles, member.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}
