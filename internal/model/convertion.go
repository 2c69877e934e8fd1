package model

import (
	"time"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/pkg/dateutil"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool, status string) User {
	if user == nil {
		return User{}
	}

	u := User{
		ID:          user.ID,
		Name:        user.Name,
		AvatarURL:   user.AvatarURL,
		AvatarColor: user.AvatarColor,
		Bio:         user.Bio,
		Status:      status,
	}

	if includeSensitive {
		u.Email = user.Email
		u.Role = string(user.Role)
		u.IsBanned = user.IsBanned
		u.IsNewUser = user.IsNewUser
	}

	return u
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{ID: user.ID, Name: user.Name, AvatarURL: user.AvatarURL}
}

func ConvertDailyLog(log *entity.DailyLog) DailyLog {
	if log == nil {
		return DailyLog{}
	}

	return DailyLog{
		ID:          log.ID,
		UserID:      log.UserID,
		Date:        dateutil.Date(log.Date),
		Hours:       log.Hours,
		Description: log.Description,
	}
}

func ConvertTask(task *entity.Task) Task {
	if task == nil {
		return Task{}
	}

	return Task{
		ID:          task.ID,
		ProjectID:   task.ProjectID.String,
		Date:        dateutil.Date(task.Date),
		Title:       task.Title,
		Hours:       task.Hours,
		IsCompleted: task.IsCompleted,
	}
}

func ConvertProject(project *entity.Project) Project {
	if project == nil {
		return Project{}
	}

	return Project{ID: project.ID, Name: project.Name, Color: project.Color}
}

func ConvertHabit(habit *entity.Habit) Habit {
	if habit == nil {
		return Habit{}
	}

	return Habit{
		ID:            habit.ID,
		Name:          habit.Name,
		Color:         habit.Color,
		TargetPerWeek: habit.TargetPerWeek,
		IsArchived:    habit.IsArchived,
	}
}

func ConvertHabitCompletion(completion *entity.HabitCompletion) HabitCompletion {
	if completion == nil {
		return HabitCompletion{}
	}

	return HabitCompletion{
		HabitID: completion.HabitID,
		Date:    dateutil.Date(completion.Date),
	}
}

func ConvertGoal(goal *entity.Goal) Goal {
	if goal == nil {
		return Goal{}
	}

	completedAt := ""
	if goal.CompletedAt.Valid {
		completedAt = goal.CompletedAt.Time.Format(DefaultTimeLayout)
	}

	return Goal{
		ID:          goal.ID,
		Title:       goal.Title,
		Description: goal.Description,
		TargetDate:  dateutil.Date(goal.TargetDate),
		IsCompleted: goal.IsCompleted,
		CompletedAt: completedAt,
	}
}

func ConvertStreak(streak *entity.Streak) Streak {
	if streak == nil {
		return Streak{}
	}

	return Streak{
		Type:             string(streak.Type),
		CurrentCount:     streak.CurrentCount,
		LongestCount:     streak.LongestCount,
		LastActivityDate: dateutil.Date(streak.LastActivityDate),
	}
}

func ConvertFriendship(friendship *entity.Friendship, requester, target ShortUser) Friendship {
	if friendship == nil {
		return Friendship{}
	}

	return Friendship{
		ID:        friendship.ID,
		Requester: requester,
		Target:    target,
		Status:    string(friendship.Status),
	}
}

func ConvertGroup(group *entity.Group, owner ShortUser, memberCount int64, includeCode bool) Group {
	if group == nil {
		return Group{}
	}

	g := Group{
		ID:            group.ID,
		Owner:         owner,
		Name:          group.Name,
		Description:   group.Description,
		IsPrivate:     group.IsPrivate,
		TrendingScore: group.TrendingScore,
		MemberCount:   memberCount,
	}

	if includeCode {
		g.InviteCode = group.InviteCode
	}

	return g
}

func ConvertGroupMember(member *entity.GroupMember, user ShortUser) GroupMember {
	if member == nil {
		return GroupMember{}
	}

	return GroupMember{
		User:     user,
		Role:     string(member.Role),
		JoinedAt: member.CreatedAt.Format(DefaultTimeLayout),
	}
}

// ConvertChatMessage carries decrypted content, not the stored envelope. The
// caller decrypts first.
func ConvertChatMessage(msg *entity.ChatMessage, author ShortUser, content string) ChatMessage {
	if msg == nil {
		return ChatMessage{}
	}

	return ChatMessage{
		ID:            msg.ID,
		ChannelID:     msg.ChannelID,
		Author:        author,
		Type:          msg.Type,
		Content:       content,
		AttachmentURL: msg.AttachmentURL,
		ReplyTo:       msg.ReplyTo,
		IsDeleted:     msg.IsDeleted,
		CreatedAt:     msg.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertChallenge(challenge *entity.Challenge, creator ShortUser, participantCount int64) Challenge {
	if challenge == nil {
		return Challenge{}
	}

	return Challenge{
		ID:               challenge.ID,
		Creator:          creator,
		Title:            challenge.Title,
		Description:      challenge.Description,
		Type:             string(challenge.Type),
		Rule:             challenge.Rule,
		StartDate:        dateutil.Date(challenge.StartDate),
		EndDate:          dateutil.Date(challenge.EndDate),
		IsActive:         challenge.IsActive,
		ParticipantCount: participantCount,
	}
}

func ConvertChallengeParticipant(p *entity.ChallengeParticipant, user ShortUser) ChallengeParticipant {
	if p == nil {
		return ChallengeParticipant{}
	}

	completedAt := ""
	if p.CompletedAt.Valid {
		completedAt = p.CompletedAt.Time.Format(DefaultTimeLayout)
	}

	return ChallengeParticipant{
		User:        user,
		Progress:    p.Progress,
		IsCompleted: p.IsCompleted,
		CompletedAt: completedAt,
		JoinedAt:    p.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBadge(badge *entity.Badge, detail *entity.BadgeDetail) Badge {
	if badge == nil {
		return Badge{}
	}

	b := Badge{
		ID:          badge.ID,
		Name:        badge.Name,
		Level:       badge.Level,
		Value:       badge.Value,
		Description: badge.Description,
	}

	if detail != nil {
		b.WasNotified = detail.WasNotified
		b.EarnedAt = detail.CreatedAt.Format(DefaultTimeLayout)
	}

	return b
}

func ConvertNotification(n *entity.Notification) Notification {
	if n == nil {
		return Notification{}
	}

	return Notification{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Metadata:  n.Metadata,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(DefaultTimeLayout),
	}
}
