package model

// Client-facing objects. Entities never cross the router boundary; each one
// is converted here first, with dates flattened to strings.

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	AvatarURL   string `json:"avatar_url"`
	AvatarColor string `json:"avatar_color"`
	Bio         string `json:"bio"`
	IsBanned    bool   `json:"is_banned,omitempty"`
	IsNewUser   bool   `json:"is_new_user,omitempty"`
	Status      string `json:"status,omitempty"`
}

type ShortUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type DailyLog struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

type Task struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id,omitempty"`
	Date        string  `json:"date"`
	Title       string  `json:"title"`
	Hours       float64 `json:"hours"`
	IsCompleted bool    `json:"is_completed"`
}

type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Habit struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	TargetPerWeek int    `json:"target_per_week"`
	IsArchived    bool   `json:"is_archived"`
}

type HabitCompletion struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
}

type Goal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	IsCompleted bool   `json:"is_completed"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type Streak struct {
	Type             string `json:"type"`
	CurrentCount     int    `json:"current_count"`
	LongestCount     int    `json:"longest_count"`
	LastActivityDate string `json:"last_activity_date"`
}

type Friendship struct {
	ID        string    `json:"id"`
	Requester ShortUser `json:"requester"`
	Target    ShortUser `json:"target"`
	Status    string    `json:"status"`
}

type Group struct {
	ID            string    `json:"id"`
	Owner         ShortUser `json:"owner"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	InviteCode    string    `json:"invite_code,omitempty"`
	IsPrivate     bool      `json:"is_private"`
	TrendingScore float64   `json:"trending_score"`
	MemberCount   int64     `json:"member_count"`
	ChannelID     int64     `json:"channel_id,string,omitempty"`
}

type GroupMember struct {
	User     ShortUser `json:"user"`
	Role     string    `json:"role"`
	JoinedAt string    `json:"joined_at"`
}

type ChatChannel struct {
	ID            int64     `json:"id,string"`
	Type          string    `json:"type"`
	GroupID       string    `json:"group_id,omitempty"`
	Partner       ShortUser `json:"partner,omitempty"`
	LastMessageID int64     `json:"last_message_id,string"`
}

type ChatMessage struct {
	ID            int64     `json:"id,string"`
	ChannelID     int64     `json:"channel_id,string"`
	Author        ShortUser `json:"author"`
	Type          string    `json:"type"`
	Content       string    `json:"content"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	ReplyTo       int64     `json:"reply_to,string,omitempty"`
	IsDeleted     bool      `json:"is_deleted,omitempty"`
	Ref           string    `json:"ref,omitempty"`
	CreatedAt     string    `json:"created_at"`
}

type Challenge struct {
	ID               string         `json:"id"`
	Creator          ShortUser      `json:"creator"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Type             string         `json:"type"`
	Rule             map[string]any `json:"rule"`
	StartDate        string         `json:"start_date"`
	EndDate          string         `json:"end_date"`
	IsActive         bool           `json:"is_active"`
	ParticipantCount int64          `json:"participant_count"`
}

type ChallengeParticipant struct {
	User        ShortUser `json:"user"`
	Progress    int       `json:"progress"`
	IsCompleted bool      `json:"is_completed"`
	CompletedAt string    `json:"completed_at,omitempty"`
	JoinedAt    string    `json:"joined_at"`
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Value       int    `json:"value"`
	Description string `json:"description"`
	WasNotified bool   `json:"was_notified,omitempty"`
	EarnedAt    string `json:"earned_at,omitempty"`
}

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

type Gif struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PreviewURL string `json:"preview_url"`
	FullURL    string `json:"full_url"`
}

type LeaderboardEntry struct {
	User        ShortUser `json:"user"`
	Value       float64   `json:"value"`
	CurrentRank int       `json:"current_rank"`
}

// HeatmapCell is one contribution-graph day: the total hours and the color
// blended from the per-project hour weights of that day.
type HeatmapCell struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Color string  `json:"color"`
}
