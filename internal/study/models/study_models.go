package models

import (
	"encoding/json"
	"time"
)

// User represents a study app user
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"unique;not null" json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// Lecture records an uploaded lecture and the topics it introduced
type Lecture struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Topics    string    `gorm:"type:text" json:"topics"` // JSON array
	CreatedAt time.Time `json:"created_at"`
}

// TopicReview is the spaced-repetition ledger record for one (user, topic)
type TopicReview struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index:idx_user_topic,unique" json:"user_id"`
	Topic              string    `gorm:"not null;index:idx_user_topic,unique" json:"topic"`
	SourceLectureID    uint      `json:"source_lecture_id"`
	SourceLectureTitle string    `json:"source_lecture_title"`
	LastReviewedOn     time.Time `json:"last_reviewed_on"`
	LastScore          int       `json:"last_score"`   // 0-100
	ReviewCount        int       `json:"review_count"`
	EaseFactor         float64   `gorm:"default:2.5" json:"ease_factor"` // >= 1.3
	IntervalDays       int       `gorm:"default:1" json:"interval_days"` // >= 1
	NextDueOn          time.Time `gorm:"index" json:"next_due_on"`
	Streak             int       `json:"streak"` // consecutive reviews scoring >= 70
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UserProgress is the per-user gamified progression row.
// Level is always derived from TotalXP, never set independently.
type UserProgress struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"unique;not null;index" json:"user_id"`
	Level              int        `gorm:"default:1" json:"level"`
	TotalXP            int        `gorm:"default:0" json:"total_xp"`
	CurrentStreak      int        `json:"current_streak"` // consecutive study days
	LongestStreak      int        `json:"longest_streak"`
	LastStudyDate      time.Time  `json:"last_study_date"`
	MasteredTopics     string     `gorm:"type:text" json:"mastered_topics"` // JSON array
	NeedsPractice      string     `gorm:"type:text" json:"needs_practice"`  // JSON array
	SecondChances      int        `json:"second_chances"`
	HintCharges        int        `json:"hint_charges"`
	DoubleXPActive     bool       `json:"double_xp_active"`
	QuizzesCompleted   int        `json:"quizzes_completed"`
	PerfectScores      int        `json:"perfect_scores"`
	ConsecutivePerfect int        `json:"consecutive_perfect"`
	DailyQuizzesDone   int        `json:"daily_quizzes_done"`
	ConsecutiveDaily   int        `json:"consecutive_daily"`
	LastDailyQuizOn    *time.Time `json:"last_daily_quiz_on,omitempty"`
	LastLevelUpAt      *time.Time `json:"last_level_up_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// MasteredList decodes the mastered-topics JSON column
func (p *UserProgress) MasteredList() []string {
	return decodeStringList(p.MasteredTopics)
}

// NeedsPracticeList decodes the needs-practice JSON column
func (p *UserProgress) NeedsPracticeList() []string {
	return decodeStringList(p.NeedsPractice)
}

// SetMasteredList encodes the mastered-topics JSON column
func (p *UserProgress) SetMasteredList(topics []string) {
	p.MasteredTopics = encodeStringList(topics)
}

// SetNeedsPracticeList encodes the needs-practice JSON column
func (p *UserProgress) SetNeedsPracticeList(topics []string) {
	p.NeedsPractice = encodeStringList(topics)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Achievement is a static achievement definition, seeded once at startup
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null" json:"key"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Category    string    `gorm:"not null;index" json:"category"` // milestones, streaks, timing, improvement, mastery, social
	XPReward    int       `gorm:"default:0" json:"xp_reward"`
	MaxProgress int       `gorm:"default:1" json:"max_progress"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement is the mutable per-user unlock state for one achievement.
// Unlocks are monotonic: once set, only a full profile reset clears them.
type UserAchievement struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index:idx_user_achievement,unique" json:"user_id"`
	AchievementKey string     `gorm:"not null;index:idx_user_achievement,unique" json:"achievement_key"`
	Unlocked       bool       `json:"unlocked"`
	UnlockedOn     *time.Time `json:"unlocked_on,omitempty"`
	Progress       int        `json:"progress"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// QuizResult is one scored quiz in a user's history
type QuizResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	LectureID      uint      `gorm:"index" json:"lecture_id"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"` // 0-100
	IsPerfect      bool      `json:"is_perfect"`
	IsDailyQuiz    bool      `json:"is_daily_quiz"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// DailyQuiz is the ephemeral daily review plan. At most one uncompleted
// plan exists per user at a time.
type DailyQuiz struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Items       string     `gorm:"type:text" json:"items"` // JSON array of DailyQuizItem
	GeneratedOn time.Time  `json:"generated_on"`
	Completed   bool       `gorm:"index" json:"completed"`
	CompletedOn *time.Time `json:"completed_on,omitempty"`
	Score       int        `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DailyQuizItem is one ranked topic inside a daily quiz plan
type DailyQuizItem struct {
	Topic           string  `json:"topic"`
	SourceLectureID uint    `json:"source_lecture_id"`
	PriorityScore   float64 `json:"priority_score"`
	Reason          string  `json:"reason"`
}

// ItemList decodes the plan's JSON items column
func (d *DailyQuiz) ItemList() []DailyQuizItem {
	if d.Items == "" {
		return nil
	}
	var items []DailyQuizItem
	if err := json.Unmarshal([]byte(d.Items), &items); err != nil {
		return nil
	}
	return items
}

// SetItemList encodes the plan's JSON items column
func (d *DailyQuiz) SetItemList(items []DailyQuizItem) {
	data, err := json.Marshal(items)
	if err != nil {
		d.Items = "[]"
		return
	}
	d.Items = string(data)
}

// API Request/Response DTOs

// RegisterLectureRequest - request to register an uploaded lecture
type RegisterLectureRequest struct {
	Title  string   `json:"title" binding:"required,min=1,max=255"`
	Topics []string `json:"topics" binding:"required,min=1,dive,min=1"`
}

// TopicScoreInput - one topic's score within a quiz submission
type TopicScoreInput struct {
	Topic string `json:"topic" binding:"required,min=1"`
	Score int    `json:"score" binding:"min=0,max=100"`
}

// CompleteQuizRequest - request to submit a scored quiz
type CompleteQuizRequest struct {
	LectureID        uint              `json:"lecture_id"`
	TopicScores      []TopicScoreInput `json:"topic_scores" binding:"required,min=1,dive"`
	CorrectCount     int               `json:"correct_count" binding:"min=0"`
	TotalQuestions   int               `json:"total_questions" binding:"required,gt=0"`
	ConfidenceRating int               `json:"confidence_rating" binding:"min=0,max=5"`
	IsDailyQuiz      bool              `json:"is_daily_quiz"`
	UsedSecondChance bool              `json:"used_second_chance"`
	UsedHint         bool              `json:"used_hint"`
	SharedResult     bool              `json:"shared_result"`
	StudiedWithPeer  bool              `json:"studied_with_peer"`
}

// TopicScheduleResponse - updated schedule for one topic after a review
type TopicScheduleResponse struct {
	Topic        string    `json:"topic"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	NextDueOn    time.Time `json:"next_due_on"`
	Streak       int       `json:"streak"`
}

// AchievementResponse - definition joined with per-user state
type AchievementResponse struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	XPReward    int        `json:"xp_reward"`
	MaxProgress int        `json:"max_progress"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedOn  *time.Time `json:"unlocked_on,omitempty"`
	Progress    int        `json:"progress"`
}

// CompleteQuizResponse - everything a client needs after submitting a quiz
type CompleteQuizResponse struct {
	XPAwarded        int                     `json:"xp_awarded"`
	TotalXP          int                     `json:"total_xp"`
	Level            int                     `json:"level"`
	LevelUps         int                     `json:"level_ups"`
	CurrentStreak    int                     `json:"current_streak"`
	Schedules        []TopicScheduleResponse `json:"schedules"`
	NewAchievements  []AchievementResponse   `json:"new_achievements"`
	MasteredTopics   []string                `json:"mastered_topics"`
	NeedsPractice    []string                `json:"needs_practice"`
}

// ConfidenceRequest - standalone confidence rating submission
type ConfidenceRequest struct {
	Rating int `json:"rating" binding:"min=0,max=5"`
}

// ConfidenceResponse - XP awarded for a confidence rating
type ConfidenceResponse struct {
	XPAwarded int `json:"xp_awarded"`
	TotalXP   int `json:"total_xp"`
	Level     int `json:"level"`
}

// DailyQuizResponse - the current daily review plan
type DailyQuizResponse struct {
	ID          string          `json:"id"`
	Items       []DailyQuizItem `json:"items"`
	GeneratedOn time.Time       `json:"generated_on"`
	Completed   bool            `json:"completed"`
	CompletedOn *time.Time      `json:"completed_on,omitempty"`
	Score       int             `json:"score"`
}

// CompleteDailyQuizRequest - finalize the open daily plan
type CompleteDailyQuizRequest struct {
	Score int `json:"score" binding:"min=0,max=100"`
}

// ProgressResponse - user progression snapshot
type ProgressResponse struct {
	UserID         uint     `json:"user_id"`
	Level          int      `json:"level"`
	TotalXP        int      `json:"total_xp"`
	XPForNextLevel int      `json:"xp_for_next_level"`
	CurrentStreak  int      `json:"current_streak"`
	LongestStreak  int      `json:"longest_streak"`
	MasteredTopics []string `json:"mastered_topics"`
	NeedsPractice  []string `json:"needs_practice"`
	SecondChances  int      `json:"second_chances"`
	HintCharges    int      `json:"hint_charges"`
	DoubleXPActive bool     `json:"double_xp_active"`
}

// TopicStatusResponse - ledger record with due annotations
type TopicStatusResponse struct {
	Topic        string    `json:"topic"`
	LastScore    int       `json:"last_score"`
	ReviewCount  int       `json:"review_count"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	NextDueOn    time.Time `json:"next_due_on"`
	Streak       int       `json:"streak"`
	Due          bool      `json:"due"`
	DaysOverdue  int       `json:"days_overdue"`
}

// LeaderboardEntry - one row of the XP leaderboard
type LeaderboardEntry struct {
	UserID  uint `json:"user_id"`
	Level   int  `json:"level"`
	TotalXP int  `json:"total_xp"`
	Rank    int  `json:"rank"`
}
