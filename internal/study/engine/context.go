package engine

// EvaluationContext is the normalized snapshot of user state and session
// facts that achievement predicates run against. Fields the host cannot
// supply stay at their zero value, which every predicate reads as
// "condition not met".
type EvaluationContext struct {
	// Cumulative counts
	TotalXP          int
	Level            int
	LecturesUploaded int
	QuizzesCompleted int
	PerfectScores    int

	// Streaks
	CurrentStreak      int // consecutive study days
	LongestStreak      int
	ConsecutivePerfect int
	DailyQuizzesDone   int
	ConsecutiveDaily   int

	// Calendar/time of the session
	Hour       int // 0-23
	Weekday    int // 0-6, Sunday = 0
	DayOfMonth int // 1-31

	// Improvement patterns, from chronologically sorted history
	LastScore     int
	ScoreDelta    int // current minus previous attempt on the same material
	ComebackTo    int // best score after a sub-50% attempt, 0 when none
	IsPerfectQuiz bool

	// Mastery
	MasteredTopics int

	// Session-supplied flags the engine cannot derive itself
	SharedResult      bool
	StudiedWithPeer   bool
	UsedSecondChance  bool
	UsedHint          bool
	DoubleXPWasActive bool
}
