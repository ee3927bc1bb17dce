package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// ===============================
// USER STATS
// ===============================

// Experience needed to leave level 1. Each subsequent level costs 1.5x the
// previous one, truncated to an int.
const BaseLevelThreshold = 100

// UserStats is the per-user gamification ledger. Level starts at 1 and never
// decreases; ExperiencePoints always stays below ExperienceToNextLevel, the
// current level's threshold.
type UserStats struct {
	UserID                int64      `json:"user_id" db:"user_id"`
	TotalPoints           int        `json:"total_points" db:"total_points"`
	Level                 int        `json:"level" db:"level"`
	ExperiencePoints      int        `json:"experience_points" db:"experience_points"`
	ExperienceToNextLevel int        `json:"experience_to_next_level" db:"experience_to_next_level"`
	CurrentStreak         int        `json:"current_streak" db:"current_streak"`
	LongestStreak         int        `json:"longest_streak" db:"longest_streak"`
	TopicsCompleted       int        `json:"topics_completed" db:"topics_completed"`
	QuizzesTaken          int        `json:"quizzes_taken" db:"quizzes_taken"`
	TotalStudyTimeMinutes int        `json:"total_study_time_minutes" db:"total_study_time_minutes"`
	LastActivity          *time.Time `json:"last_activity,omitempty" db:"last_activity"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// NewUserStats returns the default stats row for a fresh user.
func NewUserStats(userID int64) *UserStats {
	return &UserStats{UserID: userID, Level: 1, ExperienceToNextLevel: BaseLevelThreshold}
}

// PointsResult describes the outcome of a single points grant.
type PointsResult struct {
	PointsGained int  `json:"points_gained"`
	NewTotal     int  `json:"new_total"`
	LevelUp      bool `json:"level_up"`
	NewLevel     int  `json:"new_level"`
}

// ===============================
// BADGES
// ===============================

// Badge categories.
const (
	BadgeCategoryProgress  = "progress"
	BadgeCategoryQuiz      = "quiz"
	BadgeCategoryStreak    = "streak"
	BadgeCategoryMilestone = "milestone"
	BadgeCategorySpecial   = "special"
)

// Badge rarities.
const (
	BadgeRarityCommon    = "common"
	BadgeRarityRare      = "rare"
	BadgeRarityEpic      = "epic"
	BadgeRarityLegendary = "legendary"
)

// Badge is a catalog entry describing an earnable achievement.
type Badge struct {
	ID          string        `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Icon        string        `json:"icon" db:"icon"`
	Category    string        `json:"category" db:"category"`
	Criteria    BadgeCriteria `json:"criteria" db:"criteria"`
	Rarity      string        `json:"rarity" db:"rarity"`
	Points      int           `json:"points" db:"points"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// UserBadge records that a user earned a badge.
type UserBadge struct {
	ID       string    `json:"id" db:"id"`
	UserID   int64     `json:"user_id" db:"user_id"`
	BadgeID  string    `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
	Progress float64   `json:"progress" db:"progress"`
}

// EarnedBadge joins a user badge with its catalog metadata for API output.
type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}

// BadgeProgress reports how far a user is toward an unearned badge.
type BadgeProgress struct {
	Badge    Badge   `json:"badge"`
	Current  int     `json:"current"`
	Target   int     `json:"target"`
	Progress float64 `json:"progress"`
	IsEarned bool    `json:"is_earned"`
}

// ===============================
// BADGE CRITERIA
// ===============================

// CriterionKind identifies one badge requirement. Threshold kinds compare a
// user metric against a target with >= semantics; CriterionAction filters by
// the action that triggered evaluation.
type CriterionKind string

const (
	CriterionAction          CriterionKind = "action"
	CriterionTopicsCompleted CriterionKind = "topics_completed"
	CriterionQuizzesTaken    CriterionKind = "quizzes_taken"
	CriterionQuizzesPassed   CriterionKind = "quizzes_passed"
	CriterionStreakDays      CriterionKind = "streak_days"
	CriterionLongestStreak   CriterionKind = "longest_streak"
	CriterionPointsEarned    CriterionKind = "points_earned"
	CriterionLevelReached    CriterionKind = "level_reached"
	CriterionBadgesEarned    CriterionKind = "badges_earned"
)

// ThresholdKinds lists the recognized metric criteria in the fixed priority
// order used when picking the single criterion that drives badge progress.
var ThresholdKinds = []CriterionKind{
	CriterionTopicsCompleted,
	CriterionQuizzesTaken,
	CriterionQuizzesPassed,
	CriterionStreakDays,
	CriterionLongestStreak,
	CriterionPointsEarned,
	CriterionLevelReached,
	CriterionBadgesEarned,
}

// IsKnownCriterion reports whether kind is recognized by the evaluator.
func IsKnownCriterion(kind CriterionKind) bool {
	return kind == CriterionAction || slices.Contains(ThresholdKinds, kind)
}

// Criterion is one typed badge requirement. For CriterionAction the Action
// field carries the required trigger; for threshold kinds Target carries the
// required metric value.
type Criterion struct {
	Kind   CriterionKind `json:"kind"`
	Target int           `json:"target,omitempty"`
	Action string        `json:"action,omitempty"`
}

// BadgeCriteria is the full requirement set for a badge. All criteria must
// hold for the badge to be awarded; an empty set never awards.
type BadgeCriteria []Criterion

// Action returns the action filter, if any.
func (c BadgeCriteria) Action() (string, bool) {
	for _, crit := range c {
		if crit.Kind == CriterionAction {
			return crit.Action, true
		}
	}
	return "", false
}

// Threshold returns the target for the given metric kind, if present.
func (c BadgeCriteria) Threshold(kind CriterionKind) (int, bool) {
	for _, crit := range c {
		if crit.Kind == kind {
			return crit.Target, true
		}
	}
	return 0, false
}

// HasUnknown reports whether any criterion uses an unrecognized kind.
// Such badges are unsatisfiable rather than silently awardable.
func (c BadgeCriteria) HasUnknown() bool {
	for _, crit := range c {
		if !IsKnownCriterion(crit.Kind) {
			return true
		}
	}
	return false
}

// criteriaMap is the storage and wire form: {"action":"quiz_completed","quizzes_taken":1}.
type criteriaMap map[string]interface{}

func (c BadgeCriteria) toMap() criteriaMap {
	m := make(criteriaMap, len(c))
	for _, crit := range c {
		if crit.Kind == CriterionAction {
			m[string(crit.Kind)] = crit.Action
		} else {
			m[string(crit.Kind)] = crit.Target
		}
	}
	return m
}

func criteriaFromMap(m criteriaMap) (BadgeCriteria, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable order: action first, then metric priority order, unknown keys last.
	slices.SortFunc(keys, func(a, b string) int {
		ra, rb := criterionRank(CriterionKind(a)), criterionRank(CriterionKind(b))
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
	out := make(BadgeCriteria, 0, len(keys))
	for _, k := range keys {
		kind := CriterionKind(k)
		if kind == CriterionAction {
			action, ok := m[k].(string)
			if !ok {
				return nil, fmt.Errorf("criterion %q: expected string value", k)
			}
			out = append(out, Criterion{Kind: kind, Action: action})
			continue
		}
		target, err := numericTarget(m[k])
		if err != nil {
			return nil, fmt.Errorf("criterion %q: %w", k, err)
		}
		out = append(out, Criterion{Kind: kind, Target: target})
	}
	return out, nil
}

func criterionRank(kind CriterionKind) int {
	if kind == CriterionAction {
		return 0
	}
	if i := slices.Index(ThresholdKinds, kind); i >= 0 {
		return i + 1
	}
	return len(ThresholdKinds) + 1
}

func numericTarget(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", v)
	}
}

// MarshalJSON emits the compact map form.
func (c BadgeCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// UnmarshalJSON parses the compact map form.
func (c *BadgeCriteria) UnmarshalJSON(data []byte) error {
	var m criteriaMap
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := criteriaFromMap(m)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer for the jsonb criteria column.
func (c BadgeCriteria) Value() (driver.Value, error) {
	return json.Marshal(c.toMap())
}

// Scan implements sql.Scanner for the jsonb criteria column.
func (c *BadgeCriteria) Scan(src interface{}) error {
	if src == nil {
		*c = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported criteria source type %T", src)
	}
	return c.UnmarshalJSON(data)
}

// ===============================
// LEADERBOARD
// ===============================

// LeaderboardEntry is one ranked row of the points leaderboard.
// Ordering is total points descending, then level descending, then user ID
// ascending so repeated reads rank ties identically.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id" db:"user_id"`
	Username      string `json:"username" db:"username"`
	TotalPoints   int    `json:"total_points" db:"total_points"`
	Level         int    `json:"level" db:"level"`
	BadgesCount   int    `json:"badges_count" db:"badges_count"`
	CurrentStreak int    `json:"current_streak" db:"current_streak"`
}

// GamificationData is the aggregate payload for a user's gamification view.
type GamificationData struct {
	Stats              *UserStats      `json:"stats"`
	Badges             []EarnedBadge   `json:"badges"`
	BadgeProgress      []BadgeProgress `json:"badge_progress"`
	RecentAchievements []EarnedBadge   `json:"recent_achievements"`
}
