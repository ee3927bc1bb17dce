// file: internal/models/gamification_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeCriteriaJSONMapForm(t *testing.T) {
	criteria := BadgeCriteria{
		{Kind: CriterionAction, Action: "quiz_completed"},
		{Kind: CriterionQuizzesTaken, Target: 1},
	}

	data, err := json.Marshal(criteria)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"quiz_completed","quizzes_taken":1}`, string(data))

	var parsed BadgeCriteria
	require.NoError(t, json.Unmarshal(data, &parsed))

	action, ok := parsed.Action()
	require.True(t, ok)
	assert.Equal(t, "quiz_completed", action)

	target, ok := parsed.Threshold(CriterionQuizzesTaken)
	require.True(t, ok)
	assert.Equal(t, 1, target)
}

func TestBadgeCriteriaUnmarshalOrdering(t *testing.T) {
	var parsed BadgeCriteria
	require.NoError(t, json.Unmarshal(
		[]byte(`{"streak_days":7,"action":"topic_completed","topics_completed":3}`), &parsed))

	require.Len(t, parsed, 3)
	// Action first, then metric priority order.
	assert.Equal(t, CriterionAction, parsed[0].Kind)
	assert.Equal(t, CriterionTopicsCompleted, parsed[1].Kind)
	assert.Equal(t, CriterionStreakDays, parsed[2].Kind)
}

func TestBadgeCriteriaUnmarshalRejectsBadValues(t *testing.T) {
	var parsed BadgeCriteria

	err := json.Unmarshal([]byte(`{"action":5}`), &parsed)
	assert.Error(t, err, "action must be a string")

	err = json.Unmarshal([]byte(`{"streak_days":"seven"}`), &parsed)
	assert.Error(t, err, "threshold targets must be numeric")
}

func TestBadgeCriteriaUnknownKindsPreserved(t *testing.T) {
	var parsed BadgeCriteria
	require.NoError(t, json.Unmarshal([]byte(`{"perfect_scores":3}`), &parsed))

	require.Len(t, parsed, 1)
	assert.True(t, parsed.HasUnknown())
	assert.False(t, IsKnownCriterion(parsed[0].Kind))
}

func TestBadgeCriteriaScanValue(t *testing.T) {
	criteria := BadgeCriteria{
		{Kind: CriterionLevelReached, Target: 5},
	}

	value, err := criteria.Value()
	require.NoError(t, err)

	var scanned BadgeCriteria
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, criteria, scanned)

	// jsonb often arrives as a string depending on the driver config.
	var fromString BadgeCriteria
	require.NoError(t, fromString.Scan(`{"level_reached":5}`))
	assert.Equal(t, criteria, fromString)
}

func TestBadgeCriteriaScanNil(t *testing.T) {
	scanned := BadgeCriteria{{Kind: CriterionStreakDays, Target: 3}}
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestBadgeCriteriaScanUnsupportedType(t *testing.T) {
	var scanned BadgeCriteria
	assert.Error(t, scanned.Scan(42))
}

func TestStringSliceRoundTrip(t *testing.T) {
	options := StringSlice{"2", "5", "10", "15"}

	value, err := options.Value()
	require.NoError(t, err)

	var scanned StringSlice
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, options, scanned)
}

func TestStringSliceNilValueIsEmptyArray(t *testing.T) {
	var options StringSlice

	value, err := options.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}

func TestQuizQuestionPublicViewStripsAnswer(t *testing.T) {
	q := &QuizQuestion{
		ID:           4,
		TopicSlug:    "ratios",
		Difficulty:   "hard",
		Prompt:       "Divide 60 in the ratio 2:3",
		Options:      StringSlice{"20 and 40", "24 and 36", "30 and 30"},
		CorrectIndex: 1,
		Explanation:  "2:3 splits 60 into 24 and 36.",
	}

	public := q.PublicView()

	assert.Equal(t, q.ID, public.ID)
	assert.Equal(t, q.Options, public.Options)

	data, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "correct_index")
	assert.NotContains(t, string(data), "explanation")
}
