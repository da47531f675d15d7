package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scorePtr(v int) *int {
	return &v
}

func TestRecalculateAggregates(t *testing.T) {
	session := InterviewSession{
		Questions: []Question{
			{Answer: "first answer", Score: scorePtr(80)},
			{Answer: "second answer", Score: scorePtr(60)},
			{},
			{Answer: "fourth answer", Score: scorePtr(100)},
		},
	}

	session.Recalculate()

	require.Equal(t, 3, session.QuestionsAnswered)
	require.Equal(t, 80, session.AverageScore)
	require.False(t, session.Completed)
}

func TestRecalculateIgnoresWhitespaceAnswers(t *testing.T) {
	session := InterviewSession{
		Questions: []Question{
			{Answer: "   "},
			{Answer: "real answer", Score: scorePtr(70)},
		},
	}

	session.Recalculate()

	require.Equal(t, 1, session.QuestionsAnswered)
	require.Equal(t, 70, session.AverageScore)
}

func TestRecalculateZeroDivisionGuard(t *testing.T) {
	session := InterviewSession{
		Questions: []Question{{}, {}, {}},
	}

	session.Recalculate()

	require.Equal(t, 0, session.QuestionsAnswered)
	require.Equal(t, 0, session.AverageScore)
	require.False(t, session.Completed)
}

func TestRecalculateDerivesCompleted(t *testing.T) {
	session := InterviewSession{
		Questions: []Question{
			{Answer: "a", Score: scorePtr(55)},
			{Answer: "b", Score: scorePtr(64)},
		},
	}

	session.Recalculate()

	require.True(t, session.Completed)
	require.Equal(t, 2, session.QuestionsAnswered)
	// 55+64 = 119, mean 59.5 rounds up
	require.Equal(t, 60, session.AverageScore)
}

func TestRecalculateEmptySessionNotCompleted(t *testing.T) {
	session := InterviewSession{}
	session.Recalculate()
	require.False(t, session.Completed)
}
