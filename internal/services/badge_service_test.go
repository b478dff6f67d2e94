package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadgeEvaluate(t *testing.T) {
	svc := NewBadgeService()

	tests := []struct {
		name  string
		stats UserStats
		want  []string
	}{
		{"NewUser", UserStats{}, nil},
		{"FirstQuestion", UserStats{Questions: 1}, []string{BadgeFirstQuestion}},
		{"Curious", UserStats{Questions: 5}, []string{BadgeFirstQuestion, BadgeCurious}},
		{"FirstAnswer", UserStats{Answers: 1}, []string{BadgeFirstAnswer}},
		{"ProblemSolver", UserStats{Answers: 10}, []string{BadgeFirstAnswer, BadgeProblemSolver}},
		{"RisingStar", UserStats{Reputation: 50}, []string{BadgeRisingStar}},
		{"JustBelowRisingStar", UserStats{Reputation: 49}, nil},
		{"Expert", UserStats{Reputation: 200}, []string{BadgeRisingStar, BadgeExpert}},
		{"StreakMaster", UserStats{Streak: 7}, []string{BadgeStreakMaster}},
		{
			"Everything",
			UserStats{Questions: 5, Answers: 10, Reputation: 200, Streak: 7},
			[]string{
				BadgeFirstQuestion, BadgeCurious,
				BadgeFirstAnswer, BadgeProblemSolver,
				BadgeRisingStar, BadgeExpert,
				BadgeStreakMaster,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Evaluate(tt.stats))
		})
	}
}

func TestBadgeMissing(t *testing.T) {
	svc := NewBadgeService()
	stats := UserStats{Questions: 5, Answers: 1, Reputation: 60}

	t.Run("NoneHeld", func(t *testing.T) {
		assert.Equal(t,
			[]string{BadgeFirstQuestion, BadgeCurious, BadgeFirstAnswer, BadgeRisingStar},
			svc.Missing(stats, nil))
	})

	t.Run("SomeHeld", func(t *testing.T) {
		assert.Equal(t,
			[]string{BadgeCurious, BadgeRisingStar},
			svc.Missing(stats, []string{BadgeFirstQuestion, BadgeFirstAnswer}))
	})

	t.Run("AllHeld", func(t *testing.T) {
		assert.Empty(t, svc.Missing(stats, svc.Evaluate(stats)))
	})
}
