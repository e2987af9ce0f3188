package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/prompt"
)

func TestSystem(t *testing.T) {
	require.Contains(t, prompt.System(), "Skill4Green")
}

func TestRecommendations(t *testing.T) {
	goal := 5.5

	t.Run("should render the full profile", func(t *testing.T) {
		summary := domain.UserSummary{
			User:        domain.UserInfo{ID: "u1", Name: "Ana"},
			Department:  "IT",
			Skills:      []string{"basic_electrical", "automation"},
			RecentTasks: []domain.RecentTask{{TaskCode: "AC_OFF_AFTER_HOURS", Count: 5}, {TaskCode: "LED_REPLACE", Count: 2}},
			Goals:       &domain.Goals{DeptKWhReductionPct: &goal},
		}

		text := prompt.Recommendations(summary, 4, false)

		require.Contains(t, text, "- Department: IT\n")
		require.Contains(t, text, "- Skills: basic_electrical, automation\n")
		require.Contains(t, text, "- Recent tasks: AC_OFF_AFTER_HOURS, LED_REPLACE\n")
		require.Contains(t, text, "- Department energy reduction goal: 5.5 (%).")
		require.Contains(t, text, "up to 4 sustainability tasks SPECIFIC to the IT department")
		require.NotContains(t, text, "NEW set")
	})

	t.Run("should mark missing fields as not provided", func(t *testing.T) {
		text := prompt.Recommendations(domain.UserSummary{User: domain.UserInfo{ID: "u1"}}, 3, false)

		require.Contains(t, text, "- Department: not provided\n")
		require.Contains(t, text, "- Skills: not provided\n")
		require.Contains(t, text, "- Recent tasks: none provided\n")
		require.Contains(t, text, "- Department energy reduction goal: not provided (%).")
	})

	t.Run("should ask for a different set on refresh", func(t *testing.T) {
		text := prompt.Recommendations(domain.UserSummary{Department: "HR"}, 6, true)

		require.Contains(t, text, "NEW set of up to 6 sustainability tasks")
		require.Contains(t, text, "Do not repeat tasks")
	})
}

func TestMotivation(t *testing.T) {
	t.Run("should include metrics and equivalence", func(t *testing.T) {
		text := prompt.Motivation(domain.ImpactEstimate{KWh: 61.234, CO2: 5.1, Cost: 58.2}, "Ana", "R$")

		require.Contains(t, text, "- Name: Ana\n")
		require.Contains(t, text, "- Savings: 61.23 kWh | 5.10 kg CO2 | R$ 58.20\n")
		require.Contains(t, text, "about 2 household(s)/day")
		require.Contains(t, text, "Use the household equivalence")
	})

	t.Run("should default the name and skip equivalence for small savings", func(t *testing.T) {
		text := prompt.Motivation(domain.ImpactEstimate{KWh: 1.2}, "", "$")

		require.Contains(t, text, "- Name: You\n")
		require.Contains(t, text, "about 0 household(s)/day")
		require.NotContains(t, text, "Use the household equivalence")
	})
}

func TestHouseholds(t *testing.T) {
	tests := []struct {
		kwh      float64
		expected int
	}{
		{kwh: 0, expected: 0},
		{kwh: 29.9, expected: 0},
		{kwh: 30, expected: 1},
		{kwh: 95, expected: 3},
		{kwh: -40, expected: 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, prompt.Households(tt.kwh))
	}
}
