// Package prompt renders the static prompt templates sent to the language model.
package prompt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/davidbz/skill4green/internal/domain"
)

const (
	notProvided = "not provided"
	noneGiven   = "none provided"

	// kWhPerHouseholdDay approximates a household's daily consumption.
	kWhPerHouseholdDay = 30.0
)

// System returns the system prompt shared by every generation.
func System() string {
	return "You are the AI module of Skill4Green. Write short, specific, actionable " +
		"recommendations and messages aligned with corporate sustainability."
}

// Recommendations builds the user prompt asking for sustainability tasks.
// The refresh variant asks for a new set that differs from earlier suggestions.
func Recommendations(summary domain.UserSummary, maxItems int, refresh bool) string {
	department := orDefault(summary.Department, notProvided)

	var b strings.Builder

	b.WriteString("User:\n")
	fmt.Fprintf(&b, "- Department: %s\n", department)
	fmt.Fprintf(&b, "- Skills: %s\n", orDefault(strings.Join(nonEmpty(summary.Skills), ", "), notProvided))
	fmt.Fprintf(&b, "- Recent tasks: %s\n", orDefault(strings.Join(recentTaskCodes(summary.RecentTasks), ", "), noneGiven))
	fmt.Fprintf(&b, "- Department energy reduction goal: %s (%%).\n", reductionGoal(summary))

	b.WriteString("\nTask:\n")
	if refresh {
		fmt.Fprintf(&b, "- Generate a NEW set of up to %d sustainability tasks, different from the previous suggestions.\n", maxItems)
		fmt.Fprintf(&b, "- Every task must be specific to the %s department and match the user's skills.\n", department)
		b.WriteString("- Focus on actions that save energy and reduce emissions.\n")
	} else {
		fmt.Fprintf(&b, "- Generate up to %d sustainability tasks SPECIFIC to the %s department.\n", maxItems, department)
		b.WriteString("- Each task must be practical, doable in a corporate setting and relevant to that department.\n")
		b.WriteString("- Adapt the kind of action to the user's skills.\n")
		b.WriteString("- Focus on actions with real impact on energy use and emissions (kWh / CO2); the backend estimates the numbers.\n")
	}

	b.WriteString("\nOutput format:\n")
	b.WriteString("- One task per line, without numbering.\n")
	if refresh {
		b.WriteString("- Do not repeat tasks that were already suggested.")
	} else {
		b.WriteString("- No long explanations, describe the action itself.")
	}

	return b.String()
}

// Motivation builds the user prompt for a short motivational message.
func Motivation(estimate domain.ImpactEstimate, name, currency string) string {
	houses := Households(estimate.KWh)

	var b strings.Builder

	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orDefault(name, "You"))
	fmt.Fprintf(&b, "- Savings: %.2f kWh | %.2f kg CO2 | %s %.2f\n", estimate.KWh, estimate.CO2, currency, estimate.Cost)
	fmt.Fprintf(&b, "- Equivalence: about %d household(s)/day.\n", houses)

	b.WriteString("\nTask:\n")
	b.WriteString("- Write 1 short motivational message (1-2 sentences), positive and concrete.\n")
	b.WriteString("- Mention at least one metric (kWh, CO2 or cost).\n")
	if houses > 0 {
		b.WriteString("- Use the household equivalence.\n")
	}
	b.WriteString("- No emojis.\n")
	b.WriteString("\nReturn only the message.")

	return b.String()
}

// Households converts saved energy into whole household-days.
func Households(kwh float64) int {
	return int(math.Max(kwh/kWhPerHouseholdDay, 0))
}

func reductionGoal(summary domain.UserSummary) string {
	pct, ok := summary.ReductionGoal()
	if !ok {
		return notProvided
	}
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

func recentTaskCodes(tasks []domain.RecentTask) []string {
	codes := make([]string, 0, len(tasks))
	for _, task := range tasks {
		codes = append(codes, task.TaskCode)
	}
	return nonEmpty(codes)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
