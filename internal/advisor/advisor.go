// Package advisor turns user profiles and completed tasks into recommendations
// and motivational messages, falling back to fixed text when generation fails.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
	"github.com/davidbz/skill4green/internal/prompt"
)

const (
	recommendTemperature = 0.5
	refreshTemperature   = 0.6
	recommendMaxTokens   = 500

	motivateTemperature = 0.4
	motivateMaxTokens   = 160

	// bulletCutset is stripped from both ends of every generated line.
	bulletCutset = "-• "
)

// FallbackRecommendations is returned when the model gives no usable lines.
var FallbackRecommendations = []string{
	"Switch off air conditioning and lights at the end of the workday.",
	"Enable sleep mode on monitors and idle computers.",
	"Replace old lamps in your area with LED bulbs.",
	"Unplug chargers and devices that are not in use.",
	"Share one energy saving tip with your team this week.",
}

// RecommendationRequest asks for tasks tailored to a user profile.
type RecommendationRequest struct {
	UserSummary domain.UserSummary `json:"user_summary"`
	MaxItems    int                `json:"max_items"`
}

// Recommendations is the list of suggested tasks.
type Recommendations struct {
	Items []string `json:"items"`
}

// MotivationRequest describes a completed task batch.
type MotivationRequest struct {
	TaskCode   string   `json:"task_code"`
	Executions int      `json:"executions"`
	Name       string   `json:"name,omitempty"`
	KWh        *float64 `json:"kwh,omitempty"`
	CO2        *float64 `json:"co2,omitempty"`
	Cost       *float64 `json:"cost,omitempty"`
}

// Computed echoes the impact figures behind a motivational message.
type Computed struct {
	TaskCode   string  `json:"task_code"`
	Executions int     `json:"executions"`
	KWh        float64 `json:"kwh"`
	CO2        float64 `json:"co2"`
	Cost       float64 `json:"cost"`
}

// Motivation is a motivational message and the numbers it was built from.
type Motivation struct {
	Message  string   `json:"message"`
	Computed Computed `json:"computed"`
}

// Service orchestrates prompts, generation and fallbacks.
type Service struct {
	generator  domain.Generator
	calculator *domain.ImpactCalculator
}

// NewService creates a new advisor service (DI constructor).
func NewService(generator domain.Generator, calculator *domain.ImpactCalculator) *Service {
	return &Service{
		generator:  generator,
		calculator: calculator,
	}
}

// Recommend returns at most req.MaxItems suggested tasks.
// A refresh asks the model to diverge from earlier suggestions.
func (s *Service) Recommend(ctx context.Context, req RecommendationRequest, refresh bool) Recommendations {
	logger := observability.FromContext(ctx)

	temperature := recommendTemperature
	if refresh {
		temperature = refreshTemperature
	}

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: prompt.System()},
		{Role: domain.RoleUser, Content: prompt.Recommendations(req.UserSummary, req.MaxItems, refresh)},
	}

	items := ParseItems(s.generator.Generate(ctx, messages, temperature, recommendMaxTokens))
	if len(items) == 0 {
		logger.Warn("no usable recommendations generated, using fallback",
			observability.Bool("refresh", refresh))
		items = append([]string(nil), FallbackRecommendations...)
	}

	return Recommendations{Items: truncate(items, req.MaxItems)}
}

// Motivate computes the impact of a task batch and phrases it as a short message.
func (s *Service) Motivate(ctx context.Context, req MotivationRequest) Motivation {
	estimate := s.calculator.Estimate(ctx, domain.ImpactRequest{
		TaskCode:   req.TaskCode,
		Executions: req.Executions,
		KWh:        req.KWh,
		CO2:        req.CO2,
		Cost:       req.Cost,
	})
	currency := s.calculator.CurrencySymbol()

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: prompt.System()},
		{Role: domain.RoleUser, Content: prompt.Motivation(estimate, req.Name, currency)},
	}

	message := strings.TrimSpace(s.generator.Generate(ctx, messages, motivateTemperature, motivateMaxTokens))
	if message == "" {
		observability.FromContext(ctx).Warn("no motivational message generated, using template",
			observability.String("task_code", req.TaskCode))
		message = FallbackMotivation(req.TaskCode, req.Executions, req.Name, currency, estimate)
	}

	return Motivation{
		Message: message,
		Computed: Computed{
			TaskCode:   req.TaskCode,
			Executions: req.Executions,
			KWh:        estimate.KWh,
			CO2:        estimate.CO2,
			Cost:       estimate.Cost,
		},
	}
}

// ParseItems splits generated text into one trimmed item per non-empty line.
func ParseItems(text string) []string {
	lines := strings.Split(text, "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		item := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), bulletCutset))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FallbackMotivation renders the template message used when generation fails.
func FallbackMotivation(taskCode string, executions int, name, currency string, estimate domain.ImpactEstimate) string {
	namePart := ""
	if name != "" {
		namePart = ", " + name
	}

	return fmt.Sprintf(
		"Congratulations%s! By completing '%s' %d time(s), you saved about %.2f kWh, "+
			"avoided %.2f kg of CO2 and saved around %s %.2f.",
		namePart, taskCode, executions, estimate.KWh, estimate.CO2, currency, estimate.Cost,
	)
}

func truncate(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
