package advisor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/skill4green/internal/advisor"
	"github.com/davidbz/skill4green/internal/catalog"
	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/mocks"
)

func newCalculator(t *testing.T) *domain.ImpactCalculator {
	t.Helper()

	c, err := catalog.New(nil)
	require.NoError(t, err)

	return domain.NewImpactCalculator(c, &domain.ImpactConfig{
		EmissionFactor: 0.084,
		Tariff:         0.95,
		CurrencySymbol: "R$",
	})
}

func recommendationRequest(maxItems int) advisor.RecommendationRequest {
	return advisor.RecommendationRequest{
		UserSummary: domain.UserSummary{
			User:       domain.UserInfo{ID: "u1", Name: "Ana"},
			Department: "IT",
		},
		MaxItems: maxItems,
	}
}

func TestService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("should parse bullets and truncate to max items", func(t *testing.T) {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().
			Generate(mock.Anything, mock.Anything, 0.5, 500).
			Return("- Turn off the AC after hours\n\n• Replace lamps with LEDs\n  - Enable monitor sleep  \n- Run a workshop").
			Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Recommend(ctx, recommendationRequest(3), false)

		require.Equal(t, []string{
			"Turn off the AC after hours",
			"Replace lamps with LEDs",
			"Enable monitor sleep",
		}, result.Items)
	})

	t.Run("should use higher temperature and refresh prompt on refresh", func(t *testing.T) {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().
			Generate(mock.Anything, mock.MatchedBy(func(messages []domain.Message) bool {
				return len(messages) == 2 &&
					messages[0].Role == domain.RoleSystem &&
					messages[1].Role == domain.RoleUser
			}), 0.6, 500).
			Return("New idea").
			Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Recommend(ctx, recommendationRequest(4), true)

		require.Equal(t, []string{"New idea"}, result.Items)
	})

	t.Run("should fall back when generation is empty", func(t *testing.T) {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("").Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Recommend(ctx, recommendationRequest(2), false)

		require.Equal(t, advisor.FallbackRecommendations[:2], result.Items)
	})

	t.Run("should fall back when only bullets are generated", func(t *testing.T) {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("-\n•\n  \n").Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Recommend(ctx, recommendationRequest(8), false)

		require.Equal(t, advisor.FallbackRecommendations, result.Items)
	})
}

func TestService_Motivate(t *testing.T) {
	ctx := context.Background()

	t.Run("should return generated message with computed impact", func(t *testing.T) {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().
			Generate(mock.Anything, mock.Anything, 0.4, 160).
			Return("  Great job, you saved 1 kWh!  ").
			Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Motivate(ctx, advisor.MotivationRequest{TaskCode: "LED_REPLACE", Executions: 2})

		require.Equal(t, "Great job, you saved 1 kWh!", result.Message)
		require.Equal(t, "LED_REPLACE", result.Computed.TaskCode)
		require.Equal(t, 2, result.Computed.Executions)
		require.InDelta(t, 1.0, result.Computed.KWh, 1e-9)
		require.InDelta(t, 0.084, result.Computed.CO2, 1e-9)
		require.InDelta(t, 0.95, result.Computed.Cost, 1e-9)
	})

	t.Run("should render template when generation fails", func(t *testing.T) {
		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("").Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Motivate(ctx, advisor.MotivationRequest{TaskCode: "LED_REPLACE", Executions: 2, Name: "Ana"})

		require.Equal(t,
			"Congratulations, Ana! By completing 'LED_REPLACE' 2 time(s), you saved about 1.00 kWh, "+
				"avoided 0.08 kg of CO2 and saved around R$ 0.95.",
			result.Message)
	})

	t.Run("should honor overrides", func(t *testing.T) {
		kwh, co2, cost := 10.0, 0.0, 3.5

		generator := mocks.NewMockGenerator(t)
		generator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("").Once()

		svc := advisor.NewService(generator, newCalculator(t))

		result := svc.Motivate(ctx, advisor.MotivationRequest{
			TaskCode:   "UNKNOWN",
			Executions: 1,
			KWh:        &kwh,
			CO2:        &co2,
			Cost:       &cost,
		})

		require.InDelta(t, 10.0, result.Computed.KWh, 1e-9)
		require.Zero(t, result.Computed.CO2)
		require.InDelta(t, 3.5, result.Computed.Cost, 1e-9)
		require.Equal(t,
			"Congratulations! By completing 'UNKNOWN' 1 time(s), you saved about 10.00 kWh, "+
				"avoided 0.00 kg of CO2 and saved around R$ 3.50.",
			result.Message)
	})
}

func TestParseItems(t *testing.T) {
	require.Empty(t, advisor.ParseItems(""))
	require.Equal(t, []string{"a", "b c"}, advisor.ParseItems("• a\r\n-  b c -\n"))
}
