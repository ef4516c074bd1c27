package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
)

func TestBuildTimeSeriesVentanaCompleta(t *testing.T) {
	uc := newTestAnalytics()
	series := uc.buildTimeSeries(nil)

	assert.Len(t, series, timeSeriesWindowDays)
	assert.Equal(t, "2025-06-01", series[0].Date)
	assert.Equal(t, "2025-06-30", series[len(series)-1].Date)
	for _, day := range series {
		assert.Zero(t, day.Visits)
		assert.Zero(t, day.Applications)
	}
}

func TestBuildTimeSeriesCuentaPorDia(t *testing.T) {
	uc := newTestAnalytics()
	day := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	events := []entities.TrackingEvent{
		trackedEvent("landing_page_view", "u1", day),
		trackedEvent("landing_page_view", "u2", day),
		// Mismo usuario dos veces el mismo día: cuenta una vez
		trackedEvent("landing_page_view", "u1", day.Add(2*time.Hour)),
		trackedEvent("application_submitted", "u1", day.Add(3*time.Hour)),
	}

	series := uc.buildTimeSeries(events)

	var target entities.TimeSeriesMetrics
	for _, d := range series {
		if d.Date == "2025-06-15" {
			target = d
		}
	}
	assert.Equal(t, 2, target.Visits)
	assert.Equal(t, 1, target.Applications)
}

func TestBuildTimeSeriesIgnoraEventosFueraDeVentana(t *testing.T) {
	uc := newTestAnalytics()
	events := []entities.TrackingEvent{
		trackedEvent("landing_page_view", "u1", testNow.AddDate(0, 0, -45)),
		trackedEvent("landing_page_view", "u2", time.Time{}), // fecha cero
	}

	series := uc.buildTimeSeries(events)
	for _, day := range series {
		assert.Zero(t, day.Visits)
	}
}

func TestBuildSourcePerformance(t *testing.T) {
	uc := newTestAnalytics()
	firstSeen := testNow.AddDate(0, 0, -10)
	events := []entities.TrackingEvent{
		// facebook/cpc: 2 sesiones, 1 convierte tras 10 días
		{EventType: "landing_page_view", SessionID: "s1", UtmSource: "facebook", UtmMedium: "cpc", CreatedAt: firstSeen},
		{EventType: "application_submitted", SessionID: "s1", UtmSource: "facebook", UtmMedium: "cpc", CreatedAt: testNow},
		{EventType: "landing_page_view", SessionID: "s2", UtmSource: "facebook", UtmMedium: "cpc", CreatedAt: firstSeen},
		// sin UTM: 1 sesión sin conversión
		{EventType: "landing_page_view", SessionID: "s3", CreatedAt: firstSeen},
	}

	perf := uc.buildSourcePerformance(events)
	assert.Len(t, perf, 2)

	// facebook/cpc convierte al 50%, va primero
	fb := perf[0]
	assert.Equal(t, "facebook", fb.Source)
	assert.Equal(t, "cpc", fb.Medium)
	assert.Equal(t, 2, fb.Sessions)
	assert.Equal(t, 1, fb.Conversions)
	assert.Equal(t, 50.0, fb.ConversionRate)
	if assert.NotNil(t, fb.AvgDaysToConvert) {
		assert.InDelta(t, 10.0, *fb.AvgDaysToConvert, 0.5)
	}

	direct := perf[1]
	assert.Equal(t, "direct", direct.Source)
	assert.Equal(t, "none", direct.Medium)
	assert.Zero(t, direct.Conversions)
	assert.Nil(t, direct.AvgDaysToConvert)
}

func TestBuildSourcePerformanceUsaUserIDComoFallback(t *testing.T) {
	uc := newTestAnalytics()
	events := []entities.TrackingEvent{
		{EventType: "landing_page_view", UserID: "u1", UtmSource: "google", CreatedAt: testNow.AddDate(0, 0, -1)},
	}

	perf := uc.buildSourcePerformance(events)
	assert.Len(t, perf, 1)
	assert.Equal(t, 1, perf[0].Sessions)
}

func constantSeries(days, visits, applications int) []entities.TimeSeriesMetrics {
	series := make([]entities.TimeSeriesMetrics, days)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i] = entities.TimeSeriesMetrics{
			Date:         base.AddDate(0, 0, i).Format("2006-01-02"),
			Visits:       visits,
			Applications: applications,
		}
	}
	return series
}

func TestGenerateForecastSerieCorta(t *testing.T) {
	uc := newTestAnalytics()
	forecast := uc.generateForecast(constantSeries(6, 10, 1), forecastHorizonDays)
	assert.Empty(t, forecast)
}

func TestGenerateForecastSerieConstante(t *testing.T) {
	uc := newTestAnalytics()
	forecast := uc.generateForecast(constantSeries(7, 10, 2), forecastHorizonDays)

	assert.Len(t, forecast, forecastHorizonDays)
	wantConfidence := []int{95, 90, 85, 80, 75, 70, 65}
	for i, f := range forecast {
		assert.Equal(t, 10, f.PredictedVisits)
		assert.Equal(t, 2, f.PredictedApplications)
		assert.Equal(t, wantConfidence[i], f.Confidence)
		assert.GreaterOrEqual(t, f.Confidence, 50)
		assert.LessOrEqual(t, f.Confidence, 95)
	}

	// Las fechas continúan a partir del último día de la serie
	assert.Equal(t, "2025-06-08", forecast[0].Date)
	assert.Equal(t, "2025-06-14", forecast[6].Date)
}

func TestGenerateForecastTendenciaNegativaPisoEnCero(t *testing.T) {
	uc := newTestAnalytics()
	series := make([]entities.TimeSeriesMetrics, 7)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i] = entities.TimeSeriesMetrics{
			Date:   base.AddDate(0, 0, i).Format("2006-01-02"),
			Visits: 60 - i*10, // 60, 50, ... 0
		}
	}

	forecast := uc.generateForecast(series, forecastHorizonDays)
	for _, f := range forecast {
		assert.GreaterOrEqual(t, f.PredictedVisits, 0,
			"la proyección nunca baja de cero (fecha %s)", f.Date)
	}
	// Con pendiente -10 la proyección inmediata ya es negativa
	assert.Zero(t, forecast[0].PredictedVisits)
}

func TestGenerateForecastTendenciaCreciente(t *testing.T) {
	uc := newTestAnalytics()
	series := make([]entities.TimeSeriesMetrics, 7)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i] = entities.TimeSeriesMetrics{
			Date:   base.AddDate(0, 0, i).Format("2006-01-02"),
			Visits: 10 + i*5, // pendiente exacta de 5
		}
	}

	forecast := uc.generateForecast(series, forecastHorizonDays)
	assert.Equal(t, 45, forecast[0].PredictedVisits)
	assert.Equal(t, 50, forecast[1].PredictedVisits)
}

func TestLinearRegression(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		wantSlope     float64
		wantIntercept float64
	}{
		{"vacía", nil, 0, 0},
		{"un punto", []float64{7}, 0, 7},
		{"constante", []float64{5, 5, 5, 5}, 0, 5},
		{"lineal exacta", []float64{2, 4, 6, 8}, 2, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slope, intercept := linearRegression(tc.values)
			assert.InDelta(t, tc.wantSlope, slope, 1e-9)
			assert.InDelta(t, tc.wantIntercept, intercept, 1e-9)
		})
	}
}

func TestBuildRecommendationsEscenarioSaludable(t *testing.T) {
	uc := newTestAnalytics()
	// Funnel sano: conversiones altas en cada etapa
	var events []entities.TrackingEvent
	at := testNow.AddDate(0, 0, -1)
	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("u%d", i)
		events = append(events,
			trackedEvent("landing_page_view", id, at),
			trackedEvent("registration_completed", id, at),
			trackedEvent("profile_completed", id, at),
			trackedEvent("application_started", id, at),
			trackedEvent("application_submitted", id, at),
		)
	}

	funnel := uc.buildFunnel(events)
	conversion := buildConversionMetrics(funnel)
	recommendations := uc.buildRecommendations(funnel, conversion, nil)

	assert.NotNil(t, recommendations)
	assert.Empty(t, recommendations)
}

func TestBuildRecommendationsConversionBaja(t *testing.T) {
	uc := newTestAnalytics()
	funnel := uc.buildFunnel(funnelScenario())
	conversion := buildConversionMetrics(funnel)

	recommendations := uc.buildRecommendations(funnel, conversion, nil)

	ids := make([]string, len(recommendations))
	for i, r := range recommendations {
		ids[i] = r.ID
	}
	// OverallConversion 0 < 2, RegistrationToProfile 50 < 60 y el envío
	// cae al 0% (drop-off 100): tres reglas se disparan en orden fijo
	assert.Equal(t, []string{"low-overall-conversion", "low-profile-completion", "funnel-bottleneck"}, ids)
	assert.Equal(t, "high", recommendations[0].Priority)
	if assert.NotNil(t, recommendations[0].Current) {
		assert.Equal(t, 0.0, *recommendations[0].Current)
	}
}

func TestBuildRecommendationsCampanas(t *testing.T) {
	uc := newTestAnalytics()
	campaigns := []entities.CampaignMetrics{
		{Campaign: "verano", Source: "facebook", Medium: "cpc", Visits: 100, Applications: 10, ConversionRate: 10.0},
		{Campaign: "vieja", Source: "display", Medium: "banner", Visits: 50, Applications: 0, ConversionRate: 0.0},
	}

	recommendations := uc.buildRecommendations(nil, entities.ConversionMetrics{}, campaigns)

	ids := make([]string, len(recommendations))
	for i, r := range recommendations {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"scale-top-campaign", "pause-underperformers"}, ids)
	assert.Contains(t, recommendations[0].Description, "verano")
}

func TestBuildRecommendationsSinTrafico(t *testing.T) {
	uc := newTestAnalytics()
	funnel := uc.buildFunnel(nil)
	conversion := buildConversionMetrics(funnel)

	// Sin tráfico no hay nada que recomendar
	recommendations := uc.buildRecommendations(funnel, conversion, nil)
	assert.Empty(t, recommendations)
}
