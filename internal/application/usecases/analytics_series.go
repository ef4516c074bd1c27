package usecases

import (
	"math"
	"sort"
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"github.com/marianomoralesr/ultima-sub006/internal/utils"
)

// buildTimeSeries corta los eventos por día calendario sobre la ventana
// móvil de 30 días, con todos los días pre-inicializados en cero para que
// los huecos de actividad se vean como ceros y no como días faltantes.
// Un evento sin fecha válida se brinca; nunca se truena el cálculo.
func (uc *analyticsUseCase) buildTimeSeries(events []entities.TrackingEvent) []entities.TimeSeriesMetrics {
	now := uc.now().In(uc.loc)
	from := now.AddDate(0, 0, -(timeSeriesWindowDays - 1))
	dates := utils.GenerateDateRange(from, now)

	type daySets struct {
		visits        map[string]struct{}
		registrations map[string]struct{}
		profiles      map[string]struct{}
		applications  map[string]struct{}
	}
	days := make(map[string]*daySets, len(dates))
	for _, d := range dates {
		days[d] = &daySets{
			visits:        make(map[string]struct{}),
			registrations: make(map[string]struct{}),
			profiles:      make(map[string]struct{}),
			applications:  make(map[string]struct{}),
		}
	}

	for _, e := range events {
		if e.CreatedAt.IsZero() {
			continue
		}
		stage := classifyEvent(e)
		if stage == stageNone {
			continue
		}
		day, ok := days[e.CreatedAt.In(uc.loc).Format("2006-01-02")]
		if !ok {
			// Fuera de la ventana
			continue
		}

		id := e.Identity()
		switch stage {
		case stageVisit:
			day.visits[id] = struct{}{}
		case stageRegistration:
			day.registrations[id] = struct{}{}
		case stageProfile:
			day.profiles[id] = struct{}{}
		case stageApplicationSubmit:
			day.applications[id] = struct{}{}
		}
	}

	// GenerateDateRange ya viene en orden ascendente
	result := make([]entities.TimeSeriesMetrics, len(dates))
	for i, d := range dates {
		result[i] = entities.TimeSeriesMetrics{
			Date:             d,
			Visits:           len(days[d].visits),
			Registrations:    len(days[d].registrations),
			ProfileCompletes: len(days[d].profiles),
			Applications:     len(days[d].applications),
		}
	}
	return result
}

type sessionRecord struct {
	firstSeen time.Time
	converted bool
}

// buildSourcePerformance agrupa por (utm_source, utm_medium) a nivel de
// sesión: una entrada por sesión distinta con su primer timestamp visto y
// si en algún momento envió solicitud.
func (uc *analyticsUseCase) buildSourcePerformance(events []entities.TrackingEvent) []entities.SourcePerformance {
	type sourceKey struct {
		source string
		medium string
	}
	groups := make(map[sourceKey]map[string]*sessionRecord)

	for _, e := range events {
		sessionID := e.SessionID
		if sessionID == "" {
			sessionID = e.UserID
		}
		if sessionID == "" {
			continue
		}

		key := sourceKey{
			source: defaultIfEmpty(e.UtmSource, "direct"),
			medium: defaultIfEmpty(e.UtmMedium, "none"),
		}
		sessions, ok := groups[key]
		if !ok {
			sessions = make(map[string]*sessionRecord)
			groups[key] = sessions
		}

		rec, ok := sessions[sessionID]
		if !ok {
			rec = &sessionRecord{firstSeen: e.CreatedAt}
			sessions[sessionID] = rec
		}
		if !e.CreatedAt.IsZero() && (rec.firstSeen.IsZero() || e.CreatedAt.Before(rec.firstSeen)) {
			rec.firstSeen = e.CreatedAt
		}
		if classifyEvent(e) == stageApplicationSubmit {
			rec.converted = true
		}
	}

	now := uc.now()
	result := make([]entities.SourcePerformance, 0, len(groups))
	for key, sessions := range groups {
		total := len(sessions)
		converted := 0
		var daysSum float64
		var daysCount int
		for _, rec := range sessions {
			if !rec.converted {
				continue
			}
			converted++
			if !rec.firstSeen.IsZero() {
				daysSum += now.Sub(rec.firstSeen).Hours() / 24
				daysCount++
			}
		}

		perf := entities.SourcePerformance{
			Source:         key.source,
			Medium:         key.medium,
			Sessions:       total,
			Conversions:    converted,
			ConversionRate: safeRate(converted, total),
		}
		// El tiempo promedio a conversión solo aplica con conversiones
		if daysCount > 0 {
			avg := round1(daysSum / float64(daysCount))
			perf.AvgDaysToConvert = &avg
		}
		result = append(result, perf)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ConversionRate != result[j].ConversionRate {
			return result[i].ConversionRate > result[j].ConversionRate
		}
		if result[i].Sessions != result[j].Sessions {
			return result[i].Sessions > result[j].Sessions
		}
		if result[i].Source != result[j].Source {
			return result[i].Source < result[j].Source
		}
		return result[i].Medium < result[j].Medium
	})
	return result
}

// generateForecast proyecta visitas y solicitudes con una regresión lineal
// de mínimos cuadrados sobre la serie temporal. Es una extrapolación
// ingenua de tendencia: confidence decae 5 puntos por día de horizonte
// (95 → 50) y no debe leerse como medida estadística.
func (uc *analyticsUseCase) generateForecast(timeSeries []entities.TimeSeriesMetrics, daysToForecast int) []entities.ForecastData {
	if len(timeSeries) < 7 {
		return []entities.ForecastData{}
	}

	visits := make([]float64, len(timeSeries))
	applications := make([]float64, len(timeSeries))
	for i, ts := range timeSeries {
		visits[i] = float64(ts.Visits)
		applications[i] = float64(ts.Applications)
	}

	visitSlope, visitIntercept := linearRegression(visits)
	appSlope, appIntercept := linearRegression(applications)

	lastDate, err := time.ParseInLocation("2006-01-02", timeSeries[len(timeSeries)-1].Date, uc.loc)
	if err != nil {
		return []entities.ForecastData{}
	}

	n := len(timeSeries)
	result := make([]entities.ForecastData, daysToForecast)
	for i := 0; i < daysToForecast; i++ {
		x := float64(n + i)
		confidence := 95 - 5*i
		if confidence < 50 {
			confidence = 50
		}
		result[i] = entities.ForecastData{
			Date:                  lastDate.AddDate(0, 0, i+1).Format("2006-01-02"),
			PredictedVisits:       projectValue(visitSlope, visitIntercept, x),
			PredictedApplications: projectValue(appSlope, appIntercept, x),
			Confidence:            confidence,
		}
	}
	return result
}

// linearRegression calcula pendiente e intercepto por la forma cerrada de
// mínimos cuadrados con x = índice de la serie.
func linearRegression(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func projectValue(slope, intercept, x float64) int {
	v := math.Round(slope*x + intercept)
	if v < 0 {
		return 0
	}
	return int(v)
}
