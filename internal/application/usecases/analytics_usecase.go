package usecases

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"github.com/marianomoralesr/ultima-sub006/internal/utils"
)

const (
	timeSeriesWindowDays = 30
	forecastHorizonDays  = 7
)

// funnelStage clasifica un evento dentro del funnel de cinco etapas.
type funnelStage int

const (
	stageNone funnelStage = iota
	stageVisit
	stageRegistration
	stageProfile
	stageApplicationStart
	stageApplicationSubmit
)

var stageNames = map[funnelStage]string{
	stageVisit:             "Visita a landing",
	stageRegistration:      "Registro",
	stageProfile:           "Perfil completo",
	stageApplicationStart:  "Perfilamiento bancario",
	stageApplicationSubmit: "Solicitud enviada",
}

// AnalyticsUseCase calcula las métricas del dashboard de tracking. Es una
// tubería de funciones puras: eventos y solicitudes entran, la estructura
// de métricas sale; no hay I/O ni estado entre llamadas.
type AnalyticsUseCase interface {
	ComputeDashboardMetrics(events []entities.TrackingEvent, applications []entities.FinancingApplication) entities.TrackingDashboardMetrics
	ExportSnapshot(metrics entities.TrackingDashboardMetrics, from, to time.Time) entities.DashboardSnapshot
}

type analyticsUseCase struct {
	now func() time.Time
	loc *time.Location
}

func NewAnalyticsUseCase() *analyticsUseCase {
	return &analyticsUseCase{
		now: time.Now,
		loc: utils.GetReportingLocation(),
	}
}

// ComputeDashboardMetrics arma el dashboard completo a partir de los
// eventos y solicitudes ya traídos por la capa de datos. El filtrado por
// rango de fechas es responsabilidad del caller.
func (uc *analyticsUseCase) ComputeDashboardMetrics(events []entities.TrackingEvent, applications []entities.FinancingApplication) entities.TrackingDashboardMetrics {
	funnel := uc.buildFunnel(events)
	conversion := buildConversionMetrics(funnel)
	campaigns := uc.buildCampaignMetrics(events)
	timeSeries := uc.buildTimeSeries(events)
	forecast := uc.generateForecast(timeSeries, forecastHorizonDays)

	return entities.TrackingDashboardMetrics{
		Funnel:            funnel,
		Conversion:        conversion,
		Campaigns:         campaigns,
		TimeSeries:        timeSeries,
		SourcePerformance: uc.buildSourcePerformance(events),
		Forecast:          forecast,
		Recommendations:   uc.buildRecommendations(funnel, conversion, campaigns),
		TotalEvents:       len(events),
		TotalApplications: len(applications),
	}
}

// ExportSnapshot empaqueta las métricas para exportación JSON.
func (uc *analyticsUseCase) ExportSnapshot(metrics entities.TrackingDashboardMetrics, from, to time.Time) entities.DashboardSnapshot {
	return entities.DashboardSnapshot{
		GeneratedAt: uc.now(),
		DateRange: entities.SnapshotDateRange{
			From: from.Format("2006-01-02"),
			To:   to.Format("2006-01-02"),
		},
		Metrics: metrics,
	}
}

// classifyEvent es el clasificador compartido por las cinco agregaciones
// (funnel, conversión, campañas, serie temporal, fuentes), para que los
// predicados no diverjan entre ellas. Los tipos de evento aceptan los
// alias que el frontend ha emitido en distintas versiones.
func classifyEvent(e entities.TrackingEvent) funnelStage {
	if e.Identity() == "" {
		return stageNone
	}
	switch e.EventType {
	case "landing_page_view":
		return stageVisit
	case "page_view":
		if isLandingURL(e.PageURL) {
			return stageVisit
		}
		return stageNone
	case "registration_completed", "sign_up":
		return stageRegistration
	case "profile_completed", "profile_complete":
		return stageProfile
	case "application_started", "bank_profiling_started":
		return stageApplicationStart
	case "application_submitted", "application_submit":
		return stageApplicationSubmit
	default:
		return stageNone
	}
}

// isLandingURL reconoce las URLs de landing del portal.
func isLandingURL(pageURL string) bool {
	if pageURL == "" {
		return false
	}
	if strings.Contains(pageURL, "landing") {
		return true
	}
	// La raíz del sitio también cuenta como landing
	trimmed := strings.TrimSuffix(pageURL, "/")
	return trimmed == "" || !strings.Contains(strings.TrimPrefix(strings.TrimPrefix(trimmed, "https://"), "http://"), "/")
}

// buildFunnel construye el funnel secuencial de cinco etapas. Primero se
// arman los conjuntos crudos de usuarios por etapa y después se intersectan
// en cadena: la etapa k solo cuenta usuarios que ya están en la etapa k-1.
// Eso garantiza conteos monótonamente no crecientes y evita contar a un
// usuario que brincó directo a un evento tardío (p. ej. un envío duplicado).
func (uc *analyticsUseCase) buildFunnel(events []entities.TrackingEvent) []entities.FunnelData {
	stages := []funnelStage{stageVisit, stageRegistration, stageProfile, stageApplicationStart, stageApplicationSubmit}

	raw := make([]map[string]struct{}, len(stages))
	for i := range raw {
		raw[i] = make(map[string]struct{})
	}

	for _, e := range events {
		stage := classifyEvent(e)
		if stage == stageNone {
			continue
		}
		for i, s := range stages {
			if s == stage {
				raw[i][e.Identity()] = struct{}{}
				break
			}
		}
	}

	// Intersección secuencial
	effective := make([]map[string]struct{}, len(stages))
	effective[0] = raw[0]
	for i := 1; i < len(stages); i++ {
		effective[i] = make(map[string]struct{})
		for id := range raw[i] {
			if _, ok := effective[i-1][id]; ok {
				effective[i][id] = struct{}{}
			}
		}
	}

	base := len(effective[0])
	result := make([]entities.FunnelData, len(stages))
	for i, s := range stages {
		count := len(effective[i])

		var percentage, conversionRate, dropOffRate float64
		if base > 0 {
			percentage = round1(float64(count) / float64(base) * 100)
		}

		prev := base
		if i > 0 {
			prev = len(effective[i-1])
		}
		if prev > 0 {
			conversionRate = round1(float64(count) / float64(prev) * 100)
			dropOffRate = round1(100 - conversionRate)
		}

		result[i] = entities.FunnelData{
			Stage:          i + 1,
			StageName:      stageNames[s],
			Count:          count,
			Percentage:     percentage,
			ConversionRate: conversionRate,
			DropOffRate:    dropOffRate,
		}
	}
	return result
}

// buildConversionMetrics deriva las tasas nombradas de los conteos del funnel.
func buildConversionMetrics(funnel []entities.FunnelData) entities.ConversionMetrics {
	counts := make([]int, len(funnel))
	for i, f := range funnel {
		counts[i] = f.Count
	}
	return entities.ConversionMetrics{
		VisitToRegistration:        safeRate(counts[1], counts[0]),
		RegistrationToProfile:      safeRate(counts[2], counts[1]),
		ProfileToBankProfiling:     safeRate(counts[3], counts[2]),
		BankProfilingToApplication: safeRate(counts[4], counts[3]),
		OverallConversion:          safeRate(counts[4], counts[0]),
	}
}

type campaignKey struct {
	campaign string
	source   string
	medium   string
}

type campaignSets struct {
	visits        map[string]struct{}
	registrations map[string]struct{}
	profiles      map[string]struct{}
	applications  map[string]struct{}
}

// buildCampaignMetrics agrupa por (utm_campaign, utm_source, utm_medium)
// con conjuntos de usuarios distintos POR ETAPA INDEPENDIENTE: aquí no se
// re-intersecta como en el funnel, porque un usuario puede convertir por
// el toque de otra campaña y gatearlo lo borraría de la que lo trajo.
func (uc *analyticsUseCase) buildCampaignMetrics(events []entities.TrackingEvent) []entities.CampaignMetrics {
	groups := make(map[campaignKey]*campaignSets)

	for _, e := range events {
		stage := classifyEvent(e)
		if stage == stageNone {
			continue
		}

		key := campaignKey{
			campaign: defaultIfEmpty(e.UtmCampaign, "organic"),
			source:   defaultIfEmpty(e.UtmSource, "direct"),
			medium:   defaultIfEmpty(e.UtmMedium, "none"),
		}
		sets, ok := groups[key]
		if !ok {
			sets = &campaignSets{
				visits:        make(map[string]struct{}),
				registrations: make(map[string]struct{}),
				profiles:      make(map[string]struct{}),
				applications:  make(map[string]struct{}),
			}
			groups[key] = sets
		}

		id := e.Identity()
		switch stage {
		case stageVisit:
			sets.visits[id] = struct{}{}
		case stageRegistration:
			sets.registrations[id] = struct{}{}
		case stageProfile:
			sets.profiles[id] = struct{}{}
		case stageApplicationSubmit:
			sets.applications[id] = struct{}{}
		}
	}

	result := make([]entities.CampaignMetrics, 0, len(groups))
	for key, sets := range groups {
		result = append(result, entities.CampaignMetrics{
			Campaign:         key.campaign,
			Source:           key.source,
			Medium:           key.medium,
			Visits:           len(sets.visits),
			Registrations:    len(sets.registrations),
			ProfileCompletes: len(sets.profiles),
			Applications:     len(sets.applications),
			ConversionRate:   safeRate(len(sets.applications), len(sets.visits)),
		})
	}

	// Orden determinista: solicitudes desc, después visitas y llave
	sort.Slice(result, func(i, j int) bool {
		if result[i].Applications != result[j].Applications {
			return result[i].Applications > result[j].Applications
		}
		if result[i].Visits != result[j].Visits {
			return result[i].Visits > result[j].Visits
		}
		if result[i].Campaign != result[j].Campaign {
			return result[i].Campaign < result[j].Campaign
		}
		if result[i].Source != result[j].Source {
			return result[i].Source < result[j].Source
		}
		return result[i].Medium < result[j].Medium
	})
	return result
}

func defaultIfEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// safeRate calcula num/den*100 redondeado a 1 decimal, 0 si den es 0.
func safeRate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
