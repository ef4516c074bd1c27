package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
)

var testNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestAnalytics() *analyticsUseCase {
	return &analyticsUseCase{
		now: func() time.Time { return testNow },
		loc: time.UTC,
	}
}

func trackedEvent(eventType, userID string, at time.Time) entities.TrackingEvent {
	return entities.TrackingEvent{
		EventType: eventType,
		UserID:    userID,
		CreatedAt: at,
	}
}

// funnelScenario genera el escenario de referencia: 100 visitas (u1..u100),
// 20 registros (u1..u20), 10 perfiles (u1..u10), 5 perfilamientos (u1..u5).
func funnelScenario() []entities.TrackingEvent {
	var events []entities.TrackingEvent
	at := testNow.AddDate(0, 0, -1)
	for i := 1; i <= 100; i++ {
		events = append(events, trackedEvent("landing_page_view", fmt.Sprintf("u%d", i), at))
	}
	for i := 1; i <= 20; i++ {
		events = append(events, trackedEvent("registration_completed", fmt.Sprintf("u%d", i), at))
	}
	for i := 1; i <= 10; i++ {
		events = append(events, trackedEvent("profile_completed", fmt.Sprintf("u%d", i), at))
	}
	for i := 1; i <= 5; i++ {
		events = append(events, trackedEvent("application_started", fmt.Sprintf("u%d", i), at))
	}
	return events
}

func TestBuildFunnelEscenarioCompleto(t *testing.T) {
	uc := newTestAnalytics()
	funnel := uc.buildFunnel(funnelScenario())

	assert.Len(t, funnel, 5)
	assert.Equal(t, 100, funnel[0].Count)
	assert.Equal(t, 20, funnel[1].Count)
	assert.Equal(t, 10, funnel[2].Count)
	assert.Equal(t, 5, funnel[3].Count)
	// Sin eventos de envío, la última etapa queda en cero
	assert.Equal(t, 0, funnel[4].Count)

	assert.Equal(t, 20.0, funnel[1].ConversionRate)
	assert.Equal(t, 80.0, funnel[1].DropOffRate)
	assert.Equal(t, 20.0, funnel[1].Percentage)
	assert.Equal(t, 100.0, funnel[0].ConversionRate)
}

func TestBuildFunnelGatingSecuencial(t *testing.T) {
	uc := newTestAnalytics()
	at := testNow.AddDate(0, 0, -1)

	// u1 recorre todo el funnel; u2 solo tiene el evento de envío (p. ej.
	// un reintento duplicado) y no debe contarse en la última etapa
	events := []entities.TrackingEvent{
		trackedEvent("landing_page_view", "u1", at),
		trackedEvent("registration_completed", "u1", at),
		trackedEvent("profile_completed", "u1", at),
		trackedEvent("application_started", "u1", at),
		trackedEvent("application_submitted", "u1", at),
		trackedEvent("application_submitted", "u2", at),
	}

	funnel := uc.buildFunnel(events)
	assert.Equal(t, 1, funnel[0].Count)
	assert.Equal(t, 1, funnel[4].Count)
}

func TestBuildFunnelMonotonoNoCreciente(t *testing.T) {
	uc := newTestAnalytics()
	events := funnelScenario()
	// Ruido: usuarios que brincan etapas
	at := testNow.AddDate(0, 0, -2)
	events = append(events,
		trackedEvent("profile_completed", "x1", at),
		trackedEvent("application_submitted", "x2", at),
		trackedEvent("registration_completed", "x3", at),
	)

	funnel := uc.buildFunnel(events)
	for i := 1; i < len(funnel); i++ {
		assert.LessOrEqual(t, funnel[i].Count, funnel[i-1].Count,
			"la etapa %d no puede superar a la etapa %d", i+1, i)
	}
}

func TestBuildFunnelSinDatos(t *testing.T) {
	uc := newTestAnalytics()
	funnel := uc.buildFunnel(nil)

	assert.Len(t, funnel, 5)
	for _, stage := range funnel {
		assert.Zero(t, stage.Count)
		assert.Zero(t, stage.Percentage)
		assert.Zero(t, stage.ConversionRate)
		assert.Zero(t, stage.DropOffRate)
	}
}

func TestBuildFunnelIgnoraEventosSinIdentidad(t *testing.T) {
	uc := newTestAnalytics()
	at := testNow.AddDate(0, 0, -1)
	events := []entities.TrackingEvent{
		{EventType: "landing_page_view", CreatedAt: at}, // sin user ni session
		trackedEvent("landing_page_view", "u1", at),
	}

	funnel := uc.buildFunnel(events)
	assert.Equal(t, 1, funnel[0].Count)
}

func TestClassifyEventUsaSessionIDComoFallback(t *testing.T) {
	e := entities.TrackingEvent{EventType: "landing_page_view", SessionID: "s1"}
	assert.Equal(t, stageVisit, classifyEvent(e))
	assert.Equal(t, "s1", e.Identity())
}

func TestClassifyEventPageViewDeLanding(t *testing.T) {
	assert.Equal(t, stageVisit, classifyEvent(entities.TrackingEvent{
		EventType: "page_view",
		SessionID: "s1",
		PageURL:   "https://trefa.mx/landing/seminuevos",
	}))
	assert.Equal(t, stageNone, classifyEvent(entities.TrackingEvent{
		EventType: "page_view",
		SessionID: "s1",
		PageURL:   "https://trefa.mx/vehiculos/mazda-3",
	}))
}

func TestBuildConversionMetrics(t *testing.T) {
	uc := newTestAnalytics()
	funnel := uc.buildFunnel(funnelScenario())
	conversion := buildConversionMetrics(funnel)

	assert.Equal(t, 20.0, conversion.VisitToRegistration)
	assert.Equal(t, 50.0, conversion.RegistrationToProfile)
	assert.Equal(t, 50.0, conversion.ProfileToBankProfiling)
	assert.Equal(t, 0.0, conversion.BankProfilingToApplication)
	assert.Equal(t, 0.0, conversion.OverallConversion)
}

func campaignEvent(eventType, userID, campaign, source, medium string) entities.TrackingEvent {
	return entities.TrackingEvent{
		EventType:   eventType,
		UserID:      userID,
		UtmCampaign: campaign,
		UtmSource:   source,
		UtmMedium:   medium,
		CreatedAt:   testNow.AddDate(0, 0, -1),
	}
}

func TestBuildCampaignMetricsDefaults(t *testing.T) {
	uc := newTestAnalytics()
	events := []entities.TrackingEvent{
		campaignEvent("landing_page_view", "u1", "", "", ""),
	}

	campaigns := uc.buildCampaignMetrics(events)

	assert.Len(t, campaigns, 1)
	assert.Equal(t, "organic", campaigns[0].Campaign)
	assert.Equal(t, "direct", campaigns[0].Source)
	assert.Equal(t, "none", campaigns[0].Medium)
}

func TestBuildCampaignMetricsSinGating(t *testing.T) {
	uc := newTestAnalytics()
	// u1 envía solicitud bajo la campaña B aunque su visita llegó por la
	// campaña A: las campañas cuentan etapas independientes, sin funnel
	events := []entities.TrackingEvent{
		campaignEvent("landing_page_view", "u1", "campA", "facebook", "cpc"),
		campaignEvent("application_submitted", "u1", "campB", "google", "cpc"),
	}

	campaigns := uc.buildCampaignMetrics(events)
	assert.Len(t, campaigns, 2)

	// Orden: solicitudes desc, así que campB va primero
	assert.Equal(t, "campB", campaigns[0].Campaign)
	assert.Equal(t, 1, campaigns[0].Applications)
	assert.Equal(t, 0, campaigns[0].Visits)
	assert.Equal(t, "campA", campaigns[1].Campaign)
	assert.Equal(t, 1, campaigns[1].Visits)
	assert.Equal(t, 0, campaigns[1].Applications)
}

func TestBuildCampaignMetricsCotaSuperior(t *testing.T) {
	uc := newTestAnalytics()
	var events []entities.TrackingEvent
	// 10 usuarios envían solicitud, algunos bajo dos campañas
	for i := 1; i <= 10; i++ {
		events = append(events, campaignEvent("application_submitted", fmt.Sprintf("u%d", i), "campA", "facebook", "cpc"))
	}
	for i := 1; i <= 4; i++ {
		events = append(events, campaignEvent("application_submitted", fmt.Sprintf("u%d", i), "campB", "google", "cpc"))
	}

	// Usuarios distintos que enviaron solicitud en total
	distinct := make(map[string]struct{})
	for _, e := range events {
		if classifyEvent(e) == stageApplicationSubmit {
			distinct[e.Identity()] = struct{}{}
		}
	}

	campaigns := uc.buildCampaignMetrics(events)
	sum := 0
	for _, c := range campaigns {
		sum += c.Applications
	}
	// Un usuario puede aparecer bajo varias campañas: la suma puede
	// superar el total distinto por campaña pero acá verificamos la cota
	// por grupo
	for _, c := range campaigns {
		assert.LessOrEqual(t, c.Applications, len(distinct))
	}
	assert.Equal(t, 14, sum)
	assert.Len(t, distinct, 10)
}

func TestComputeDashboardMetricsCompleto(t *testing.T) {
	uc := newTestAnalytics()
	events := funnelScenario()
	applications := []entities.FinancingApplication{
		{ID: "a1", UserID: "u1", CreatedAt: testNow.AddDate(0, 0, -1)},
		{ID: "a2", UserID: "u2", CreatedAt: testNow.AddDate(0, 0, -1)},
	}

	metrics := uc.ComputeDashboardMetrics(events, applications)

	assert.Len(t, metrics.Funnel, 5)
	assert.Len(t, metrics.TimeSeries, timeSeriesWindowDays)
	assert.Equal(t, len(events), metrics.TotalEvents)
	assert.Equal(t, 2, metrics.TotalApplications)
	assert.NotNil(t, metrics.Recommendations)
}

func TestExportSnapshot(t *testing.T) {
	uc := newTestAnalytics()
	metrics := uc.ComputeDashboardMetrics(nil, nil)

	from := testNow.AddDate(0, 0, -29)
	snapshot := uc.ExportSnapshot(metrics, from, testNow)

	assert.Equal(t, testNow, snapshot.GeneratedAt)
	assert.Equal(t, "2025-06-01", snapshot.DateRange.From)
	assert.Equal(t, "2025-06-30", snapshot.DateRange.To)
	assert.Equal(t, metrics.TotalEvents, snapshot.Metrics.TotalEvents)
}
