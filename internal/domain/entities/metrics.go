package entities

import "time"

// FunnelData es el resultado de una etapa del funnel secuencial. El conteo
// de la etapa n siempre es un subconjunto del conjunto de usuarios de la
// etapa n-1 (gating estricto), por lo que los conteos nunca crecen.
type FunnelData struct {
	Stage          int     `json:"stage"`
	StageName      string  `json:"stageName"`
	Count          int     `json:"count"`
	Percentage     float64 `json:"percentage"`     // relativo a la etapa 1
	ConversionRate float64 `json:"conversionRate"` // relativo a la etapa anterior
	DropOffRate    float64 `json:"dropOffRate"`
}

// ConversionMetrics son las tasas nombradas derivadas de los cinco conteos
// del funnel, cada una en 0 cuando su denominador es 0.
type ConversionMetrics struct {
	VisitToRegistration        float64 `json:"visitToRegistration"`
	RegistrationToProfile      float64 `json:"registrationToProfile"`
	ProfileToBankProfiling     float64 `json:"profileToBankProfiling"`
	BankProfilingToApplication float64 `json:"bankProfilingToApplication"`
	OverallConversion          float64 `json:"overallConversion"`
}

// CampaignMetrics agrupa conteos de usuarios distintos por la tripleta
// (utm_campaign, utm_source, utm_medium). A diferencia del funnel, los
// conteos por etapa son independientes: un usuario puede convertir por el
// toque de otra campaña, así que aquí no se aplica gating secuencial.
type CampaignMetrics struct {
	Campaign         string  `json:"campaign"`
	Source           string  `json:"source"`
	Medium           string  `json:"medium"`
	Visits           int     `json:"visits"`
	Registrations    int     `json:"registrations"`
	ProfileCompletes int     `json:"profileCompletes"`
	Applications     int     `json:"applications"`
	ConversionRate   float64 `json:"conversionRate"`
}

// TimeSeriesMetrics es el corte de un día calendario con los conteos de
// usuarios distintos por etapa. Los días sin actividad aparecen en cero.
type TimeSeriesMetrics struct {
	Date             string `json:"date"` // yyyy-MM-dd
	Visits           int    `json:"visits"`
	Registrations    int    `json:"registrations"`
	ProfileCompletes int    `json:"profileCompletes"`
	Applications     int    `json:"applications"`
}

// SourcePerformance mide la conversión por (utm_source, utm_medium) a
// nivel de sesión, con el tiempo promedio a conversión en días.
type SourcePerformance struct {
	Source           string   `json:"source"`
	Medium           string   `json:"medium"`
	Sessions         int      `json:"sessions"`
	Conversions      int      `json:"conversions"`
	ConversionRate   float64  `json:"conversionRate"`
	AvgDaysToConvert *float64 `json:"avgDaysToConvert,omitempty"`
}

// ForecastData es una proyección ingenua de tendencia por regresión lineal.
// Confidence decae con el horizonte y NO es una medida estadística real.
type ForecastData struct {
	Date                  string `json:"date"`
	PredictedVisits       int    `json:"predictedVisits"`
	PredictedApplications int    `json:"predictedApplications"`
	Confidence            int    `json:"confidence"`
}

// Recommendation es una alerta accionable producida por las reglas de
// umbral sobre las métricas calculadas. Las reglas son independientes y
// más de una puede dispararse a la vez.
type Recommendation struct {
	ID          string   `json:"id"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Action      string   `json:"action"`
	Metric      string   `json:"metric,omitempty"`
	Current     *float64 `json:"current,omitempty"`
	Potential   *float64 `json:"potential,omitempty"`
}

// TrackingDashboardMetrics es la estructura completa que consume el
// dashboard. Se recalcula desde cero en cada llamada; nada se persiste.
type TrackingDashboardMetrics struct {
	Funnel            []FunnelData        `json:"funnel"`
	Conversion        ConversionMetrics   `json:"conversion"`
	Campaigns         []CampaignMetrics   `json:"campaigns"`
	TimeSeries        []TimeSeriesMetrics `json:"timeSeries"`
	SourcePerformance []SourcePerformance `json:"sourcePerformance"`
	Forecast          []ForecastData      `json:"forecast"`
	Recommendations   []Recommendation    `json:"recommendations"`
	TotalEvents       int                 `json:"totalEvents"`
	TotalApplications int                 `json:"totalApplications"`
}

// DashboardSnapshot es el formato de exportación JSON del dashboard.
type DashboardSnapshot struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	DateRange   SnapshotDateRange        `json:"dateRange"`
	Metrics     TrackingDashboardMetrics `json:"metrics"`
}

type SnapshotDateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}
