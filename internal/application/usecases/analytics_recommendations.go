package usecases

import (
	"fmt"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
)

// Umbrales de las reglas de recomendación. Valores de negocio acordados
// con el equipo de marketing; porcentajes.
const (
	lowOverallConversionThreshold = 2.0
	visitRegistrationThreshold    = 15.0
	profileCompletionThreshold    = 60.0
	scaleCampaignThreshold        = 5.0
	pauseCampaignMaxConversion    = 1.0
	pauseCampaignMinVisits        = 20
	bottleneckDropOffThreshold    = 50.0
)

// buildRecommendations evalúa el conjunto fijo y ordenado de reglas de
// umbral sobre las métricas calculadas. Las reglas son independientes:
// varias pueden dispararse en la misma corrida y el orden de salida es
// estable entre corridas.
func (uc *analyticsUseCase) buildRecommendations(
	funnel []entities.FunnelData,
	conversion entities.ConversionMetrics,
	campaigns []entities.CampaignMetrics,
) []entities.Recommendation {
	recommendations := []entities.Recommendation{}

	hasTraffic := len(funnel) > 0 && funnel[0].Count > 0

	// 1. Conversión general baja
	if hasTraffic && conversion.OverallConversion < lowOverallConversionThreshold {
		recommendations = append(recommendations, entities.Recommendation{
			ID:          "low-overall-conversion",
			Priority:    "high",
			Title:       "Conversión general baja",
			Description: fmt.Sprintf("Solo el %.1f%% de las visitas termina enviando solicitud.", conversion.OverallConversion),
			Impact:      "Cada punto de conversión adicional representa más solicitudes con el mismo tráfico.",
			Action:      "Revisa el flujo completo de valuación y solicitud en busca de fricción.",
			Metric:      "overallConversion",
			Current:     floatPtr(conversion.OverallConversion),
			Potential:   floatPtr(lowOverallConversionThreshold),
		})
	}

	// 2. Abandono alto entre visita y registro
	if hasTraffic && conversion.VisitToRegistration < visitRegistrationThreshold {
		recommendations = append(recommendations, entities.Recommendation{
			ID:          "high-landing-dropoff",
			Priority:    "high",
			Title:       "Abandono alto en la landing",
			Description: fmt.Sprintf("Solo el %.1f%% de las visitas se registra.", conversion.VisitToRegistration),
			Impact:      "La mayor parte del tráfico pagado se pierde antes del registro.",
			Action:      "Prueba variantes de la landing y simplifica el formulario de registro.",
			Metric:      "visitToRegistration",
			Current:     floatPtr(conversion.VisitToRegistration),
			Potential:   floatPtr(visitRegistrationThreshold),
		})
	}

	// 3. Pocos registros completan su perfil
	if len(funnel) > 1 && funnel[1].Count > 0 && conversion.RegistrationToProfile < profileCompletionThreshold {
		recommendations = append(recommendations, entities.Recommendation{
			ID:          "low-profile-completion",
			Priority:    "medium",
			Title:       "Baja completitud de perfil",
			Description: fmt.Sprintf("Solo el %.1f%% de los registros completa su perfil.", conversion.RegistrationToProfile),
			Impact:      "Sin perfil completo no hay perfilamiento bancario posible.",
			Action:      "Agrega recordatorios por correo/WhatsApp para completar el perfil.",
			Metric:      "registrationToProfile",
			Current:     floatPtr(conversion.RegistrationToProfile),
			Potential:   floatPtr(profileCompletionThreshold),
		})
	}

	// 4. La mejor campaña merece más presupuesto
	if len(campaigns) > 0 && campaigns[0].ConversionRate > scaleCampaignThreshold {
		top := campaigns[0]
		recommendations = append(recommendations, entities.Recommendation{
			ID:       "scale-top-campaign",
			Priority: "medium",
			Title:    "Escala tu mejor campaña",
			Description: fmt.Sprintf("La campaña %q (%s/%s) convierte al %.1f%%.",
				top.Campaign, top.Source, top.Medium, top.ConversionRate),
			Impact: "Más presupuesto en la campaña ganadora rinde mejor que repartirlo.",
			Action: "Incrementa gradualmente la inversión en esta campaña y monitorea el costo por solicitud.",
			Metric: "campaignConversionRate",
			Current: floatPtr(top.ConversionRate),
		})
	}

	// 5. Campañas con gasto y sin conversión
	underperformers := 0
	for _, c := range campaigns {
		if c.Visits > pauseCampaignMinVisits && c.ConversionRate < pauseCampaignMaxConversion {
			underperformers++
		}
	}
	if underperformers > 0 {
		recommendations = append(recommendations, entities.Recommendation{
			ID:          "pause-underperformers",
			Priority:    "medium",
			Title:       "Pausa campañas sin conversión",
			Description: fmt.Sprintf("%d campaña(s) con más de %d visitas convierten debajo del %.0f%%.", underperformers, pauseCampaignMinVisits, pauseCampaignMaxConversion),
			Impact:      "Ese presupuesto puede moverse a campañas que sí convierten.",
			Action:      "Pausa o rehaz la segmentación de las campañas señaladas.",
		})
	}

	// 6. Cuello de botella: la etapa con mayor abandono
	bottleneckIdx := -1
	var worstDropOff float64
	for i := 1; i < len(funnel); i++ {
		if funnel[i].DropOffRate > worstDropOff {
			worstDropOff = funnel[i].DropOffRate
			bottleneckIdx = i
		}
	}
	if bottleneckIdx > 0 && worstDropOff > bottleneckDropOffThreshold {
		stage := funnel[bottleneckIdx]
		recommendations = append(recommendations, entities.Recommendation{
			ID:          "funnel-bottleneck",
			Priority:    "high",
			Title:       "Cuello de botella en el funnel",
			Description: fmt.Sprintf("La etapa %q pierde al %.1f%% de los usuarios que llegan a ella.", stage.StageName, stage.DropOffRate),
			Impact:      "Es la mayor fuga individual de todo el funnel.",
			Action:      "Prioriza esta etapa en la siguiente iteración de producto.",
			Metric:      "dropOffRate",
			Current:     floatPtr(stage.DropOffRate),
		})
	}

	return recommendations
}

func floatPtr(v float64) *float64 {
	return &v
}
