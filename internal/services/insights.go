package services

import "github.com/pregoway/pregoway/internal/i18n"

// WeeklyInsightKey picks the guidance band for a gestational week.
func WeeklyInsightKey(week int, known bool) string {
	switch {
	case !known:
		return "insight.unknown"
	case week < 13:
		return "insight.first_trimester"
	case week < 27:
		return "insight.second_trimester"
	case week < 36:
		return "insight.third_trimester"
	default:
		return "insight.term"
	}
}

// WeeklyInsight renders the localized tip for the patient's current week.
func WeeklyInsight(manager *i18n.Manager, language string, week int, known bool) string {
	key := WeeklyInsightKey(week, known)
	if !known {
		return manager.Translate(language, key)
	}
	return manager.Translatef(language, key, week)
}

// RiskLabel localizes a risk level for display.
func RiskLabel(manager *i18n.Manager, language string, level string) string {
	return manager.Translate(language, "risk."+level)
}
