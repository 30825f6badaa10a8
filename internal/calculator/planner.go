package calculator

// Планировщик минимальных запасов: неснижаемый запас филиала равен
// ADS филиала, умноженному на число дней снабжения.

import (
	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// DefaultDaysSupply дней снабжения по умолчанию, когда ни параметр,
// ни days_target позиции не заданы
const DefaultDaysSupply = 10

// PlanMinimumStock считает минимальные запасы по филиалам.
// daysSupply > 0 перекрывает days_target каждой позиции; иначе действует
// собственный days_target позиции, по умолчанию DefaultDaysSupply.
// Филиалы — фиксированный упорядоченный набор; отсутствующие данные
// филиала трактуются как ads = 0. Округлений на этом шаге нет.
func PlanMinimumStock(ds model.Dataset, daysSupply int) []model.ItemPlan {
	plans := make([]model.ItemPlan, 0, len(ds.Items))
	for _, item := range ds.Items {
		days := float64(daysSupply)
		if days <= 0 {
			days = item.DaysTarget
			if days <= 0 {
				days = DefaultDaysSupply
			}
		}

		minStock := make(map[string]float64, len(ds.Branches))
		var totalMin, totalAds float64
		for _, branch := range ds.Branches {
			ads := item.Ads[branch]
			minStock[branch] = ads * days
			totalMin += ads * days
			totalAds += ads
		}

		plans = append(plans, model.ItemPlan{
			Item:          item,
			DaysSupply:    days,
			MinStock:      minStock,
			TotalMinStock: totalMin,
			TotalAds:      totalAds,
		})
	}
	return plans
}
