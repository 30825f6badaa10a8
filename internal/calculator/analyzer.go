package calculator

import (
	"math"
	"sort"
	"strings"

	"github.com/CronusSR/Autosort-tovar/internal/model"
	"github.com/CronusSR/Autosort-tovar/internal/parser"
)

// round2 округление до 2 знаков, половина от нуля.
// Одно правило для всех процентов расчета.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnalyzeCategories считает статистику по категориям.
// Требуется колонка категории в источнике; позиции с пустой категорией
// в группировку не попадают. При нулевом числе позиций либо нулевом
// суммарном ADS производные проценты определены как 0 — деления на ноль нет.
func AnalyzeCategories(ds model.Dataset) ([]model.CategoryStat, error) {
	if !ds.HasField(parser.FieldCategory) {
		return nil, &model.MissingColumnError{Column: parser.FieldCategory}
	}
	if len(ds.Items) == 0 {
		return nil, model.ErrEmptyDataset
	}

	type group struct {
		count    int
		totalAds float64
	}
	groups := make(map[string]*group)
	totalItems := 0
	var grandTotalAds float64

	for _, item := range ds.Items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			continue
		}
		g, ok := groups[category]
		if !ok {
			g = &group{}
			groups[category] = g
		}
		ads := item.AdsTotal(ds.Branches)
		g.count++
		g.totalAds += ads
		totalItems++
		grandTotalAds += ads
	}

	stats := make([]model.CategoryStat, 0, len(groups))
	for category, g := range groups {
		stat := model.CategoryStat{
			Category:  category,
			ItemCount: g.count,
			TotalAds:  round2(g.totalAds),
			AvgAds:    round2(g.totalAds / float64(g.count)),
		}
		if totalItems > 0 {
			stat.Percentage = round2(float64(g.count) / float64(totalItems) * 100)
		}
		if grandTotalAds > 0 {
			stat.AdsPercentage = round2(g.totalAds / grandTotalAds * 100)
		}
		stats = append(stats, stat)
	}

	// стабильный порядок: по убыванию доли продаж, затем по имени
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AdsPercentage != stats[j].AdsPercentage {
			return stats[i].AdsPercentage > stats[j].AdsPercentage
		}
		return stats[i].Category < stats[j].Category
	})

	return stats, nil
}
