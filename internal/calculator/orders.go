package calculator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// GenerateOrders формирует строки заказа по парам (позиция, филиал).
// deficit = max(0, min_stock − current_stock); строка появляется только
// при deficit > 0, количество равно deficit × safetyFactor. Коэффициент
// меньше 1.0 не отвергается, но дает заказ без покрытия дефицита —
// вырожденная, хотя и допустимая конфигурация.
//
// Ошибки отдельных строк собираются в отдельный список и не прерывают
// расчет: ни один провал не остается невидимым.
func GenerateOrders(plans []model.ItemPlan, branches []string, safetyFactor float64) ([]model.OrderLine, []model.RowError) {
	lines := make([]model.OrderLine, 0)
	rowErrors := make([]model.RowError, 0)

	for i, plan := range plans {
		if strings.TrimSpace(plan.Key) == "" {
			rowErrors = append(rowErrors, model.RowError{
				Source: "orders",
				Row:    i,
				Reason: "пустой ключ позиции",
			})
			continue
		}

		for _, branch := range branches {
			minStock := plan.MinStock[branch]
			currentStock := plan.Stock[branch]
			if currentStock < 0 {
				rowErrors = append(rowErrors, model.RowError{
					Source: "orders",
					Row:    i,
					Key:    plan.Key,
					Reason: fmt.Sprintf("отрицательный остаток %g в филиале %s", currentStock, branch),
				})
				continue
			}

			deficit := minStock - currentStock
			if deficit <= 0 {
				continue
			}

			lines = append(lines, model.OrderLine{
				Key:             plan.Key,
				Category:        plan.Category,
				Branch:          branch,
				Ads:             plan.Ads[branch],
				MinStock:        minStock,
				CurrentStock:    currentStock,
				Deficit:         deficit,
				Quantity:        deficit * safetyFactor,
				PackageMultiple: 1,
				Price:           plan.Price,
				Value:           deficit * safetyFactor * plan.Price,
			})
		}
	}

	// стабильная сортировка: филиал ↑, категория ↑, количество ↓
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Branch != lines[j].Branch {
			return lines[i].Branch < lines[j].Branch
		}
		if lines[i].Category != lines[j].Category {
			return lines[i].Category < lines[j].Category
		}
		return lines[i].Quantity > lines[j].Quantity
	})

	return lines, rowErrors
}
