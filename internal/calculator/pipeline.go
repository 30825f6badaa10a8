package calculator

// Конвейер расчета: анализ категорий → распределение полок →
// минимальные запасы → заказы → кратность упаковки. Данные текут строго
// вперед, ни один этап не зависит от результата последующего. Параметры
// передаются неизменяемым значением через вызовы этапов; скрытого
// состояния между запусками нет — повторный запуск с новыми параметрами
// пересчитывает все с канонического набора данных.

import (
	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// Params параметры одного запуска конвейера
type Params struct {
	DaysSupply       int            `json:"daysSupply"`   // 0 = использовать days_target позиций
	TotalShelves     int            `json:"totalShelves"` // бюджет полок
	SafetyFactor     float64        `json:"safetyFactor"`
	PackageMultiple  int            `json:"packageMultiple"`            // кратность по умолчанию, <=1 = без округления
	PackageMultiples map[string]int `json:"packageMultiples,omitempty"` // кратности отдельных позиций
}

// Run выполняет полный расчет над каноническим набором данных.
// Структурные ошибки (нет колонки категории, пустой набор) фатальны;
// построчные ошибки генерации попадают в Bundle.RowErrors.
func Run(ds model.Dataset, p Params) (model.Bundle, error) {
	stats, err := AnalyzeCategories(ds)
	if err != nil {
		return model.Bundle{}, err
	}

	allocations, err := AllocateShelves(p.TotalShelves, stats)
	if err != nil {
		return model.Bundle{}, err
	}

	plans := PlanMinimumStock(ds, p.DaysSupply)
	lines, rowErrors := GenerateOrders(plans, ds.Branches, p.SafetyFactor)
	lines = RoundToPackages(lines, effectiveMultiples(lines, p))

	return model.Bundle{
		Orders:      lines,
		Stats:       stats,
		Allocations: allocations,
		Branches:    SummarizeBranches(lines, ds.Branches),
		Summary:     Summarize(lines, ds.Branches),
		RowErrors:   rowErrors,
	}, nil
}

// effectiveMultiples сводит кратность по умолчанию и кратности
// отдельных позиций в одну таблицу по ключам строк заказа
func effectiveMultiples(lines []model.OrderLine, p Params) map[string]int {
	if p.PackageMultiple <= 1 && len(p.PackageMultiples) == 0 {
		return nil
	}
	out := make(map[string]int, len(lines))
	for _, line := range lines {
		if m, ok := p.PackageMultiples[line.Key]; ok {
			out[line.Key] = m
			continue
		}
		if p.PackageMultiple > 1 {
			out[line.Key] = p.PackageMultiple
		}
	}
	return out
}

// Summarize итоговые показатели по строкам заказа
func Summarize(lines []model.OrderLine, branches []string) model.Summary {
	summary := model.Summary{
		Positions:   len(lines),
		BranchCount: len(branches),
	}
	categories := make(map[string]struct{})
	for _, line := range lines {
		summary.TotalQuantity += line.Quantity
		summary.TotalValue += line.Value
		categories[line.Category] = struct{}{}
	}
	summary.CategoryCount = len(categories)
	return summary
}

// SummarizeBranches сводка заказа по каждому настроенному филиалу,
// в порядке набора филиалов
func SummarizeBranches(lines []model.OrderLine, branches []string) []model.BranchSummary {
	byBranch := make(map[string]*model.BranchSummary, len(branches))
	out := make([]model.BranchSummary, len(branches))
	for i, branch := range branches {
		out[i] = model.BranchSummary{Branch: branch}
		byBranch[branch] = &out[i]
	}
	for _, line := range lines {
		s, ok := byBranch[line.Branch]
		if !ok {
			continue
		}
		s.Positions++
		s.TotalQuantity += line.Quantity
		s.TotalValue += line.Value
	}
	return out
}
