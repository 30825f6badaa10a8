package exporter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

const (
	sheetAllOrders  = "Все_заказы"
	sheetBranches   = "Сводка_филиалов"
	sheetCategories = "Анализ_категорий"
	sheetShelves    = "Распределение_полок"
	sheetTotals     = "Общая_сводка"
	branchSheetStem = "Заказы_"
)

// Exporter собирает книгу результата расчета: общий лист заказов,
// лист на каждый филиал и сводные листы.
type Exporter struct{}

// NewExporter создает экспортер
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export строит книгу из результата расчета
func (e *Exporter) Export(bundle model.Bundle) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := e.fillOrderSheet(f, sheetAllOrders, bundle.Orders); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, branch := range bundle.Branches {
		name := branchSheetName(branch.Branch)
		if err := e.fillOrderSheet(f, name, bundle.OrdersByBranch(branch.Branch)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	if err := e.fillBranchSummary(f, bundle.Branches); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillCategoryAnalysis(f, bundle.Stats); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillShelfAllocation(f, bundle.Allocations); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillTotals(f, bundle.Summary); err != nil {
		_ = f.Close()
		return nil, err
	}

	// первый лист книги — общий список заказов
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("удалить лист по умолчанию: %w", err)
	}
	index, err := f.GetSheetIndex(sheetAllOrders)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

// запрещенные в имени листа символы; лимит длины — 31 символ
var sheetNameSanitizer = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", "\\", "_",
)

// branchSheetName имя листа филиала, приведенное к ограничениям xlsx.
// Имя филиала задается в конфигурации и может быть произвольным.
func branchSheetName(branch string) string {
	name := sheetNameSanitizer.Replace(branchSheetStem + branch)
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

func (e *Exporter) fillOrderSheet(f *excelize.File, sheet string, orders []model.OrderLine) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("создать лист %s: %w", sheet, err)
	}

	headers := []interface{}{
		"Товар", "Категория", "Филиал", "ADS", "Мин. запас",
		"Остаток", "Дефицит", "Количество", "Кратность", "Цена", "Сумма",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("записать заголовки %s: %w", sheet, err)
	}

	for i, o := range orders {
		row := []interface{}{
			o.Key, o.Category, o.Branch, o.Ads, o.MinStock,
			o.CurrentStock, o.Deficit, o.Quantity, o.PackageMultiple, o.Price, o.Value,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("записать строку %d в %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

func (e *Exporter) fillBranchSummary(f *excelize.File, branches []model.BranchSummary) error {
	if _, err := f.NewSheet(sheetBranches); err != nil {
		return fmt.Errorf("создать лист %s: %w", sheetBranches, err)
	}

	headers := []interface{}{"Филиал", "Позиций", "Количество", "Сумма"}
	if err := f.SetSheetRow(sheetBranches, "A1", &headers); err != nil {
		return err
	}
	for i, b := range branches {
		row := []interface{}{b.Branch, b.Positions, b.TotalQuantity, b.TotalValue}
		if err := f.SetSheetRow(sheetBranches, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillCategoryAnalysis(f *excelize.File, stats []model.CategoryStat) error {
	if _, err := f.NewSheet(sheetCategories); err != nil {
		return fmt.Errorf("создать лист %s: %w", sheetCategories, err)
	}

	headers := []interface{}{"Категория", "Позиций", "Суммарный ADS", "Доля ADS, %"}
	if err := f.SetSheetRow(sheetCategories, "A1", &headers); err != nil {
		return err
	}
	for i, s := range stats {
		row := []interface{}{s.Category, s.ItemCount, s.TotalAds, s.AdsPercentage}
		if err := f.SetSheetRow(sheetCategories, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillShelfAllocation(f *excelize.File, allocations []model.SpaceAllocation) error {
	if _, err := f.NewSheet(sheetShelves); err != nil {
		return fmt.Errorf("создать лист %s: %w", sheetShelves, err)
	}

	headers := []interface{}{"Категория", "Доля ADS, %", "Полок", "Позиций на полку"}
	if err := f.SetSheetRow(sheetShelves, "A1", &headers); err != nil {
		return err
	}
	for i, a := range allocations {
		row := []interface{}{a.Category, a.Percentage, a.Shelves, a.ItemsPerShelf}
		if err := f.SetSheetRow(sheetShelves, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillTotals(f *excelize.File, summary model.Summary) error {
	if _, err := f.NewSheet(sheetTotals); err != nil {
		return fmt.Errorf("создать лист %s: %w", sheetTotals, err)
	}

	rows := [][]interface{}{
		{"Показатель", "Значение"},
		{"Позиций к заказу", summary.Positions},
		{"Общее количество", summary.TotalQuantity},
		{"Общая сумма", summary.TotalValue},
		{"Филиалов", summary.BranchCount},
		{"Категорий", summary.CategoryCount},
	}
	for i, row := range rows {
		r := row
		if err := f.SetSheetRow(sheetTotals, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return err
		}
	}
	return nil
}
