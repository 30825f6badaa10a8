package exporter

import (
	"strings"
	"testing"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

func testBundle() model.Bundle {
	return model.Bundle{
		Orders: []model.OrderLine{
			{Key: "Молоко", Category: "Молочные", Branch: "Казыбаева", Quantity: 40, Price: 100, Value: 4000, PackageMultiple: 10},
			{Key: "Хлеб", Category: "Выпечка", Branch: "Барыс", Quantity: 6, Price: 50, Value: 300, PackageMultiple: 1},
		},
		Stats: []model.CategoryStat{
			{Category: "Молочные", ItemCount: 1, TotalAds: 5, AdsPercentage: 62.5},
			{Category: "Выпечка", ItemCount: 1, TotalAds: 3, AdsPercentage: 37.5},
		},
		Allocations: []model.SpaceAllocation{
			{Category: "Молочные", Shelves: 491, Percentage: 62.5, ItemsPerShelf: 0.01},
		},
		Branches: []model.BranchSummary{
			{Branch: "Казыбаева", Positions: 1, TotalQuantity: 40, TotalValue: 4000},
			{Branch: "Барыс", Positions: 1, TotalQuantity: 6, TotalValue: 300},
		},
		Summary: model.Summary{Positions: 2, TotalQuantity: 46, TotalValue: 4300, BranchCount: 2, CategoryCount: 2},
	}
}

func TestExport_SheetSet(t *testing.T) {
	t.Parallel()

	f, err := NewExporter().Export(testBundle())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	defer f.Close()

	want := []string{
		"Все_заказы",
		"Заказы_Казыбаева",
		"Заказы_Барыс",
		"Сводка_филиалов",
		"Анализ_категорий",
		"Распределение_полок",
		"Общая_сводка",
	}
	sheets := f.GetSheetList()
	have := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		have[s] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("missing sheet %q, have %v", name, sheets)
		}
	}
	if have["Sheet1"] {
		t.Fatalf("default sheet must be removed: %v", sheets)
	}
}

func TestExport_OrderCells(t *testing.T) {
	t.Parallel()

	f, err := NewExporter().Export(testBundle())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Все_заказы", "A2"); got != "Молоко" {
		t.Fatalf("A2: want=Молоко got=%q", got)
	}
	if got, _ := f.GetCellValue("Все_заказы", "H2"); got != "40" {
		t.Fatalf("H2 quantity: want=40 got=%q", got)
	}

	// лист филиала содержит только его строки
	if got, _ := f.GetCellValue("Заказы_Барыс", "A2"); got != "Хлеб" {
		t.Fatalf("branch sheet A2: want=Хлеб got=%q", got)
	}
	if got, _ := f.GetCellValue("Заказы_Барыс", "A3"); got != "" {
		t.Fatalf("branch sheet must have single data row, A3=%q", got)
	}
}

func TestBranchSheetName_Constraints(t *testing.T) {
	t.Parallel()

	got := branchSheetName(`Склад/Основной: [литеры A*B?]`)
	if strings.ContainsAny(got, `[]:*?/\`) {
		t.Fatalf("forbidden chars must be replaced: %q", got)
	}
	long := branchSheetName("Очень длинное имя филиала за пределами лимита")
	if n := len([]rune(long)); n > 31 {
		t.Fatalf("sheet name over 31 runes: %d %q", n, long)
	}
	if !strings.HasPrefix(long, branchSheetStem) {
		t.Fatalf("stem lost: %q", long)
	}
}

func TestExport_HostileBranchName(t *testing.T) {
	t.Parallel()

	bundle := testBundle()
	hostile := `Склад/Основной: очень длинное имя [юг]`
	bundle.Branches = append(bundle.Branches, model.BranchSummary{Branch: hostile})

	f, err := NewExporter().Export(bundle)
	if err != nil {
		t.Fatalf("export with hostile branch name failed: %v", err)
	}
	defer f.Close()

	want := branchSheetName(hostile)
	found := false
	for _, s := range f.GetSheetList() {
		if s == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("sanitized sheet %q missing: %v", want, f.GetSheetList())
	}
}

func TestExport_SummaryCells(t *testing.T) {
	t.Parallel()

	f, err := NewExporter().Export(testBundle())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Общая_сводка", "B2"); got != "2" {
		t.Fatalf("positions: want=2 got=%q", got)
	}
	if got, _ := f.GetCellValue("Сводка_филиалов", "A2"); got != "Казыбаева" {
		t.Fatalf("branch summary: got=%q", got)
	}
	if got, _ := f.GetCellValue("Распределение_полок", "C2"); got != "491" {
		t.Fatalf("shelves: want=491 got=%q", got)
	}
}
