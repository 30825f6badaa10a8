package importer

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

var testBranches = []string{"Казыбаева", "Барыс"}

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Reader {
	t.Helper()

	wb := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			_ = wb.SetSheetName("Sheet1", name)
			first = false
		} else {
			if _, err := wb.NewSheet(name); err != nil {
				t.Fatalf("NewSheet %s failed: %v", name, err)
			}
		}
		for i := range rows {
			row := rows[i]
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := wb.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow %s failed: %v", name, err)
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// канонический лист "мин запасы" для двух филиалов: 14 колонок,
// две строки заголовка перед данными
func canonicalRows(dataRows ...[]interface{}) [][]interface{} {
	header1 := []interface{}{"Товар", "", "", "Категория", "", "", "ADS", "", "Дни", "Мин", "", "Остатки", "", "Прочее"}
	header2 := []interface{}{"", "", "", "", "", "", "Казыбаева", "Барыс", "", "Казыбаева", "Барыс", "Казыбаева", "Барыс", ""}
	rows := [][]interface{}{header1, header2}
	return append(rows, dataRows...)
}

func TestImportReader_CanonicalSheet(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, map[string][][]interface{}{
		"мин запасы": canonicalRows(
			[]interface{}{"Молоко", "", "да", "Молочные", "Напитки", "", 5, 2.5, "", "", "", 20, 10, ""},
			[]interface{}{"Хлеб", "", "да", "", "", "", 3, 1, 15, "", "", 0, 0, ""},
		),
	})

	c := NewCoordinator(testBranches, nil)
	ds, report, err := c.ImportReader(wb, "test.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds.Items) != 2 {
		t.Fatalf("want 2 items, got %d", len(ds.Items))
	}
	milk := ds.Items[0]
	if milk.Key != "Молоко" || milk.Category != "Молочные" {
		t.Fatalf("unexpected item: %+v", milk)
	}
	if milk.Ads["Казыбаева"] != 5 || milk.Ads["Барыс"] != 2.5 {
		t.Fatalf("ads: %+v", milk.Ads)
	}
	if milk.Stock["Казыбаева"] != 20 || milk.Stock["Барыс"] != 10 {
		t.Fatalf("stock: %+v", milk.Stock)
	}

	bread := ds.Items[1]
	// пустая категория становится заполнителем
	if bread.Category != "Unknown" {
		t.Fatalf("blank category: want=Unknown got=%q", bread.Category)
	}
	if bread.DaysTarget != 15 {
		t.Fatalf("days target: want=15 got=%g", bread.DaysTarget)
	}

	if !report.Processed(model.RoleMinTarget) {
		t.Fatalf("min_target must be processed: %+v", report.Roles)
	}
	if report.Items != 2 || report.TotalSheets != 1 {
		t.Fatalf("report: %+v", report)
	}
}

func TestImportReader_PartialSuccess(t *testing.T) {
	t.Parallel()

	// остатков нет: роль пропускается, остальное загружается
	wb := buildWorkbook(t, map[string][][]interface{}{
		"ADS": {
			{"Наименование", "Филиал", "ADS", "Цена"},
			{"Молоко", "Казыбаева", "5", "100"},
			{"Молоко", "Барыс", "2,5", "100"},
			{"Хлеб", "Казыбаева", "3", "50"},
		},
	})

	c := NewCoordinator(testBranches, nil)
	ds, report, err := c.ImportReader(wb, "ads.xlsx")
	if err != nil {
		t.Fatalf("partial input must not fail: %v", err)
	}

	if !report.Processed(model.RoleADS) {
		t.Fatalf("ads must be processed: %+v", report.Roles)
	}
	if report.Processed(model.RoleStock) || report.Processed(model.RoleMinTarget) {
		t.Fatalf("missing roles must be skipped: %+v", report.Roles)
	}

	if len(ds.Items) != 2 {
		t.Fatalf("want 2 items, got %d", len(ds.Items))
	}
	milk := ds.Items[0]
	if milk.Ads["Казыбаева"] != 5 || milk.Ads["Барыс"] != 2.5 {
		t.Fatalf("branch column merge: %+v", milk.Ads)
	}
	if milk.Price != 100 {
		t.Fatalf("price: want=100 got=%g", milk.Price)
	}
	if !ds.HasField("ads") || ds.HasField("stock") {
		t.Fatalf("fields: %+v", ds.Fields)
	}
}

func TestImportReader_UnknownBranchRowError(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, map[string][][]interface{}{
		"ADS": {
			{"Наименование", "Филиал", "ADS"},
			{"Молоко", "Неведомый", "5"},
			{"Хлеб", "Казыбаева", "3"},
		},
	})

	c := NewCoordinator(testBranches, nil)
	ds, report, err := c.ImportReader(wb, "ads.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.RowErrors) != 1 {
		t.Fatalf("want 1 row error, got %v", report.RowErrors)
	}
	// строка с неизвестным филиалом пропущена, остальные загружены
	if len(ds.Items) != 1 || ds.Items[0].Key != "Хлеб" {
		t.Fatalf("unexpected items: %+v", ds.Items)
	}
}

func TestImportReader_EmptyWorkbook(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, map[string][][]interface{}{
		"Лист1": {{"непонятно", "что"}},
	})

	c := NewCoordinator(testBranches, nil)
	_, _, err := c.ImportReader(wb, "empty.xlsx")
	if err != model.ErrEmptyDataset {
		t.Fatalf("want ErrEmptyDataset, got %v", err)
	}
}

func TestImportReader_NoBranchesConfigured(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, map[string][][]interface{}{
		"ADS": {
			{"Наименование", "ADS"},
			{"Молоко", "5"},
		},
	})

	c := NewCoordinator(nil, nil)
	_, _, err := c.ImportReader(wb, "ads.xlsx")
	if err != ErrNoBranches {
		t.Fatalf("want ErrNoBranches, got %v", err)
	}
}

func TestColumnNames_SyntheticTail(t *testing.T) {
	t.Parallel()

	layout := NewCanonicalLayout(testBranches)
	names := layout.ColumnNames(layout.Width + 2)
	if len(names) != layout.Width+2 {
		t.Fatalf("want %d names, got %d", layout.Width+2, len(names))
	}
	if names[layout.Width] != "col_15" || names[layout.Width+1] != "col_16" {
		t.Fatalf("synthetic names: %v", names[layout.Width:])
	}
}
