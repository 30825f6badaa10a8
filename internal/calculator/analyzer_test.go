package calculator

import (
	"math"
	"testing"

	"github.com/CronusSR/Autosort-tovar/internal/model"
	"github.com/CronusSR/Autosort-tovar/internal/parser"
)

var testBranches = []string{"Казыбаева", "Барыс"}

func makeItem(name, category string, ads float64) model.Item {
	return model.Item{
		Key:      name,
		Name:     name,
		Category: category,
		Ads:      map[string]float64{testBranches[0]: ads},
		Stock:    map[string]float64{},
	}
}

func makeDataset(items ...model.Item) model.Dataset {
	return model.Dataset{
		Items:    items,
		Branches: testBranches,
		Fields: map[string]bool{
			parser.FieldName:     true,
			parser.FieldCategory: true,
			parser.FieldAds:      true,
			parser.FieldStock:    true,
		},
	}
}

func TestAnalyzeCategories_SharesAndOrder(t *testing.T) {
	t.Parallel()

	ds := makeDataset(
		makeItem("Молоко", "Молочные", 8),
		makeItem("Сыр", "Молочные", 4),
		makeItem("Хлеб", "Выпечка", 6),
		makeItem("Булка", "Выпечка", 1),
		makeItem("Соль", "Бакалея", 1),
	)

	stats, err := AnalyzeCategories(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("want 3 categories, got %d", len(stats))
	}

	// суммарный ADS 20: Молочные 60%, Выпечка 35%, Бакалея 5%
	if stats[0].Category != "Молочные" || stats[0].AdsPercentage != 60 {
		t.Fatalf("top category: %+v", stats[0])
	}
	if stats[1].Category != "Выпечка" || stats[1].AdsPercentage != 35 {
		t.Fatalf("second category: %+v", stats[1])
	}
	if stats[2].Category != "Бакалея" || stats[2].AdsPercentage != 5 {
		t.Fatalf("third category: %+v", stats[2])
	}

	if stats[0].ItemCount != 2 || stats[0].Percentage != 40 {
		t.Fatalf("item share: %+v", stats[0])
	}
	if stats[0].AvgAds != 6 {
		t.Fatalf("avg ads: want=6 got=%g", stats[0].AvgAds)
	}
}

func TestAnalyzeCategories_PercentagesSumToHundred(t *testing.T) {
	t.Parallel()

	ds := makeDataset(
		makeItem("А", "К1", 1),
		makeItem("Б", "К2", 1),
		makeItem("В", "К3", 1),
	)

	stats, err := AnalyzeCategories(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, s := range stats {
		sum += s.AdsPercentage
	}
	// допуск на округление каждой доли до 2 знаков
	tolerance := 0.01 * float64(len(stats))
	if math.Abs(sum-100) > tolerance {
		t.Fatalf("ads percentage sum: want~100 got=%g", sum)
	}
}

func TestAnalyzeCategories_MissingCategoryColumn(t *testing.T) {
	t.Parallel()

	ds := makeDataset(makeItem("Молоко", "Молочные", 1))
	ds.Fields = map[string]bool{parser.FieldName: true}

	_, err := AnalyzeCategories(ds)
	if !model.IsMissingColumn(err) {
		t.Fatalf("want missing column error, got %v", err)
	}
}

func TestAnalyzeCategories_EmptyDataset(t *testing.T) {
	t.Parallel()

	_, err := AnalyzeCategories(makeDataset())
	if err != model.ErrEmptyDataset {
		t.Fatalf("want ErrEmptyDataset, got %v", err)
	}
}

func TestAnalyzeCategories_BlankCategoryExcluded(t *testing.T) {
	t.Parallel()

	ds := makeDataset(
		makeItem("Молоко", "Молочные", 5),
		makeItem("Без категории", "  ", 5),
	)

	stats, err := AnalyzeCategories(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("blank category must not group, got %d stats", len(stats))
	}
	if stats[0].AdsPercentage != 100 {
		t.Fatalf("grand total must exclude blank category rows: %+v", stats[0])
	}
}

func TestAnalyzeCategories_ZeroAdsNoDivisionByZero(t *testing.T) {
	t.Parallel()

	ds := makeDataset(makeItem("Молоко", "Молочные", 0))
	stats, err := AnalyzeCategories(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats[0].AdsPercentage != 0 || stats[0].AvgAds != 0 {
		t.Fatalf("zero ads must give zero shares: %+v", stats[0])
	}
}
