package importer

import (
	"fmt"
	"strings"

	"github.com/CronusSR/Autosort-tovar/internal/model"
	"github.com/CronusSR/Autosort-tovar/internal/parser"
)

// Канонический лист "мин запасы": фиксированная раскладка колонок
// с двумя строками заголовка перед данными. При четырех филиалах это
// 20 колонок:
//
//	name, check_flag, active, category, subcategory, duplicates,
//	ads_<филиал1..4>, days_target, min_<филиал1..4>,
//	stock_<филиал1..4>, other_stock
//
// Колонки сверх раскладки проходят насквозь под синтетическими именами.
const canonicalHeaderRows = 2

// CanonicalLayout позиции колонок канонического листа для набора филиалов
type CanonicalLayout struct {
	Branches   []string
	Name       int
	CheckFlag  int
	Active     int
	Category   int
	Subcat     int
	Duplicates int
	AdsStart   int // len(Branches) колонок подряд
	DaysTarget int
	MinStart   int // len(Branches) колонок подряд
	StockStart int // len(Branches) колонок подряд
	OtherStock int
	Width      int
}

// NewCanonicalLayout раскладка для упорядоченного набора филиалов
func NewCanonicalLayout(branches []string) CanonicalLayout {
	n := len(branches)
	l := CanonicalLayout{
		Branches:   branches,
		Name:       0,
		CheckFlag:  1,
		Active:     2,
		Category:   3,
		Subcat:     4,
		Duplicates: 5,
		AdsStart:   6,
	}
	l.DaysTarget = l.AdsStart + n
	l.MinStart = l.DaysTarget + 1
	l.StockStart = l.MinStart + n
	l.OtherStock = l.StockStart + n
	l.Width = l.OtherStock + 1
	return l
}

// ColumnNames имена всех колонок раскладки; хвост строки шире раскладки
// получает синтетические имена col_N
func (l CanonicalLayout) ColumnNames(rowWidth int) []string {
	names := make([]string, 0, rowWidth)
	names = append(names, "name", "check_flag", "active", "category", "subcategory", "duplicates")
	for _, b := range l.Branches {
		names = append(names, "ads_"+b)
	}
	names = append(names, "days_target")
	for _, b := range l.Branches {
		names = append(names, "min_"+b)
	}
	for _, b := range l.Branches {
		names = append(names, "stock_"+b)
	}
	names = append(names, "other_stock")
	for col := len(names); col < rowWidth; col++ {
		names = append(names, fmt.Sprintf("col_%d", col+1))
	}
	return names
}

// BindCanonical строит позиции из канонического листа.
// Строки без наименования отбрасываются; числовые значения разбираются
// щадяще и деградируют в 0, не прерывая загрузку.
func BindCanonical(sheet model.RawSheet, layout CanonicalLayout) ([]model.Item, []model.RowError) {
	items := make([]model.Item, 0, len(sheet.Rows))
	rowErrors := make([]model.RowError, 0)

	if len(sheet.Rows) <= canonicalHeaderRows {
		return items, rowErrors
	}

	for i, row := range sheet.Rows[canonicalHeaderRows:] {
		rowNum := i + canonicalHeaderRows + 1

		name := strings.TrimSpace(cell(row, layout.Name))
		if name == "" {
			// строка без идентичности: пустая или служебная
			continue
		}

		item := model.Item{
			Key:         name,
			Name:        name,
			Category:    strings.TrimSpace(cell(row, layout.Category)),
			Subcategory: strings.TrimSpace(cell(row, layout.Subcat)),
			Ads:         make(map[string]float64, len(layout.Branches)),
			Stock:       make(map[string]float64, len(layout.Branches)),
		}
		if item.Category == "" {
			item.Category = parser.TextPlaceholder
		}

		for bi, branch := range layout.Branches {
			ads, _ := parser.ParseLenient(cell(row, layout.AdsStart+bi))
			stock, _ := parser.ParseLenient(cell(row, layout.StockStart+bi))
			if ads < 0 {
				rowErrors = append(rowErrors, model.RowError{
					Source: sheet.Name,
					Row:    rowNum,
					Key:    name,
					Reason: fmt.Sprintf("отрицательный ADS %g в филиале %s", ads, branch),
				})
				ads = 0
			}
			if stock < 0 {
				stock = 0
			}
			item.Ads[branch] = ads
			item.Stock[branch] = stock
		}

		if days, ok := parser.ParseLenient(cell(row, layout.DaysTarget)); ok && days > 0 {
			item.DaysTarget = days
		}

		items = append(items, item)
	}

	return items, rowErrors
}

func cell(row []string, col int) string {
	if col >= 0 && col < len(row) {
		return row[col]
	}
	return ""
}
