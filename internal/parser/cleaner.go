package parser

import (
	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// TextPlaceholder заполнитель пропусков в текстовых колонках
const TextPlaceholder = "Unknown"

// Clean очищает таблицу. Шаги, по порядку:
//  1. удаление полностью пустых строк;
//  2. удаление полностью пустых колонок;
//  3. числовые колонки: щадящий разбор, неразобранное становится 0;
//  4. текстовые колонки: пропуски становятся "Unknown";
//  5. удаление строк с пустой идентифицирующей колонкой (name/sku).
//
// Очистка идемпотентна: повторный прогон по своему результату ничего не меняет.
func Clean(t model.Table) model.Table {
	rows := dropEmptyRows(t.Rows, len(t.Headers))
	headers, rows := dropEmptyColumns(t.Headers, rows)

	numeric := classifyNumericColumns(headers, rows)
	for _, row := range rows {
		for col := range headers {
			cell := cellAt(row, col)
			if numeric[col] {
				v, _ := ParseLenient(cell)
				row[col] = FormatNumber(v)
			} else if IsBlank(cell) {
				row[col] = TextPlaceholder
			}
		}
	}

	rows = dropBlankIdentityRows(headers, rows)

	return model.Table{Name: t.Name, Headers: headers, Rows: rows}
}

// dropEmptyRows убирает строки без единого непустого значения.
// Строки выравниваются до ширины заголовка.
func dropEmptyRows(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		for _, cell := range row {
			if !IsBlank(cell) {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		out = append(out, padded)
	}
	return out
}

// dropEmptyColumns убирает колонки без единого непустого значения
func dropEmptyColumns(headers []string, rows [][]string) ([]string, [][]string) {
	keep := make([]int, 0, len(headers))
	for col := range headers {
		hasValue := false
		for _, row := range rows {
			if !IsBlank(cellAt(row, col)) {
				hasValue = true
				break
			}
		}
		if hasValue {
			keep = append(keep, col)
		}
	}
	if len(keep) == len(headers) {
		return headers, rows
	}

	newHeaders := make([]string, len(keep))
	for i, col := range keep {
		newHeaders[i] = headers[col]
	}
	newRows := make([][]string, len(rows))
	for r, row := range rows {
		newRow := make([]string, len(keep))
		for i, col := range keep {
			newRow[i] = cellAt(row, col)
		}
		newRows[r] = newRow
	}
	return newHeaders, newRows
}

// classifyNumericColumns колонка считается числовой, когда не менее половины
// ее непустых значений разбирается как число. Заполнитель "Unknown"
// числом не считается, поэтому классификация устойчива к повторной очистке.
func classifyNumericColumns(headers []string, rows [][]string) map[int]bool {
	numeric := make(map[int]bool, len(headers))
	for col := range headers {
		parsed, nonBlank := 0, 0
		for _, row := range rows {
			cell := cellAt(row, col)
			if IsBlank(cell) {
				continue
			}
			nonBlank++
			if _, ok := ParseLenient(cell); ok {
				parsed++
			}
		}
		numeric[col] = nonBlank > 0 && parsed*2 >= nonBlank
	}
	return numeric
}

// dropBlankIdentityRows убирает строки с пустым значением в колонке
// name либо sku; без идентичности позиция бесполезна ниже по конвейеру.
// Ячейки, заполненные заполнителем, тоже считаются пустыми.
func dropBlankIdentityRows(headers []string, rows [][]string) [][]string {
	identity := make([]int, 0, 2)
	for col, h := range headers {
		if h == FieldName || h == FieldSKU {
			identity = append(identity, col)
		}
	}
	if len(identity) == 0 {
		return rows
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		hasIdentity := false
		for _, col := range identity {
			cell := cellAt(row, col)
			if !IsBlank(cell) && cell != TextPlaceholder {
				hasIdentity = true
				break
			}
		}
		if hasIdentity {
			out = append(out, row)
		}
	}
	return out
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
