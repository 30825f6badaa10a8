package calculator

import (
	"math"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// RoundToPackages приводит количества к кратности упаковки.
// multiples отображает ключ позиции в кратность; отсутствующий ключ
// означает кратность 1 (без округления). Для m > 1 количество растет
// до ближайшего кратного вверх, после чего стоимость пересчитывается.
// Чистое преобразование: вход не изменяется, строки не добавляются
// и не выбрасываются.
func RoundToPackages(lines []model.OrderLine, multiples map[string]int) []model.OrderLine {
	out := make([]model.OrderLine, len(lines))
	for i, line := range lines {
		rounded := line
		m := multiples[line.Key]
		if m <= 1 {
			m = 1
		} else {
			rounded.Quantity = math.Ceil(line.Quantity/float64(m)) * float64(m)
		}
		rounded.PackageMultiple = m
		rounded.Value = rounded.Quantity * rounded.Price
		out[i] = rounded
	}
	return out
}
