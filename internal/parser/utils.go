package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName регуляризация имени листа или колонки:
// нижний регистр, без переводов строк, лишние пробелы схлопнуты
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(name)
}

// ContainsAny проверяет вхождение любого из ключевых слов
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsBlank true для пустой строки после обрезки пробелов
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseLenient щадящий разбор числа: пробелы-разделители убираются,
// запятая принимается как десятичный разделитель. Неразобранное значение
// деградирует в 0 и никогда не поднимает ошибку.
func ParseLenient(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatNumber каноническая запись числа для очищенной таблицы
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
