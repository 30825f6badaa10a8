package parser

// Канонические имена колонок
const (
	FieldSKU      = "sku"
	FieldName     = "name"
	FieldCategory = "category"
	FieldAds      = "ads"
	FieldPrice    = "price"
	FieldStock    = "stock"
	FieldBranch   = "branch"
)

// FieldRule правило сопоставления колонки каноническому полю.
// Порядок правил задает приоритет: первое совпавшее поле побеждает.
type FieldRule struct {
	Field    string
	Keywords []string
}

// Conflict два исходных заголовка претендуют на одно каноническое имя.
// Побеждает первый по порядку колонок; поздний сохраняет исходное имя.
type Conflict struct {
	Field    string `json:"field"`
	Kept     string `json:"kept"`     // заголовок, получивший каноническое имя
	Rejected string `json:"rejected"` // заголовок, оставшийся под своим именем
}

// MapResult результат сопоставления заголовков
type MapResult struct {
	Renames   map[string]string `json:"renames"` // исходное имя -> каноническое
	Conflicts []Conflict        `json:"conflicts,omitempty"`
}

// ColumnMapper сопоставитель колонок по ключевым словам
type ColumnMapper struct {
	rules []FieldRule
}

// NewColumnMapper создает сопоставитель со стандартной таблицей синонимов
func NewColumnMapper() *ColumnMapper {
	return &ColumnMapper{
		rules: []FieldRule{
			{Field: FieldSKU, Keywords: []string{"sku", "код", "артикул", "id", "номер"}},
			{Field: FieldName, Keywords: []string{"наименование", "название", "name", "товар", "продукт"}},
			{Field: FieldCategory, Keywords: []string{"категория", "category", "группа", "group", "класс"}},
			{Field: FieldAds, Keywords: []string{"ads", "средн", "продаж", "sales", "день"}},
			{Field: FieldPrice, Keywords: []string{"цена", "price", "стоимость", "cost"}},
			{Field: FieldStock, Keywords: []string{"остаток", "stock", "количество", "qty", "balance"}},
			{Field: FieldBranch, Keywords: []string{"филиал", "branch", "магазин", "store", "склад"}},
		},
	}
}

// Rules возвращает копию таблицы синонимов в порядке приоритета
func (m *ColumnMapper) Rules() []FieldRule {
	out := make([]FieldRule, len(m.rules))
	copy(out, m.rules)
	return out
}

// MapColumns сопоставляет заголовкам канонические имена.
// Заголовок без совпадений сохраняет исходное имя. Каноническое имя
// присваивается не более одного раза: повторный претендент фиксируется
// в Conflicts и остается под исходным именем (ничего не перетирается молча).
func (m *ColumnMapper) MapColumns(headers []string) MapResult {
	result := MapResult{Renames: make(map[string]string, len(headers))}
	taken := make(map[string]string, len(m.rules)) // поле -> получивший его заголовок

	for _, raw := range headers {
		normalized := NormalizeName(raw)
		if normalized == "" {
			result.Renames[raw] = raw
			continue
		}

		field := m.matchField(normalized)
		if field == "" {
			result.Renames[raw] = raw
			continue
		}

		if kept, ok := taken[field]; ok {
			if kept == raw {
				// дубликат того же заголовка, переименование уже записано
				continue
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Field:    field,
				Kept:     kept,
				Rejected: raw,
			})
			result.Renames[raw] = raw
			continue
		}

		taken[field] = raw
		result.Renames[raw] = field
	}

	return result
}

// matchField поиск первого канонического поля по таблице синонимов
func (m *ColumnMapper) matchField(normalized string) string {
	for _, rule := range m.rules {
		if ContainsAny(normalized, rule.Keywords) {
			return rule.Field
		}
	}
	return ""
}

// ApplyMapping переименовывает заголовки таблицы согласно результату
func ApplyMapping(headers []string, result MapResult) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if canonical, ok := result.Renames[h]; ok {
			out[i] = canonical
		} else {
			out[i] = h
		}
	}
	return out
}
