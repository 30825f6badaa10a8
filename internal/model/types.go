package model

// Role семантическая роль листа в исходной книге
type Role string

const (
	RoleADS        Role = "ads"         // среднедневные продажи
	RoleStock      Role = "stock"       // текущие остатки
	RoleMinTarget  Role = "min_target"  // мин. запасы (канонический лист)
	RoleCategory   Role = "category"    // покрытие категорий
	RoleBranchData Role = "branch_data" // данные отдельного филиала
	RoleUnknown    Role = "unknown"
)

// RawSheet сырой лист книги: имя и таблица ячеек как есть
type RawSheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Table именованная таблица с заголовками
type Table struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Item каноническая товарная позиция после очистки и привязки.
// Ads и Stock хранятся по филиалам; отсутствующий филиал трактуется как 0.
type Item struct {
	Key         string             `json:"key"` // sku либо наименование
	Name        string             `json:"name"`
	SKU         string             `json:"sku,omitempty"`
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`
	Ads         map[string]float64 `json:"ads"`
	Stock       map[string]float64 `json:"stock"`
	DaysTarget  float64            `json:"daysTarget,omitempty"` // 0 = не задан
	Price       float64            `json:"price,omitempty"`      // 0 = цены нет
}

// AdsTotal суммарный ADS позиции по указанным филиалам
func (it Item) AdsTotal(branches []string) float64 {
	var total float64
	for _, b := range branches {
		total += it.Ads[b]
	}
	return total
}

// Dataset канонический набор данных одной загрузки.
// Fields фиксирует, какие канонические поля присутствовали в источнике:
// на этом основании проверяются структурные ошибки вида "нет колонки категории".
type Dataset struct {
	Items    []Item          `json:"items"`
	Branches []string        `json:"branches"`
	Fields   map[string]bool `json:"fields"`
}

// HasField проверяет присутствие канонического поля в источнике
func (d Dataset) HasField(name string) bool {
	return d.Fields[name]
}

// ItemPlan позиция с рассчитанными минимальными запасами по филиалам
type ItemPlan struct {
	Item
	DaysSupply    float64            `json:"daysSupply"`
	MinStock      map[string]float64 `json:"minStock"`
	TotalMinStock float64            `json:"totalMinStock"`
	TotalAds      float64            `json:"totalAds"`
}

// CategoryStat статистика категории
type CategoryStat struct {
	Category      string  `json:"category"`
	ItemCount     int     `json:"itemCount"`
	Percentage    float64 `json:"percentage"`    // доля позиций, %
	TotalAds      float64 `json:"totalAds"`
	AvgAds        float64 `json:"avgAds"`
	AdsPercentage float64 `json:"adsPercentage"` // доля продаж, %
}

// SpaceAllocation распределение полок для категории
type SpaceAllocation struct {
	Category      string  `json:"category"`
	Shelves       int     `json:"shelves"`
	Percentage    float64 `json:"percentage"`
	ItemsPerShelf float64 `json:"itemsPerShelf"`
}

// OrderLine строка заказа для пары (позиция, филиал)
type OrderLine struct {
	Key             string  `json:"key"`
	Category        string  `json:"category"`
	Branch          string  `json:"branch"`
	Ads             float64 `json:"ads"`
	MinStock        float64 `json:"minStock"`
	CurrentStock    float64 `json:"currentStock"`
	Deficit         float64 `json:"deficit"`
	Quantity        float64 `json:"quantity"`
	PackageMultiple int     `json:"packageMultiple"`
	Price           float64 `json:"price,omitempty"`
	Value           float64 `json:"value"`
}

// RowError ошибка обработки отдельной строки; не прерывает расчет
type RowError struct {
	Source string `json:"source"` // лист либо этап
	Row    int    `json:"row"`    // номер строки источника, 0 если неприменим
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}

// BranchSummary сводка заказа по одному филиалу
type BranchSummary struct {
	Branch        string  `json:"branch"`
	Positions     int     `json:"positions"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
}

// Summary итоговые показатели расчета
type Summary struct {
	Positions     int     `json:"positions"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
	BranchCount   int     `json:"branchCount"`
	CategoryCount int     `json:"categoryCount"`
}

// Bundle полный результат конвейера: именованные таблицы для экспорта.
// Пересобирается целиком при каждом запуске, после создания не изменяется.
type Bundle struct {
	Orders      []OrderLine       `json:"orders"`
	Stats       []CategoryStat    `json:"stats"`
	Allocations []SpaceAllocation `json:"allocations"`
	Branches    []BranchSummary   `json:"branches"`
	Summary     Summary           `json:"summary"`
	RowErrors   []RowError        `json:"rowErrors,omitempty"`
}

// OrdersByBranch строки заказа одного филиала, с сохранением порядка
func (b Bundle) OrdersByBranch(branch string) []OrderLine {
	out := make([]OrderLine, 0)
	for _, line := range b.Orders {
		if line.Branch == branch {
			out = append(out, line)
		}
	}
	return out
}
