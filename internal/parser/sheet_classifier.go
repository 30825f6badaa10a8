package parser

import (
	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// RoleRule правило распознавания роли листа.
// Правило срабатывает, когда в имени листа найдено хотя бы по одному
// ключевому слову из каждой группы. Порядок правил задает приоритет.
type RoleRule struct {
	Role   model.Role
	Groups [][]string
}

// Match проверка имени листа против правила; имя уже нормализовано
func (r RoleRule) Match(name string) bool {
	if len(r.Groups) == 0 {
		return false
	}
	for _, group := range r.Groups {
		if !ContainsAny(name, group) {
			return false
		}
	}
	return true
}

// SheetClassifier классификатор листов по имени
type SheetClassifier struct {
	rules []RoleRule
}

// NewSheetClassifier создает классификатор со стандартной таблицей правил.
// branches участвует в правиле branch_data: имя листа, совпадающее с
// именем настроенного филиала, относится к данным этого филиала.
func NewSheetClassifier(branches []string) *SheetClassifier {
	branchKeys := make([]string, 0, len(branches))
	for _, b := range branches {
		branchKeys = append(branchKeys, NormalizeName(b))
	}

	rules := []RoleRule{
		{
			Role:   model.RoleADS,
			Groups: [][]string{{"ads", "адс"}},
		},
		{
			Role:   model.RoleStock,
			Groups: [][]string{{"stock", "balance", "остат", "склад", "ост"}},
		},
		{
			Role: model.RoleMinTarget,
			Groups: [][]string{
				{"min", "миним", "мин"},
				{"target", "цел", "запас", "снабж"},
			},
		},
		{
			Role:   model.RoleCategory,
			Groups: [][]string{{"категор", "category", "покрытие"}},
		},
	}
	if len(branchKeys) > 0 {
		rules = append(rules, RoleRule{
			Role:   model.RoleBranchData,
			Groups: [][]string{branchKeys},
		})
	}

	return &SheetClassifier{rules: rules}
}

// Classify определяет роль листа по имени. Первое совпавшее правило
// побеждает; без совпадений возвращается unknown. Чистая функция:
// одно и то же имя всегда дает одну и ту же роль.
func (c *SheetClassifier) Classify(sheetName string) model.Role {
	name := NormalizeName(sheetName)
	for _, rule := range c.rules {
		if rule.Match(name) {
			return rule.Role
		}
	}
	return model.RoleUnknown
}

// Rules возвращает копию таблицы правил в порядке приоритета
func (c *SheetClassifier) Rules() []RoleRule {
	out := make([]RoleRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// ClassifyAll раскладывает листы книги по ролям в исходном порядке листов.
// Для роли берется первый подошедший лист; остальные остаются unknown-списком.
func (c *SheetClassifier) ClassifyAll(sheets []model.RawSheet) map[model.Role][]model.RawSheet {
	byRole := make(map[model.Role][]model.RawSheet)
	for _, sheet := range sheets {
		role := c.Classify(sheet.Name)
		byRole[role] = append(byRole[role], sheet)
	}
	return byRole
}
