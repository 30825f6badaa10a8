package parser

import (
	"testing"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

var testBranches = []string{"Казыбаева", "Барыс", "Астана", "Шымкент"}

func TestClassify_KnownRoles(t *testing.T) {
	t.Parallel()

	c := NewSheetClassifier(testBranches)

	cases := []struct {
		name string
		want model.Role
	}{
		{"ADS по товарам", model.RoleADS},
		{"адс декабрь", model.RoleADS},
		{"Остатки склад", model.RoleStock},
		{"Stock balance", model.RoleStock},
		{"Мин целевые запасы", model.RoleMinTarget},
		{"Минимальное снабжение", model.RoleMinTarget},
		{"Покрытие категорий", model.RoleCategory},
		{"Категории товаров", model.RoleCategory},
		{"Казыбаева", model.RoleBranchData},
		{"  астана  ", model.RoleBranchData},
		{"Лист1", model.RoleUnknown},
		{"", model.RoleUnknown},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.name); got != tc.want {
			t.Fatalf("%q: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestClassify_MinTargetNeedsBothGroups(t *testing.T) {
	t.Parallel()

	c := NewSheetClassifier(testBranches)

	// одного слова "мин" недостаточно, нужна и вторая группа
	if got := c.Classify("мин ведомость"); got == model.RoleMinTarget {
		t.Fatalf("single keyword group must not classify as min_target")
	}
	if got := c.Classify("мин запасы"); got != model.RoleMinTarget {
		t.Fatalf("want min_target, got %v", got)
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	t.Parallel()

	c := NewSheetClassifier(testBranches)

	// имя подходит и под ADS, и под остатки: приоритет у первого правила
	if got := c.Classify("ADS и остатки"); got != model.RoleADS {
		t.Fatalf("want ads by rule order, got %v", got)
	}
}

func TestRules_OrderAndIsolation(t *testing.T) {
	t.Parallel()

	c := NewSheetClassifier(testBranches)
	rules := c.Rules()
	if len(rules) == 0 {
		t.Fatalf("expected non-empty rule table")
	}
	if rules[0].Role != model.RoleADS {
		t.Fatalf("first rule want=%v got=%v", model.RoleADS, rules[0].Role)
	}

	// копия: правка снаружи не трогает классификатор
	rules[0] = RoleRule{Role: model.RoleUnknown}
	if got := c.Classify("ads"); got != model.RoleADS {
		t.Fatalf("mutating Rules() copy must not affect classifier, got %v", got)
	}
}

func TestClassifyAll_GroupsByRole(t *testing.T) {
	t.Parallel()

	c := NewSheetClassifier(testBranches)
	sheets := []model.RawSheet{
		{Name: "ADS"},
		{Name: "Остатки"},
		{Name: "мин запасы"},
		{Name: "случайный лист"},
	}

	byRole := c.ClassifyAll(sheets)
	if len(byRole[model.RoleADS]) != 1 {
		t.Fatalf("want 1 ads sheet, got %d", len(byRole[model.RoleADS]))
	}
	if len(byRole[model.RoleStock]) != 1 {
		t.Fatalf("want 1 stock sheet, got %d", len(byRole[model.RoleStock]))
	}
	if len(byRole[model.RoleMinTarget]) != 1 {
		t.Fatalf("want 1 min_target sheet, got %d", len(byRole[model.RoleMinTarget]))
	}
	if len(byRole[model.RoleUnknown]) != 1 {
		t.Fatalf("want 1 unknown sheet, got %d", len(byRole[model.RoleUnknown]))
	}
}
