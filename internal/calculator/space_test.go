package calculator

import (
	"testing"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

func TestAllocateShelves_FloorWithoutRedistribution(t *testing.T) {
	t.Parallel()

	stats := []model.CategoryStat{
		{Category: "К1", ItemCount: 100, AdsPercentage: 40},
		{Category: "К2", ItemCount: 50, AdsPercentage: 35},
		{Category: "К3", ItemCount: 30, AdsPercentage: 25},
	}

	allocations, err := AllocateShelves(786, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{314, 275, 196}
	total := 0
	for i, a := range allocations {
		if a.Shelves != want[i] {
			t.Fatalf("%s: want=%d got=%d", a.Category, want[i], a.Shelves)
		}
		total += a.Shelves
	}
	// усечение вниз: 314+275+196 = 785, остаток не перераспределяется
	if total != 785 {
		t.Fatalf("total shelves: want=785 got=%d", total)
	}
}

func TestAllocateShelves_ItemsPerShelf(t *testing.T) {
	t.Parallel()

	stats := []model.CategoryStat{
		{Category: "К1", ItemCount: 100, AdsPercentage: 40},
	}
	allocations, err := AllocateShelves(786, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 позиций на 314 полок
	if got := allocations[0].ItemsPerShelf; got != 0.32 {
		t.Fatalf("items per shelf: want=0.32 got=%g", got)
	}
}

func TestAllocateShelves_ZeroShelvesForTinyShare(t *testing.T) {
	t.Parallel()

	stats := []model.CategoryStat{
		{Category: "Мелочь", ItemCount: 5, AdsPercentage: 0.01},
	}
	allocations, err := AllocateShelves(100, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allocations[0].Shelves != 0 {
		t.Fatalf("tiny share must floor to 0 shelves, got %d", allocations[0].Shelves)
	}
	// деление идет на max(shelves, 1), позиций на полку без паники
	if allocations[0].ItemsPerShelf != 5 {
		t.Fatalf("items per shelf with 0 shelves: want=5 got=%g", allocations[0].ItemsPerShelf)
	}
}

func TestAllocateShelves_NegativeTotal(t *testing.T) {
	t.Parallel()

	if _, err := AllocateShelves(-1, nil); err == nil {
		t.Fatalf("negative shelf budget must be rejected")
	}
}
