package calculator

import (
	"fmt"

	"github.com/CronusSR/Autosort-tovar/internal/model"
)

// AllocateShelves распределяет полки пропорционально доле продаж категории.
// shelves = floor(ads_percentage/100 × totalShelves); остаток от усечения
// не перераспределяется — сумма полок может быть меньше totalShelves.
// Это зафиксированное поведение, вопрос о судьбе остатка открыт у владельца
// продукта; молча "чинить" его здесь нельзя.
func AllocateShelves(totalShelves int, stats []model.CategoryStat) ([]model.SpaceAllocation, error) {
	if totalShelves < 0 {
		return nil, fmt.Errorf("число полок не может быть отрицательным: %d", totalShelves)
	}

	allocations := make([]model.SpaceAllocation, 0, len(stats))
	for _, stat := range stats {
		shelves := int(stat.AdsPercentage / 100 * float64(totalShelves))
		divisor := shelves
		if divisor < 1 {
			divisor = 1
		}
		allocations = append(allocations, model.SpaceAllocation{
			Category:      stat.Category,
			Shelves:       shelves,
			Percentage:    stat.AdsPercentage,
			ItemsPerShelf: round2(float64(stat.ItemCount) / float64(divisor)),
		})
	}
	return allocations, nil
}
