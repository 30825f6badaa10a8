package model

import "time"

// RoleResult итог обработки одной роли данных.
// Роли обрабатываются независимо: провал одной не блокирует остальные.
type RoleResult struct {
	Role      Role     `json:"role"`
	SheetName string   `json:"sheetName,omitempty"`
	Status    string   `json:"status"` // processed/skipped/error
	Rows      int      `json:"rows"`
	Errors    []string `json:"errors,omitempty"`
}

// ImportReport отчет о загрузке книги: частичный успех допустим
type ImportReport struct {
	Filename    string        `json:"filename"`
	TotalSheets int           `json:"totalSheets"`
	Roles       []RoleResult  `json:"roles"`
	Items       int           `json:"items"`
	RowErrors   []RowError    `json:"rowErrors,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Processed true когда роль обработана успешно
func (r *ImportReport) Processed(role Role) bool {
	for _, rr := range r.Roles {
		if rr.Role == role && rr.Status == "processed" {
			return true
		}
	}
	return false
}
