package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/CronusSR/Autosort-tovar/internal/model"
	"github.com/CronusSR/Autosort-tovar/internal/parser"
)

// ErrNoBranches загрузка без единого настроенного филиала невозможна
var ErrNoBranches = errors.New("не настроен ни один филиал")

// Coordinator координатор загрузки книги.
// Роли ADS / остатки / мин. запасы / категории обрабатываются независимо:
// провал одной роли не блокирует остальные, итог — отчет о частичном успехе.
type Coordinator struct {
	classifier *parser.SheetClassifier
	mapper     *parser.ColumnMapper
	branches   []string
	logger     *zap.Logger
}

// NewCoordinator создает координатор для набора филиалов
func NewCoordinator(branches []string, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		classifier: parser.NewSheetClassifier(branches),
		mapper:     parser.NewColumnMapper(),
		branches:   branches,
		logger:     logger,
	}
}

// ImportFile загружает книгу из файла
func (c *Coordinator) ImportFile(path string) (model.Dataset, *model.ImportReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Dataset{}, nil, fmt.Errorf("открыть книгу: %w", err)
	}
	defer f.Close()
	return c.importWorkbook(f, filepath.Base(path))
}

// ImportReader загружает книгу из потока (например, из multipart-запроса)
func (c *Coordinator) ImportReader(r io.Reader, filename string) (model.Dataset, *model.ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Dataset{}, nil, fmt.Errorf("открыть книгу: %w", err)
	}
	defer f.Close()
	return c.importWorkbook(f, filename)
}

// importWorkbook читает все листы, классифицирует роли и строит
// канонический набор данных. Отсутствие листов — фатальная ошибка;
// отсутствие отдельной роли лишь помечается в отчете.
func (c *Coordinator) importWorkbook(f *excelize.File, filename string) (model.Dataset, *model.ImportReport, error) {
	start := time.Now()

	if len(c.branches) == 0 {
		return model.Dataset{}, nil, ErrNoBranches
	}

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return model.Dataset{}, nil, model.ErrNoSheets
	}

	sheets := make([]model.RawSheet, 0, len(sheetList))
	for _, name := range sheetList {
		rows, err := f.GetRows(name)
		if err != nil {
			c.logger.Warn("лист не прочитан", zap.String("sheet", name), zap.Error(err))
			continue
		}
		sheets = append(sheets, model.RawSheet{Name: name, Rows: rows})
	}

	byRole := c.classifier.ClassifyAll(sheets)
	c.logger.Info("листы классифицированы",
		zap.String("file", filename),
		zap.Int("sheets", len(sheets)),
		zap.Int("unknown", len(byRole[model.RoleUnknown])))

	report := &model.ImportReport{
		Filename:    filename,
		TotalSheets: len(sheets),
	}

	ds := model.Dataset{
		Branches: c.branches,
		Fields:   make(map[string]bool),
	}
	index := make(map[string]int) // ключ позиции -> индекс в ds.Items

	// канонический лист — первичный источник позиций
	c.processRole(report, byRole, model.RoleMinTarget, func(sheet model.RawSheet) (int, []model.RowError) {
		layout := NewCanonicalLayout(c.branches)
		items, rowErrors := BindCanonical(sheet, layout)
		for _, item := range items {
			upsert(&ds, index, item)
		}
		if len(items) > 0 {
			ds.Fields[parser.FieldName] = true
			ds.Fields[parser.FieldCategory] = true
			ds.Fields[parser.FieldAds] = true
			ds.Fields[parser.FieldStock] = true
		}
		return len(items), rowErrors
	})

	// вспомогательные роли уточняют канонический набор
	c.processRole(report, byRole, model.RoleADS, func(sheet model.RawSheet) (int, []model.RowError) {
		return c.mergeValueSheet(&ds, index, sheet, parser.FieldAds)
	})
	c.processRole(report, byRole, model.RoleStock, func(sheet model.RawSheet) (int, []model.RowError) {
		return c.mergeValueSheet(&ds, index, sheet, parser.FieldStock)
	})
	c.processRole(report, byRole, model.RoleCategory, func(sheet model.RawSheet) (int, []model.RowError) {
		return c.mergeCategorySheet(&ds, index, sheet)
	})

	report.Items = len(ds.Items)
	report.Duration = time.Since(start)

	if len(ds.Items) == 0 {
		return ds, report, model.ErrEmptyDataset
	}

	c.logger.Info("книга загружена",
		zap.String("file", filename),
		zap.Int("items", len(ds.Items)),
		zap.Duration("duration", report.Duration))

	return ds, report, nil
}

// processRole независимая обработка одной роли с записью итога в отчет
func (c *Coordinator) processRole(report *model.ImportReport, byRole map[model.Role][]model.RawSheet, role model.Role, process func(model.RawSheet) (int, []model.RowError)) {
	candidates := byRole[role]
	if len(candidates) == 0 {
		err := &model.MissingSheetError{Role: role}
		report.Roles = append(report.Roles, model.RoleResult{
			Role:   role,
			Status: "skipped",
			Errors: []string{err.Error()},
		})
		c.logger.Warn("роль пропущена", zap.String("role", string(role)))
		return
	}

	sheet := candidates[0]
	rows, rowErrors := process(sheet)
	report.RowErrors = append(report.RowErrors, rowErrors...)

	result := model.RoleResult{
		Role:      role,
		SheetName: sheet.Name,
		Status:    "processed",
		Rows:      rows,
	}
	for _, re := range rowErrors {
		result.Errors = append(result.Errors, re.Reason)
	}
	report.Roles = append(report.Roles, result)

	c.logger.Info("роль обработана",
		zap.String("role", string(role)),
		zap.String("sheet", sheet.Name),
		zap.Int("rows", rows),
		zap.Int("rowErrors", len(rowErrors)))
}

// mergeValueSheet вливает значения ADS либо остатков из листа роли.
// Лист проходит сопоставление колонок и очистку; значение относится
// к филиалу из колонки branch, без нее — к первому филиалу набора.
func (c *Coordinator) mergeValueSheet(ds *model.Dataset, index map[string]int, sheet model.RawSheet, field string) (int, []model.RowError) {
	table, mapResult := c.normalizeSheet(sheet)
	rowErrors := conflictErrors(sheet.Name, mapResult)

	cols := columnIndex(table.Headers)
	valueCol, ok := cols[field]
	if !ok {
		rowErrors = append(rowErrors, model.RowError{
			Source: sheet.Name,
			Reason: (&model.MissingColumnError{Column: field}).Error(),
		})
		return 0, rowErrors
	}

	merged := 0
	for i, row := range table.Rows {
		key := rowKey(row, cols)
		if key == "" {
			continue
		}

		branch := ds.Branches[0]
		if branchCol, ok := cols[parser.FieldBranch]; ok {
			raw := strings.TrimSpace(cell(row, branchCol))
			resolved := c.resolveBranch(raw)
			if resolved == "" {
				rowErrors = append(rowErrors, model.RowError{
					Source: sheet.Name,
					Row:    i + 1,
					Key:    key,
					Reason: fmt.Sprintf("неизвестный филиал %q", raw),
				})
				continue
			}
			branch = resolved
		}

		value, _ := parser.ParseLenient(cell(row, valueCol))
		if value < 0 {
			value = 0
		}

		item := ensureItem(ds, index, key, row, cols)
		switch field {
		case parser.FieldAds:
			item.Ads[branch] = value
		case parser.FieldStock:
			item.Stock[branch] = value
		}
		merged++
	}

	if merged > 0 {
		ds.Fields[field] = true
		for _, f := range []string{parser.FieldName, parser.FieldSKU, parser.FieldCategory, parser.FieldPrice} {
			if _, ok := cols[f]; ok {
				ds.Fields[f] = true
			}
		}
	}
	return merged, rowErrors
}

// mergeCategorySheet уточняет категории позиций из листа покрытия категорий
func (c *Coordinator) mergeCategorySheet(ds *model.Dataset, index map[string]int, sheet model.RawSheet) (int, []model.RowError) {
	table, mapResult := c.normalizeSheet(sheet)
	rowErrors := conflictErrors(sheet.Name, mapResult)

	cols := columnIndex(table.Headers)
	categoryCol, ok := cols[parser.FieldCategory]
	if !ok {
		rowErrors = append(rowErrors, model.RowError{
			Source: sheet.Name,
			Reason: (&model.MissingColumnError{Column: parser.FieldCategory}).Error(),
		})
		return 0, rowErrors
	}

	merged := 0
	for _, row := range table.Rows {
		key := rowKey(row, cols)
		if key == "" {
			continue
		}
		category := strings.TrimSpace(cell(row, categoryCol))
		if category == "" {
			continue
		}
		item := ensureItem(ds, index, key, row, cols)
		item.Category = category
		merged++
	}

	if merged > 0 {
		ds.Fields[parser.FieldCategory] = true
	}
	return merged, rowErrors
}

// normalizeSheet превращает лист роли в таблицу: первая строка —
// заголовки, затем сопоставление колонок и очистка
func (c *Coordinator) normalizeSheet(sheet model.RawSheet) (model.Table, parser.MapResult) {
	if len(sheet.Rows) == 0 {
		return model.Table{Name: sheet.Name}, parser.MapResult{}
	}

	headers := make([]string, len(sheet.Rows[0]))
	for i, h := range sheet.Rows[0] {
		if parser.IsBlank(h) {
			headers[i] = fmt.Sprintf("col_%d", i+1)
		} else {
			headers[i] = h
		}
	}

	mapResult := c.mapper.MapColumns(headers)
	table := model.Table{
		Name:    sheet.Name,
		Headers: parser.ApplyMapping(headers, mapResult),
		Rows:    copyRows(sheet.Rows[1:]),
	}
	return parser.Clean(table), mapResult
}

// resolveBranch сопоставляет сырое имя филиала настроенному набору
func (c *Coordinator) resolveBranch(raw string) string {
	normalized := parser.NormalizeName(raw)
	for _, b := range c.branches {
		if parser.NormalizeName(b) == normalized {
			return b
		}
	}
	return ""
}

// upsert добавляет позицию либо дополняет существующую с тем же ключом
func upsert(ds *model.Dataset, index map[string]int, item model.Item) *model.Item {
	if i, ok := index[item.Key]; ok {
		return &ds.Items[i]
	}
	ds.Items = append(ds.Items, item)
	index[item.Key] = len(ds.Items) - 1
	return &ds.Items[len(ds.Items)-1]
}

// ensureItem находит позицию по ключу строки либо создает новую
func ensureItem(ds *model.Dataset, index map[string]int, key string, row []string, cols map[string]int) *model.Item {
	if i, ok := index[key]; ok {
		item := &ds.Items[i]
		fillFromRow(item, row, cols)
		return item
	}
	item := model.Item{
		Key:   key,
		Ads:   make(map[string]float64),
		Stock: make(map[string]float64),
	}
	fillFromRow(&item, row, cols)
	return upsert(ds, index, item)
}

// fillFromRow дополняет позицию полями, которые есть в строке роли
func fillFromRow(item *model.Item, row []string, cols map[string]int) {
	if col, ok := cols[parser.FieldName]; ok && item.Name == "" {
		if v := strings.TrimSpace(cell(row, col)); v != "" && v != parser.TextPlaceholder {
			item.Name = v
		}
	}
	if col, ok := cols[parser.FieldSKU]; ok && item.SKU == "" {
		if v := strings.TrimSpace(cell(row, col)); v != "" && v != parser.TextPlaceholder {
			item.SKU = v
		}
	}
	if col, ok := cols[parser.FieldCategory]; ok && item.Category == "" {
		item.Category = strings.TrimSpace(cell(row, col))
	}
	if col, ok := cols[parser.FieldPrice]; ok && item.Price == 0 {
		if price, okParse := parser.ParseLenient(cell(row, col)); okParse && price > 0 {
			item.Price = price
		}
	}
}

// rowKey идентичность строки: sku приоритетнее наименования
func rowKey(row []string, cols map[string]int) string {
	if col, ok := cols[parser.FieldSKU]; ok {
		if v := strings.TrimSpace(cell(row, col)); v != "" && v != parser.TextPlaceholder {
			return v
		}
	}
	if col, ok := cols[parser.FieldName]; ok {
		if v := strings.TrimSpace(cell(row, col)); v != "" && v != parser.TextPlaceholder {
			return v
		}
	}
	return ""
}

func columnIndex(headers []string) map[string]int {
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}
	return cols
}

func conflictErrors(sheetName string, result parser.MapResult) []model.RowError {
	out := make([]model.RowError, 0, len(result.Conflicts))
	for _, conflict := range result.Conflicts {
		out = append(out, model.RowError{
			Source: sheetName,
			Reason: fmt.Sprintf("колонки %q и %q претендуют на поле %q; использована первая",
				conflict.Kept, conflict.Rejected, conflict.Field),
		})
	}
	return out
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
