package server

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CronusSR/Autosort-tovar/internal/calculator"
	"github.com/CronusSR/Autosort-tovar/internal/config"
	"github.com/CronusSR/Autosort-tovar/internal/exporter"
	"github.com/CronusSR/Autosort-tovar/internal/importer"
	"github.com/CronusSR/Autosort-tovar/internal/model"
	"github.com/CronusSR/Autosort-tovar/internal/store"
)

const maxUploadSize = 20 * 1024 * 1024

// Handlers обработчики API.
// Конфигурация читается и изменяется из разных запросов, поэтому
// любой доступ к cfg идет под cfgMu.
type Handlers struct {
	cfg      *config.AppConfig
	cfgMu    sync.RWMutex
	logger   *zap.Logger
	sessions *store.MemoryStore
	runs     *store.Store
	exporter *exporter.Exporter
}

// NewHandlers создает обработчики
func NewHandlers(cfg *config.AppConfig, logger *zap.Logger, sessions *store.MemoryStore, runs *store.Store, exp *exporter.Exporter) *Handlers {
	return &Handlers{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		runs:     runs,
		exporter: exp,
	}
}

// business снимок параметров расчета под блокировкой чтения
func (h *Handlers) business() config.BusinessConfig {
	h.cfgMu.RLock()
	defer h.cfgMu.RUnlock()

	b := h.cfg.Business
	b.Branches = append([]string(nil), h.cfg.Business.Branches...)
	return b
}

// Response общий формат ответа
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{Code: code, Message: message})
}

// Health проверка живости
func (h *Handlers) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

// GetConfig текущая конфигурация расчета
func (h *Handlers) GetConfig(c *gin.Context) {
	success(c, h.business())
}

// UpdateConfig обновляет параметры расчета и сохраняет config.toml.
// Новый набор филиалов действует на все последующие загрузки.
func (h *Handlers) UpdateConfig(c *gin.Context) {
	var req config.BusinessConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, 1001, "некорректные параметры")
		return
	}
	if req.DaysSupply <= 0 || req.TotalShelves <= 0 || req.SafetyFactor <= 0 {
		errorResponse(c, 1001, "параметры должны быть положительными")
		return
	}

	h.cfgMu.Lock()
	if len(req.Branches) == 0 {
		req.Branches = h.cfg.Business.Branches
	}
	h.cfg.Business = req
	if err := config.SaveConfig(h.cfg); err != nil {
		h.logger.Warn("конфигурация не сохранена", zap.Error(err))
	}
	h.cfgMu.Unlock()

	success(c, h.business())
}

// paramsRequest параметры расчета в запросе; нулевые поля берутся из конфигурации
type paramsRequest struct {
	DaysSupply       int            `json:"daysSupply"`
	TotalShelves     int            `json:"totalShelves"`
	SafetyFactor     float64        `json:"safetyFactor"`
	PackageMultiple  int            `json:"packageMultiple"`
	PackageMultiples map[string]int `json:"packageMultiples"`
}

func (h *Handlers) resolveParams(req paramsRequest) calculator.Params {
	b := h.business()
	p := calculator.Params{
		DaysSupply:       b.DaysSupply,
		TotalShelves:     b.TotalShelves,
		SafetyFactor:     b.SafetyFactor,
		PackageMultiple:  b.PackageMultiple,
		PackageMultiples: req.PackageMultiples,
	}
	if req.DaysSupply > 0 {
		p.DaysSupply = req.DaysSupply
	}
	if req.TotalShelves > 0 {
		p.TotalShelves = req.TotalShelves
	}
	if req.SafetyFactor > 0 {
		p.SafetyFactor = req.SafetyFactor
	}
	if req.PackageMultiple > 0 {
		p.PackageMultiple = req.PackageMultiple
	}
	return p
}

// CreateSession создает рабочую сессию
func (h *Handlers) CreateSession(c *gin.Context) {
	var req paramsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, 1001, "некорректные параметры")
			return
		}
	}
	session := h.sessions.CreateSession(h.resolveParams(req))
	success(c, session)
}

// GetSession состояние сессии: параметры, отчет загрузки, итоги
func (h *Handlers) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		errorResponse(c, 4004, "сессия не найдена")
		return
	}

	data := gin.H{
		"id":        session.ID,
		"createdAt": session.CreatedAt,
		"params":    session.Params,
		"loaded":    session.Dataset != nil,
	}
	if session.Report != nil {
		data["report"] = session.Report
	}
	if session.Bundle != nil {
		data["summary"] = session.Bundle.Summary
	}
	success(c, data)
}

// DeleteSession удаляет сессию
func (h *Handlers) DeleteSession(c *gin.Context) {
	h.sessions.DeleteSession(c.Param("id"))
	success(c, gin.H{"deleted": true})
}

// UploadWorkbook принимает книгу xlsx и строит канонический набор данных
func (h *Handlers) UploadWorkbook(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		errorResponse(c, 4004, "сессия не найдена")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, 1001, "загрузите файл")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		errorResponse(c, 1003, "файл слишком большой, максимум 20МБ")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" {
		errorResponse(c, 1002, "поддерживается только формат .xlsx")
		return
	}

	// координатор строится на каждую загрузку: набор филиалов мог
	// измениться через PUT /config после старта
	coordinator := importer.NewCoordinator(h.business().Branches, h.logger)
	ds, report, err := coordinator.ImportReader(file, header.Filename)
	if err != nil {
		h.logger.Warn("загрузка книги не удалась",
			zap.String("session", session.ID),
			zap.String("file", header.Filename),
			zap.Error(err))
		h.recordRun(session.ID, report, nil, "failed", err.Error())
		errorResponse(c, 2001, "обработка книги не удалась: "+err.Error())
		return
	}

	_, _ = h.sessions.UpdateSession(session.ID, func(s *store.Session) {
		s.Dataset = &ds
		s.Report = report
		s.Bundle = nil
	})
	success(c, report)
}

// Analyze анализ категорий и распределение полок по текущим данным
func (h *Handlers) Analyze(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		errorResponse(c, 4004, "сессия не найдена")
		return
	}
	if session.Dataset == nil {
		errorResponse(c, 2002, "данные не загружены")
		return
	}

	stats, err := calculator.AnalyzeCategories(*session.Dataset)
	if err != nil {
		errorResponse(c, 2003, err.Error())
		return
	}
	allocations, err := calculator.AllocateShelves(session.Params.TotalShelves, stats)
	if err != nil {
		errorResponse(c, 2003, err.Error())
		return
	}
	success(c, gin.H{"stats": stats, "allocations": allocations})
}

// GenerateOrders полный расчет: от анализа категорий до кратности упаковки
func (h *Handlers) GenerateOrders(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		errorResponse(c, 4004, "сессия не найдена")
		return
	}
	if session.Dataset == nil {
		errorResponse(c, 2002, "данные не загружены")
		return
	}

	params := session.Params
	var req paramsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, 1001, "некорректные параметры")
			return
		}
		params = h.resolveParams(req)
	}

	bundle, err := calculator.Run(*session.Dataset, params)
	if err != nil {
		errorResponse(c, 2003, err.Error())
		return
	}

	_, _ = h.sessions.UpdateSession(session.ID, func(s *store.Session) {
		s.Params = params
		s.Bundle = &bundle
	})
	h.recordRun(session.ID, session.Report, &bundle, "completed", "")
	success(c, bundle)
}

// adjustRequest ручная правка количества в строке заказа
type adjustRequest struct {
	Key      string  `json:"key"`
	Branch   string  `json:"branch"`
	Quantity float64 `json:"quantity"`
}

// AdjustOrderLine правит количество одной строки заказа.
// Количество принимается как задано, без повторного округления;
// стоимость строки и сводки пересчитываются.
func (h *Handlers) AdjustOrderLine(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, 1001, "некорректные параметры")
		return
	}
	if req.Quantity < 0 {
		errorResponse(c, 1001, "количество не может быть отрицательным")
		return
	}

	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		errorResponse(c, 4004, "сессия не найдена")
		return
	}
	if session.Bundle == nil {
		errorResponse(c, 2002, "заказы еще не рассчитаны")
		return
	}

	branches := session.Bundle.Branches
	branchNames := make([]string, len(branches))
	for i, b := range branches {
		branchNames[i] = b.Branch
	}

	found := false
	orders := make([]model.OrderLine, len(session.Bundle.Orders))
	copy(orders, session.Bundle.Orders)
	for i := range orders {
		if orders[i].Key == req.Key && orders[i].Branch == req.Branch {
			orders[i].Quantity = req.Quantity
			orders[i].Value = req.Quantity * orders[i].Price
			found = true
			break
		}
	}
	if !found {
		errorResponse(c, 4004, "строка заказа не найдена")
		return
	}

	updated := *session.Bundle
	updated.Orders = orders
	updated.Branches = calculator.SummarizeBranches(orders, branchNames)
	updated.Summary = calculator.Summarize(orders, branchNames)

	_, _ = h.sessions.UpdateSession(session.ID, func(s *store.Session) {
		s.Bundle = &updated
	})
	success(c, updated)
}

// ExportWorkbook отдает книгу результата вложением
func (h *Handlers) ExportWorkbook(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		errorResponse(c, 4004, "сессия не найдена")
		return
	}
	if session.Bundle == nil {
		errorResponse(c, 2002, "заказы еще не рассчитаны")
		return
	}

	f, err := h.exporter.Export(*session.Bundle)
	if err != nil {
		h.logger.Error("экспорт не удался", zap.String("session", session.ID), zap.Error(err))
		errorResponse(c, 2004, "экспорт не удался: "+err.Error())
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		errorResponse(c, 2004, "запись книги не удалась: "+err.Error())
		return
	}

	filename := "autosort_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ListRuns история запусков
func (h *Handlers) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		errorResponse(c, 5001, "история недоступна: "+err.Error())
		return
	}
	success(c, runs)
}

// recordRun пишет итог запуска в историю; сбой истории не ломает ответ
func (h *Handlers) recordRun(sessionID string, report *model.ImportReport, bundle *model.Bundle, status, errMessage string) {
	run := store.Run{
		SessionID:    sessionID,
		Status:       status,
		ErrorMessage: errMessage,
	}
	if report != nil {
		run.Filename = report.Filename
		run.TotalSheets = report.TotalSheets
		run.Items = report.Items
		run.RowErrors = len(report.RowErrors)
		run.DurationMs = report.Duration.Milliseconds()
	}
	if bundle != nil {
		run.Positions = bundle.Summary.Positions
		run.TotalQuantity = bundle.Summary.TotalQuantity
		run.TotalValue = bundle.Summary.TotalValue
	}
	if _, err := h.runs.CreateRun(run); err != nil {
		h.logger.Warn("запись истории не удалась", zap.Error(err))
	}
}
