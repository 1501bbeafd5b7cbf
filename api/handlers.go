/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and the store.

ENDPOINTS:
  Payroll:
    GET    /api/organizations/{orgID}/payroll?start=&end=      Summary JSON
    GET    /api/organizations/{orgID}/payroll/export.csv        Flat CSV table
    GET    /api/organizations/{orgID}/payroll/export.xlsx       XLSX workbook

  Data:
    GET    /api/organizations/{orgID}/employees                 List employees
    POST   /api/organizations/{orgID}/employees                 Create/update employee
    POST   /api/organizations/{orgID}/shifts                    Record a shift

  Calculators:
    POST   /api/classify                                        Price one shift
    GET    /api/tax/withholding?weekly=&threshold=              Weekly PAYG
    GET    /api/super?earnings=                                 Super guarantee

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call the engine (or serve a cached summary)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid dates, bodies or query values
  - 404: Unknown scenario
  - 502: Employee or shift provider failed
  - 500: Internal errors

CACHING:
  Summaries are cached per (organization, start, end). Employee and shift
  writes invalidate the organization's entries.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/award"
	"github.com/warp/payroll-engine/cache"
	"github.com/warp/payroll-engine/export"
	"github.com/warp/payroll-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  store.Store
	Engine *award.Engine
	Cache  cache.Cache
	Logger *zap.Logger
}

// NewHandler creates a handler. A nil cache disables summary caching.
func NewHandler(s store.Store, engine *award.Engine, c cache.Cache, logger *zap.Logger) *Handler {
	if c == nil {
		c = cache.NewMemory(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: s, Engine: engine, Cache: c, Logger: logger}
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetPayroll returns the organization's payroll summary.
// GET /api/organizations/{orgID}/payroll?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := chi.URLParam(r, "orgID")

	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use start and end as YYYY-MM-DD)", err)
		return
	}

	key := cache.SummaryKey(orgID, period.Start.Format(dateLayout), period.End.Format(dateLayout))
	data, ok, err := h.Cache.Get(ctx, key)
	if err != nil {
		h.Logger.Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	summary, err := h.Engine.Summarize(ctx, award.OrganizationID(orgID), period)
	if err != nil {
		writeSummaryError(w, err)
		return
	}

	data, err = json.Marshal(toSummaryDTO(summary))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode summary", err)
		return
	}
	if err := h.Cache.Set(ctx, orgID, key, data); err != nil {
		h.Logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
	writeRaw(w, http.StatusOK, data)
}

// ExportCSV streams the flat payroll table as CSV.
// GET /api/organizations/{orgID}/payroll/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", export.CSV)
}

// ExportXLSX streams the payroll workbook.
// GET /api/organizations/{orgID}/payroll/export.xlsx
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.XLSX)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(w io.Writer, s *award.Summary) error) {
	orgID := chi.URLParam(r, "orgID")

	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use start and end as YYYY-MM-DD)", err)
		return
	}

	summary, err := h.Engine.Summarize(r.Context(), award.OrganizationID(orgID), period)
	if err != nil {
		writeSummaryError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, summary); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(summary, ext)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func periodFromQuery(r *http.Request) (award.Period, error) {
	q := r.URL.Query()
	return award.ParsePeriod(q.Get("start"), q.Get("end"))
}

func writeSummaryError(w http.ResponseWriter, err error) {
	switch {
	case award.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid payroll request", err)
	case award.IsProviderFailure(err):
		writeError(w, http.StatusBadGateway, "Failed to load payroll data", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to compute payroll", err)
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns every employee of the organization, active or not.
// GET /api/organizations/{orgID}/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee.
// POST /api/organizations/{orgID}/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := chi.URLParam(r, "orgID")

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required", nil)
		return
	}
	if req.PayRate != "" {
		rate, err := decimal.NewFromString(strings.TrimSpace(req.PayRate))
		if err != nil || rate.IsNegative() {
			writeError(w, http.StatusBadRequest, "pay_rate must be a non-negative number", err)
			return
		}
	}

	if err := h.ensureOrganization(ctx, orgID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save organization", err)
		return
	}

	emp, err := h.Store.SaveEmployee(ctx, store.Employee{
		ID:                 req.ID,
		OrganizationID:     orgID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              strings.TrimSpace(req.Email),
		PayRate:            strings.TrimSpace(req.PayRate),
		EmploymentType:     req.EmploymentType,
		NoTaxFreeThreshold: req.NoTaxFreeThreshold,
		Active:             req.Active == nil || *req.Active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	h.invalidate(ctx, orgID)
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// CreateShift records a worked shift.
// POST /api/organizations/{orgID}/shifts
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := chi.URLParam(r, "orgID")

	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.EmployeeEmail) == "" {
		writeError(w, http.StatusBadRequest, "employee_email is required", nil)
		return
	}
	start, end, err := parseShiftTimes(req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift times (use RFC 3339)", err)
		return
	}
	if req.BreakMinutes < 0 {
		writeError(w, http.StatusBadRequest, "break_minutes must not be negative", nil)
		return
	}

	if err := h.ensureOrganization(ctx, orgID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save organization", err)
		return
	}

	shift, err := h.Store.SaveShift(ctx, store.Shift{
		ID:              req.ID,
		OrganizationID:  orgID,
		EmployeeEmail:   strings.TrimSpace(req.EmployeeEmail),
		StartTime:       start,
		EndTime:         end,
		BreakMinutes:    req.BreakMinutes,
		IsPublicHoliday: req.IsPublicHoliday,
		Active:          req.Active == nil || *req.Active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}

	h.invalidate(ctx, orgID)
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

func parseShiftTimes(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_time: %w", err)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_time: %w", err)
	}
	return s, e, nil
}

func (h *Handler) ensureOrganization(ctx context.Context, orgID string) error {
	if orgID == "" {
		return errors.New("organization id is required")
	}
	return h.Store.SaveOrganization(ctx, store.Organization{ID: orgID})
}

func (h *Handler) invalidate(ctx context.Context, orgID string) {
	if err := h.Cache.InvalidateOrg(ctx, orgID); err != nil {
		h.Logger.Warn("summary cache invalidation failed", zap.String("org", orgID), zap.Error(err))
	}
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// Classify prices one ad-hoc shift for a pay rate and employment type.
// POST /api/classify
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, end, err := parseShiftTimes(req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift times (use RFC 3339)", err)
		return
	}
	if req.BreakMinutes < 0 {
		writeError(w, http.StatusBadRequest, "break_minutes must not be negative", nil)
		return
	}
	rate := decimal.Zero
	if req.PayRate != "" {
		rate, err = decimal.NewFromString(strings.TrimSpace(req.PayRate))
		if err != nil || rate.IsNegative() {
			writeError(w, http.StatusBadRequest, "pay_rate must be a non-negative number", err)
			return
		}
	}

	a := h.Engine.Award
	cfg := a.ClassifierConfig()
	cfg.Location = h.Engine.Config.Location

	shift := award.Shift{
		ID:              "adhoc",
		StartTime:       start,
		EndTime:         end,
		BreakMinutes:    req.BreakMinutes,
		IsPublicHoliday: req.IsPublicHoliday,
	}
	hours := award.Classify(shift, cfg)
	earnings := award.PriceHours(hours, rate, a.RatesFor(award.ParseEmploymentType(req.EmploymentType)))

	writeJSON(w, http.StatusOK, ClassifyResponse{
		DayCategory: award.DayCategoryOf(shift, cfg).String(),
		TotalHours:  money(hours.Total),
		Hours:       toBucketsDTO(hours.Buckets),
		Earnings:    toBucketsDTO(earnings.Buckets),
		GrossPay:    money(earnings.Total()),
		Anomalies:   toAnomalyDTOs(award.CheckShift(shift)),
	})
}

// TaxWithholding returns the weekly PAYG withholding.
// GET /api/tax/withholding?weekly=1000&threshold=true
func (h *Handler) TaxWithholding(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weekly, err := decimal.NewFromString(q.Get("weekly"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "weekly must be a number", err)
		return
	}
	claims := true
	if v := q.Get("threshold"); v != "" {
		claims, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "threshold must be true or false", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, TaxResponse{
		WeeklyGross:     money(weekly),
		ClaimsThreshold: claims,
		Withholding:     money(h.Engine.Award.Tax.Withholding(weekly, claims)),
	})
}

// Super returns the superannuation guarantee on ordinary time earnings.
// GET /api/super?earnings=240
func (h *Handler) Super(w http.ResponseWriter, r *http.Request) {
	earnings, err := decimal.NewFromString(r.URL.Query().Get("earnings"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "earnings must be a number", err)
		return
	}
	rate := h.Engine.Award.SuperRate
	writeJSON(w, http.StatusOK, SuperResponse{
		Earnings: money(earnings),
		Rate:     rate.String(),
		Super:    money(award.SuperAt(earnings, rate)),
	})
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
