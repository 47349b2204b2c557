// Package report exposes the report read endpoints.
package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finboard/finboard/pkg/adapters"
	"github.com/finboard/finboard/pkg/models/api"
	"github.com/finboard/finboard/pkg/models/domain"
	reportsvc "github.com/finboard/finboard/pkg/services/report"
	"github.com/finboard/finboard/pkg/services/source"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	dateLayout = "2006-01-02"
	// Reports default to the trailing 30 days when no range is given.
	defaultRangeDays = 30
	tenantHeader     = "X-Tenant-ID"
	defaultTenant    = "default"
)

type Handler struct {
	assembler *reportsvc.Assembler
}

func NewHandler(assembler *reportsvc.Assembler) *Handler {
	return &Handler{assembler: assembler}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/{kind}", h.GetReport)
	r.Get("/subjects/{id}/engagement", h.GetEngagement)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	kind := reportsvc.Kind(chi.URLParam(r, "kind"))
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	model, err := h.assembler.BuildReport(ctx, scopeFrom(r), kind, rng, page)
	if err != nil {
		var fe *source.FetchError
		if errors.As(err, &fe) {
			logger.Error().Err(err).Str("kind", string(kind)).Msg("record source unavailable")
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, adapters.MapReportDomainToApi(model))
}

func (h *Handler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	subjectID := chi.URLParam(r, "id")

	model, err := h.assembler.Engagement(ctx, scopeFrom(r), subjectID)
	if err != nil {
		logger.Error().Err(err).Str("subject_id", subjectID).Msg("record source unavailable")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, adapters.MapReportDomainToApi(model))
}

func scopeFrom(r *http.Request) reportsvc.Scope {
	tenant := r.Header.Get(tenantHeader)
	if tenant == "" {
		tenant = defaultTenant
	}
	return reportsvc.Scope{TenantID: tenant}
}

func parseRange(r *http.Request) (domain.DateRange, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	rng := domain.DateRange{From: now.AddDate(0, 0, -defaultRangeDays), To: now}

	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			return domain.DateRange{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		rng.From = parsed
	}
	if to := r.URL.Query().Get("to"); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			return domain.DateRange{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		rng.To = parsed
	}
	if rng.To.Before(rng.From) {
		return domain.DateRange{}, errors.New("date range end precedes start")
	}
	return rng, nil
}

func parsePage(r *http.Request) (domain.Page, error) {
	var page domain.Page
	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return domain.Page{}, errors.New("invalid offset")
		}
		page.Offset = n
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return domain.Page{}, errors.New("invalid limit")
		}
		page.Limit = &n
	}
	return page, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.Error{Error: msg})
}
