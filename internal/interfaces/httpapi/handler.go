package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RefreshFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshFixtures")
	defer span.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err))
		return
	}

	var req refreshFixturesRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := strictJSON.Unmarshal(body, &req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.fixtureService.RefreshFixtures(ctx, usecase.RefreshOptions{
		Force: req.Force,
		Years: req.Years,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "refresh fixtures failed",
			"force", req.Force,
			"years", req.Years,
			"source_errors", len(result.Errors),
			"error", err,
		)
		if errors.Is(err, usecase.ErrDependencyUnavailable) {
			writeErrorWithData(ctx, w, err, pipelineResultToDTO(result, h.now().UTC()))
			return
		}
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "fixtures refreshed",
		"fixtures", len(result.Fixtures),
		"source_errors", len(result.Errors),
		"failed", result.Stats.Failed,
	)
	writeSuccess(ctx, w, http.StatusOK, pipelineResultToDTO(result, h.now().UTC()))
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	filter := fixture.Filter{
		Competition: strings.TrimSpace(r.URL.Query().Get("competition")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: year must be an integer", usecase.ErrInvalidInput))
			return
		}
		filter.Year = year
	}

	records, err := h.fixtureService.ListFixtures(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "year", filter.Year, "competition", filter.Competition, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureRecordsToDTO(records))
}
