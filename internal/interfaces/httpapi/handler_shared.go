package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

type Handler struct {
	fixtureService *usecase.FixtureService
	logger         *logging.Logger
	validator      *validator.Validate
	now            func() time.Time
}

func NewHandler(fixtureService *usecase.FixtureService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService: fixtureService,
		logger:         logger,
		validator:      validator.New(),
		now:            time.Now,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type refreshFixturesRequest struct {
	Force bool  `json:"force"`
	Years []int `json:"years" validate:"omitempty,max=20,dive,gte=1900,lte=9999"`
}

type fixtureRecordDTO struct {
	SourceKey   string   `json:"sourceKey"`
	Date        string   `json:"date"`
	Kickoff     string   `json:"kickoff,omitempty"`
	Competition string   `json:"competition"`
	RoundLabel  string   `json:"roundLabel,omitempty"`
	RoundNumber int      `json:"roundNumber,omitempty"`
	HomeTeam    string   `json:"homeTeam"`
	AwayTeam    string   `json:"awayTeam"`
	Opponent    string   `json:"opponent"`
	Stadium     string   `json:"stadium,omitempty"`
	MarinosSide string   `json:"marinosSide"`
	HomeScore   *int     `json:"homeScore"`
	AwayScore   *int     `json:"awayScore"`
	IsResult    bool     `json:"isResult"`
	Outcome     string   `json:"outcome,omitempty"`
	MatchURL    string   `json:"matchUrl,omitempty"`
	Sources     []string `json:"sources"`
	UpdatedAt   string   `json:"updatedAt"`
}

type fetchErrorDTO struct {
	Source    string `json:"source"`
	URL       string `json:"url"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type pipelineStatsDTO struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type refreshFixturesDTO struct {
	Fixtures      []fixtureRecordDTO `json:"fixtures"`
	ResultCount   int                `json:"resultCount"`
	UpcomingCount int                `json:"upcomingCount"`
	Errors        []fetchErrorDTO    `json:"errors"`
	Stats         pipelineStatsDTO   `json:"stats"`
}

func fixtureRecordToDTO(v fixture.Record) fixtureRecordDTO {
	sources := make([]string, 0, len(v.Sources))
	for _, source := range v.Sources {
		sources = append(sources, string(source))
	}

	return fixtureRecordDTO{
		SourceKey:   v.SourceKey,
		Date:        v.Date,
		Kickoff:     v.Kickoff,
		Competition: v.Competition,
		RoundLabel:  v.RoundLabel,
		RoundNumber: v.RoundNumber,
		HomeTeam:    v.HomeTeam,
		AwayTeam:    v.AwayTeam,
		Opponent:    v.Opponent,
		Stadium:     v.Stadium,
		MarinosSide: string(v.MarinosSide),
		HomeScore:   v.HomeScore,
		AwayScore:   v.AwayScore,
		IsResult:    v.IsResult,
		Outcome:     v.Outcome,
		MatchURL:    v.MatchURL,
		Sources:     sources,
		UpdatedAt:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func fixtureRecordsToDTO(items []fixture.Record) []fixtureRecordDTO {
	out := make([]fixtureRecordDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureRecordToDTO(item))
	}
	return out
}

func pipelineResultToDTO(result fixture.PipelineResult, now time.Time) refreshFixturesDTO {
	errs := make([]fetchErrorDTO, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, fetchErrorDTO{
			Source:    string(e.Source),
			URL:       e.URL,
			Message:   e.Message,
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	return refreshFixturesDTO{
		Fixtures:      fixtureRecordsToDTO(fixture.ToRecords(result.Fixtures, now)),
		ResultCount:   len(result.Results),
		UpcomingCount: len(result.Upcoming),
		Errors:        errs,
		Stats: pipelineStatsDTO{
			Total:   result.Stats.Total,
			Success: result.Stats.Success,
			Failed:  result.Stats.Failed,
		},
	}
}
