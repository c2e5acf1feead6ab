package marinos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/marinos-fixtures/external/webfetch"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

type pageStub struct {
	pages map[string][]byte
	calls int
}

func (s *pageStub) Fetch(_ context.Context, url string) (webfetch.Page, error) {
	s.calls++
	body, ok := s.pages[url]
	if !ok {
		return webfetch.Page{}, errors.New("connection reset")
	}
	return webfetch.Page{URL: url, Body: body, StatusCode: 200, Attempts: 1}, nil
}

func newTestSource(fetcher, renderer webfetch.Fetcher) *Source {
	return NewSource(SourceConfig{
		ScheduleURL: "https://club.test/schedule",
		ResultURL:   "https://club.test/result",
		Fetcher:     fetcher,
		Renderer:    renderer,
		Parser:      newTestParser(),
		Logger:      logging.NewNop(),
		Now:         func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func TestSourceCollect_BothPages(t *testing.T) {
	t.Parallel()

	plain := &pageStub{pages: map[string][]byte{
		"https://club.test/schedule": readTestdata(t, "schedule.html"),
		"https://club.test/result":   readTestdata(t, "result.html"),
	}}
	batch := newTestSource(plain, nil).Collect(context.Background(), usecase.CollectRequest{SeasonYear: 2025})

	if batch.Source != fixture.SourceMarinos || len(batch.Errors) != 0 {
		t.Fatalf("unexpected batch: source=%q errors=%+v", batch.Source, batch.Errors)
	}
	if len(batch.Fixtures) != 4 {
		t.Fatalf("unexpected fixture count: got=%d want=4", len(batch.Fixtures))
	}
	if batch.Strategy != "blocks,text" {
		t.Fatalf("unexpected strategy: got=%q want=blocks,text", batch.Strategy)
	}
}

func TestSourceCollect_RendersEmptyShell(t *testing.T) {
	t.Parallel()

	plain := &pageStub{pages: map[string][]byte{
		"https://club.test/schedule": readTestdata(t, "shell.html"),
		"https://club.test/result":   readTestdata(t, "result.html"),
	}}
	renderer := &pageStub{pages: map[string][]byte{
		"https://club.test/schedule": readTestdata(t, "schedule.html"),
	}}
	batch := newTestSource(plain, renderer).Collect(context.Background(), usecase.CollectRequest{SeasonYear: 2025})

	if renderer.calls != 1 {
		t.Fatalf("unexpected render count: got=%d want=1", renderer.calls)
	}
	if len(batch.Fixtures) != 4 {
		t.Fatalf("unexpected fixture count: got=%d want=4", len(batch.Fixtures))
	}
	if batch.Strategy != "rendered-blocks,text" {
		t.Fatalf("unexpected strategy: got=%q", batch.Strategy)
	}
}

func TestSourceCollect_FetchErrorPerPage(t *testing.T) {
	t.Parallel()

	plain := &pageStub{pages: map[string][]byte{
		"https://club.test/result": readTestdata(t, "result.html"),
	}}
	batch := newTestSource(plain, nil).Collect(context.Background(), usecase.CollectRequest{SeasonYear: 2025})

	if len(batch.Errors) != 1 || batch.Errors[0].URL != "https://club.test/schedule" {
		t.Fatalf("unexpected errors: %+v", batch.Errors)
	}
	if len(batch.Fixtures) != 2 {
		t.Fatalf("unexpected fixture count: got=%d want=2", len(batch.Fixtures))
	}
}
