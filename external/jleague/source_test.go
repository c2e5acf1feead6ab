package jleague

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
	err   error
	calls []string
}

func (s *pageStub) Fetch(_ context.Context, url string) (webfetch.Page, error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return webfetch.Page{}, s.err
	}
	body, ok := s.pages[url]
	if !ok {
		return webfetch.Page{}, errors.New("not found")
	}
	return webfetch.Page{URL: url, Body: body, StatusCode: 200, Attempts: 1}, nil
}

func newTestSource(fetcher webfetch.Fetcher) *Source {
	return NewSource(SourceConfig{
		SearchURL: "https://example.test/search",
		Fetcher:   fetcher,
		Parser:    newTestParser(),
		Logger:    logging.NewNop(),
		Now:       func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func TestSourceCollect_ParsesSearchPage(t *testing.T) {
	t.Parallel()

	stub := &pageStub{pages: map[string][]byte{"https://example.test/search": readTestdata(t, "search.html")}}
	batch := newTestSource(stub).Collect(context.Background(), usecase.CollectRequest{SeasonYear: 2025})

	if batch.Source != fixture.SourceJLeague || batch.Strategy != "headings" {
		t.Fatalf("unexpected batch header: source=%q strategy=%q", batch.Source, batch.Strategy)
	}
	if len(batch.Fixtures) != 3 || len(batch.Errors) != 0 {
		t.Fatalf("unexpected batch: fixtures=%d errors=%d", len(batch.Fixtures), len(batch.Errors))
	}
}

func TestSourceCollect_FetchFailureBecomesFetchError(t *testing.T) {
	t.Parallel()

	stub := &pageStub{err: webfetch.ErrFetchFailed}
	batch := newTestSource(stub).Collect(context.Background(), usecase.CollectRequest{SeasonYear: 2025})

	if len(batch.Fixtures) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(batch.Fixtures))
	}
	if len(batch.Errors) != 1 {
		t.Fatalf("unexpected error count: got=%d want=1", len(batch.Errors))
	}
	got := batch.Errors[0]
	if got.Source != fixture.SourceJLeague || got.URL != "https://example.test/search" || got.Message == "" {
		t.Fatalf("unexpected fetch error: %+v", got)
	}
	if !got.Timestamp.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp: %v", got.Timestamp)
	}
}

func TestSourceFetchDetail(t *testing.T) {
	t.Parallel()

	stub := &pageStub{pages: map[string][]byte{
		"https://www.jleague.jp/match/j1/2025/021501": readTestdata(t, "detail.html"),
		"https://www.jleague.jp/match/j1/2025/999999": []byte(`<html><body></body></html>`),
	}}
	source := newTestSource(stub)

	detail, err := source.FetchDetail(context.Background(), "https://www.jleague.jp/match/j1/2025/021501")
	if err != nil {
		t.Fatalf("FetchDetail returned error: %v", err)
	}
	if !detail.HasScore() {
		t.Fatalf("expected detail score")
	}

	if _, err := source.FetchDetail(context.Background(), "https://www.jleague.jp/match/j1/2025/999999"); err == nil {
		t.Fatalf("expected empty detail page to fail")
	}
}
