package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
)

// CollectRequest scopes one source run.
type CollectRequest struct {
	Years []int
	// SeasonYear is the year hint for sources whose dates omit the year.
	SeasonYear int
}

// SourceBatch is everything one source produced in a run.
type SourceBatch struct {
	Source   fixture.Source
	Fixtures []fixture.RawFixture
	Errors   []fixture.FetchError
	// Strategy names the extraction strategy that produced Fixtures.
	Strategy string
}

// FixtureSource fetches and parses one upstream source. Collect never
// fails outright: fetch failures are reported in SourceBatch.Errors.
type FixtureSource interface {
	Name() fixture.Source
	Collect(ctx context.Context, req CollectRequest) SourceBatch
}

// DetailSource is implemented by sources whose list pages only yield stubs.
type DetailSource interface {
	FetchDetail(ctx context.Context, url string) (fixture.MatchDetail, error)
}

// NewFetchError records a failed source URL.
func NewFetchError(source fixture.Source, url string, err error, now time.Time) fixture.FetchError {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	return fixture.FetchError{
		Source:    source,
		URL:       url,
		Message:   message,
		Timestamp: now.UTC(),
	}
}
