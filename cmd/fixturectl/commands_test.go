package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	refreshOpts []usecase.RefreshOptions
	filters     []fixture.Filter
	result      fixture.PipelineResult
	refreshErr  error
	records     []fixture.Record
	closed      bool
}

func (f *fakeService) RefreshFixtures(_ context.Context, opts usecase.RefreshOptions) (fixture.PipelineResult, error) {
	f.refreshOpts = append(f.refreshOpts, opts)
	return f.result, f.refreshErr
}

func (f *fakeService) ListFixtures(_ context.Context, filter fixture.Filter) ([]fixture.Record, error) {
	f.filters = append(f.filters, filter)
	return f.records, nil
}

func execute(t *testing.T, svc *fakeService, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd(func(bool) (fixtureService, func() error, error) {
		return svc, func() error {
			svc.closed = true
			return nil
		}, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRefreshCmd(t *testing.T) {
	t.Parallel()

	svc := &fakeService{result: fixture.PipelineResult{
		Fixtures: []fixture.MergedFixture{{
			ResolvedFixture: fixture.ResolvedFixture{
				RawFixture: fixture.RawFixture{
					Date:        "2025-03-08",
					Competition: "明治安田J1リーグ",
					HomeTeam:    "柏レイソル",
					AwayTeam:    "横浜F・マリノス",
					HomeScore:   fixture.IntPtr(0),
					AwayScore:   fixture.IntPtr(2),
				},
				TrackedSide: fixture.SideAway,
				Opponent:    "柏レイソル",
				IsResult:    true,
				Key:         "2025-03-08-柏レイソル",
			},
			Sources: []fixture.Source{fixture.SourceMarinos},
		}},
		Stats: fixture.PipelineStats{Total: 1, Success: 1},
	}}

	out, err := execute(t, svc, "refresh", "--force", "--year", "2025", "--year", "2024")
	require.NoError(t, err)
	require.True(t, svc.closed)
	require.Equal(t, []usecase.RefreshOptions{{Force: true, Years: []int{2025, 2024}}}, svc.refreshOpts)

	var got refreshOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got.Fixtures, 1)
	require.Equal(t, "W", got.Fixtures[0].Outcome)
	require.Equal(t, "away", got.Fixtures[0].Side)
	require.Equal(t, 1, got.Stats.Success)
}

func TestRefreshCmd_PrintsResultWhenAllSourcesFail(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		result: fixture.PipelineResult{
			Errors: []fixture.FetchError{{Source: fixture.SourcePhew, URL: "http://phew.test", Message: "timeout"}},
		},
		refreshErr: fmt.Errorf("%w: no fixtures built", usecase.ErrDependencyUnavailable),
	}

	out, err := execute(t, svc, "refresh")
	if err == nil {
		t.Fatalf("expected refresh error")
	}

	var got refreshOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	if len(got.Errors) != 1 || got.Errors[0].Source != "phew" {
		t.Fatalf("unexpected errors: got=%+v", got.Errors)
	}
}

func TestListCmd(t *testing.T) {
	t.Parallel()

	svc := &fakeService{records: []fixture.Record{{
		SourceKey:   "2025-04-02-FC東京",
		Date:        "2025-04-02",
		Competition: "JリーグYBCルヴァンカップ",
		HomeTeam:    "横浜F・マリノス",
		AwayTeam:    "FC東京",
		Opponent:    "FC東京",
		MarinosSide: fixture.SideHome,
		Sources:     []fixture.Source{fixture.SourceJLeague, fixture.SourceGCal},
	}}}

	out, err := execute(t, svc, "list", "--year", "2025", "--competition", "ルヴァン")
	require.NoError(t, err)
	require.Equal(t, []fixture.Filter{{Year: 2025, Competition: "ルヴァン"}}, svc.filters)

	var got []recordOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got, 1)
	require.Equal(t, []string{"jleague", "gcal"}, got[0].Sources)
	require.Nil(t, got[0].HomeScore)
}

func TestListCmd_RejectsArgs(t *testing.T) {
	t.Parallel()

	if _, err := execute(t, &fakeService{}, "list", "extra"); err == nil {
		t.Fatalf("expected error for positional args")
	}
}
