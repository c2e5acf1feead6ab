package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
	"github.com/spf13/cobra"
)

type fixtureService interface {
	RefreshFixtures(ctx context.Context, opts usecase.RefreshOptions) (fixture.PipelineResult, error)
	ListFixtures(ctx context.Context, filter fixture.Filter) ([]fixture.Record, error)
}

// serviceOpener builds the fixture service and a func releasing it.
type serviceOpener func(verbose bool) (fixtureService, func() error, error)

func newRootCmd(open serviceOpener) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:          "fixturectl",
		Short:        "Scrape, merge and query Yokohama F. Marinos fixtures",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	withService := func(run func(cmd *cobra.Command, svc fixtureService) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) (err error) {
			svc, closeFn, err := open(verbose)
			if err != nil {
				return fmt.Errorf("build fixture service: %w", err)
			}
			defer func() {
				if closeErr := closeFn(); closeErr != nil && err == nil {
					err = closeErr
				}
			}()
			return run(cmd, svc)
		}
	}

	cmd.AddCommand(newRefreshCmd(withService), newListCmd(withService))
	return cmd
}

type serviceRunner func(run func(cmd *cobra.Command, svc fixtureService) error) func(*cobra.Command, []string) error

func newRefreshCmd(withService serviceRunner) *cobra.Command {
	var (
		force bool
		years []int
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run every enabled source, store the merged fixtures and print the result as JSON",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&force, "force", false, "bypass the cached result of a recent run")
	cmd.Flags().IntSliceVar(&years, "year", nil, "limit output to these seasons (repeatable)")
	cmd.RunE = withService(func(cmd *cobra.Command, svc fixtureService) error {
		result, err := svc.RefreshFixtures(cmd.Context(), usecase.RefreshOptions{Force: force, Years: years})
		if err != nil && len(result.Errors) == 0 {
			return err
		}
		if writeErr := writeJSON(cmd.OutOrStdout(), toRefreshOutput(result, time.Now())); writeErr != nil {
			return writeErr
		}
		return err
	})
	return cmd
}

func newListCmd(withService serviceRunner) *cobra.Command {
	var filter fixture.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored fixtures as JSON",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().IntVar(&filter.Year, "year", 0, "only fixtures dated in this year")
	cmd.Flags().StringVar(&filter.Competition, "competition", "", "only competitions containing this text")
	cmd.RunE = withService(func(cmd *cobra.Command, svc fixtureService) error {
		records, err := svc.ListFixtures(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), toRecordOutputs(records))
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := sonic.ConfigDefault.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
