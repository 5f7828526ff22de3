package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"fyp-portal/internal/scoring"
)

func (a *app) recommendCommand() *cobra.Command {
	var (
		keywords string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank available faculty for a comma-separated keyword list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, e *env, out io.Writer) error {
				recs, err := e.svc.Recommendation.RankForKeywords(ctx, scoring.ParseKeywords(keywords), limit)
				if err != nil {
					return err
				}
				return a.emit(out, recs, func(w io.Writer) error {
					return recommendationsTable(w, recs)
				})
			})
		},
	}

	cmd.Flags().StringVar(&keywords, "keywords", "", "project keywords, e.g. \"ml, vision\"")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of faculty to show (0 for all)")
	return cmd
}
