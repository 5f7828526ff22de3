package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and revoke access tokens",
	}
	cmd.AddCommand(a.tokenIssueCommand(), a.tokenRevokeCommand())
	return cmd
}

func (a *app) tokenIssueCommand() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign an access token for an existing user",
		Long: `Sign an access token for an existing user. Role and department
come from the user record. Without --ttl the configured
auth.access_token_ttl is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, e *env, out io.Writer) error {
				tok, err := e.svc.Auth.IssueToken(ctx, userID, ttl)
				if err != nil {
					return err
				}
				return a.emit(out, tok, func(w io.Writer) error {
					if err := renderTable(w, []string{"Token", ""}, [][]string{
						{"user", fmt.Sprintf("%s (%s)", tok.User.FullName, tok.User.Role)},
						{"jti", tok.TokenID},
						{"expires at", tok.ExpiresAt},
					}); err != nil {
						return err
					}
					_, err := fmt.Fprintln(w, tok.AccessToken)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, e.g. 12h")
	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	return cmd
}

func (a *app) tokenRevokeCommand() *cobra.Command {
	var (
		jti string
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Blacklist a token id until it would have expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, e *env, out io.Writer) error {
				if err := e.svc.Auth.Revoke(ctx, jti, ttl); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "revoked %s for %s\n", jti, ttl)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&jti, "jti", "", "token id (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "how long to keep the token blacklisted (required)")
	for _, name := range []string{"jti", "ttl"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}
