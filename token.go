package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/windham/commodity-api/pkg/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		username string
		admin    bool
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 token signed with SECRET_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.IssueToken(cfg.Auth.SecretKey, username, admin, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username claim")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the isAdmin claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default from AUTH_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
