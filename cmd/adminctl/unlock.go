package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pollux-site/site-admin/internal/repository"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Clear the failed login counter for a client address",
	RunE: func(cmd *cobra.Command, args []string) error {
		ip, _ := cmd.Flags().GetString("ip")

		env, err := openEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		repo := env.stores.AttemptRepository(*env.cfg)
		if repo == nil {
			return fmt.Errorf("no login attempt store configured (RATE_LIMIT_STORE=%s)", env.cfg.RateLimit.Store)
		}
		return runUnlock(cmd.Context(), repo, ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(unlockCmd)
	unlockCmd.Flags().String("ip", "", "Client address as seen by the login limiter (required)")
	unlockCmd.MarkFlagRequired("ip")
}

// runUnlock deletes the attempt record directly. Unlike the login path, a
// store failure is reported to the operator.
func runUnlock(ctx context.Context, repo repository.AttemptRepository, ip string, out io.Writer) error {
	if err := repo.Delete(ctx, ip); err != nil {
		return fmt.Errorf("clear login attempts for %s: %w", ip, err)
	}
	fmt.Fprintf(out, "cleared login attempts for %s\n", ip)
	return nil
}
