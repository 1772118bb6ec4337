package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/service"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write the content store to a JSON file for the static build",
	Long:  "Write every content field as a key/value JSON object. When the store cannot be read an empty object is written so the build can fall back to defaults.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return runSnapshot(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringP("out", "o", "src/content/site.json", "Output file")
}

func runSnapshot(cmd *cobra.Command, out string) error {
	ctx := cmd.Context()
	content := map[string]string{}

	env, err := openEnvironment(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; writing empty snapshot\n", err)
	} else {
		defer env.Close()
		svc := service.NewContentService(env.stores.ContentRepository(*env.cfg), nil, env.logger, env.cfg.Content.MaxValueLength)
		all, err := svc.All(ctx)
		if err != nil {
			env.logger.Warn("unable to read content; writing empty snapshot", zap.Error(err))
		} else {
			content = all
		}
	}

	if err := writeSnapshot(out, content); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d items to %s\n", len(content), out)
	return nil
}

func writeSnapshot(path string, content map[string]string) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
