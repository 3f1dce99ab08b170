package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/va6996/agenttools/config"
	"github.com/va6996/agenttools/log"
	"github.com/va6996/agenttools/orm"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and prune the tool invocation audit log",
		Long:  `audit reads the database configured by audit.driver and audit.dsn (AUDIT_DRIVER, AUDIT_DSN).`,
	}
	cmd.AddCommand(newAuditListCmd(opts), newAuditCleanupCmd(opts))
	return cmd
}

func newAuditListCmd(opts *rootOptions) *cobra.Command {
	var (
		tool  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent invocations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeDB, err := openAudit(ctx, opts)
			if err != nil {
				return err
			}
			defer closeDB()

			rows, err := store.ListInvocations(ctx, tool, limit)
			if err != nil {
				return fmt.Errorf("failed to list invocations: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, r := range rows {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%dms\t%s",
					r.CreatedAt.Format(time.RFC3339), r.RequestID, r.Tool, r.Outcome, r.DurationMS, r.Parameters)
				if r.Error != "" {
					fmt.Fprintf(out, "\t%s", r.Error)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tool, "tool", "", "Only show invocations of this tool")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of rows (0 for all)")
	return cmd
}

func newAuditCleanupCmd(opts *rootOptions) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete invocations older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			ctx := cmd.Context()
			store, closeDB, err := openAudit(ctx, opts)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := store.CleanupInvocations(ctx, olderThan)
			if err != nil {
				return fmt.Errorf("failed to clean up invocations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d invocation(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Retention window")
	return cmd
}

func openAudit(ctx context.Context, opts *rootOptions) (*orm.InvocationStore, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Init(cfg.Log.Level)

	if cfg.Audit.Driver == "" {
		return nil, nil, errors.New("audit log not configured (set audit.driver or AUDIT_DRIVER)")
	}
	db, err := orm.Open(cfg.Audit.Driver, cfg.Audit.DSN)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf(ctx, "Opened %s audit log", cfg.Audit.Driver)

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return orm.NewInvocationStore(db), closeDB, nil
}
