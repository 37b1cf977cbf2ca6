package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack_backend/internal/common"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/stats"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tools are the components the maintenance commands run against.
type tools struct {
	Logger      *zap.Logger
	Operator    *role.Operator
	Snapshotter *stats.Snapshotter
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fittrack",
		Short:        "FitTrack API server and maintenance commands",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return serve() },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default)",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve() },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTools(func(t *tools) error {
					t.Logger.Info("Migration finished.")
					return nil
				})
			},
		},
		newRolesCmd(),
		newStatsCmd(),
	)
	return root
}

// withTools loads configuration, wires the maintenance components and runs fn.
func withTools(fn func(*tools) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	t, cleanup, err := initializeTools(cfg)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer cleanup()
	return fn(t)
}

func newRolesCmd() *cobra.Command {
	var email, roleName string
	parse := func() (common.Role, error) {
		r, ok := common.ParseRole(roleName)
		if !ok {
			return "", fmt.Errorf("unknown role %q (want admin or user)", roleName)
		}
		return r, nil
	}

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Grant or revoke roles by email, bypassing row policies",
	}
	grantCmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant a role to the profile with the given email",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parse()
			if err != nil {
				return err
			}
			return withTools(func(t *tools) error {
				a, err := t.Operator.GrantByEmail(cmd.Context(), email, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s (%s)\n", a.Role, email, a.UserID)
				return nil
			})
		},
	}
	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a role from the profile with the given email",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parse()
			if err != nil {
				return err
			}
			return withTools(func(t *tools) error {
				if err := t.Operator.RevokeByEmail(cmd.Context(), email, r); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %s from %s\n", r, email)
				return nil
			})
		},
	}
	for _, c := range []*cobra.Command{grantCmd, revokeCmd} {
		c.Flags().StringVar(&email, "email", "", "profile email")
		c.Flags().StringVar(&roleName, "role", "", "role name: admin or user")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("role")
	}
	rolesCmd.AddCommand(grantCmd, revokeCmd)
	return rolesCmd
}

func newStatsCmd() *cobra.Command {
	var date string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Stats maintenance",
	}
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write stats snapshots for every profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if date != "" {
				parsed, err := time.Parse(stats.DateLayout, date)
				if err != nil {
					return fmt.Errorf("--date must use YYYY-MM-DD: %w", err)
				}
				at = parsed
			}
			return withTools(func(t *tools) error {
				res, err := t.Snapshotter.Run(cmd.Context(), at)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d profiles, %d written, %d failed\n", res.Date, res.Profiles, res.Written, res.Failed)
				if res.Failed > 0 {
					return fmt.Errorf("%d snapshots failed", res.Failed)
				}
				return nil
			})
		},
	}
	snapshotCmd.Flags().StringVar(&date, "date", "", "calendar day to snapshot (default today)")
	statsCmd.AddCommand(snapshotCmd)
	return statsCmd
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("FATAL: Failed to load configuration: %v", err)
		return err
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Printf("FATAL: Failed to initialize server: %v", err)
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case sig := <-quit:
		log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
		return err
	}
	log.Println("INFO: Server shutdown complete.")
	return nil
}
