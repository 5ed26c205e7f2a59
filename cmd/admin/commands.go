package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/cache"
	"github.com/oggyb/vidhub/internal/config"
	"github.com/oggyb/vidhub/internal/db"
	"github.com/oggyb/vidhub/internal/lock"
	"github.com/oggyb/vidhub/internal/logger"
	"github.com/oggyb/vidhub/internal/media"
	"github.com/oggyb/vidhub/internal/seed"
	"github.com/oggyb/vidhub/internal/service/engagement"
)

var (
	rootCmd = &cobra.Command{
		Use:           "admin",
		Short:         "Maintenance tasks for the vidhub database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Reset the database and load demo data",
		Long:  `Deletes every row and creates demo users, videos, comments, likes, subscriptions and playlists through the services, so counters stay consistent.`,
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
	seedOpts = seed.DefaultOptions

	reconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute likes_count and comments_count from the rows they mirror",
		Args:  cobra.NoArgs,
		RunE:  runReconcile,
	}
	reconcileVideo       uint64
	reconcileConcurrency int
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", seedOpts.Users, "number of users to create")
	seedCmd.Flags().IntVar(&seedOpts.VideosPerUser, "videos", seedOpts.VideosPerUser, "videos per user")
	seedCmd.Flags().IntVar(&seedOpts.CommentsPerUser, "comments", seedOpts.CommentsPerUser, "comments per user")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", seedOpts.Seed, "random seed")

	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Uint64Var(&reconcileVideo, "video", 0, "reconcile a single video id (default: all videos)")
	reconcileCmd.Flags().IntVarP(&reconcileConcurrency, "concurrency", "c", 4, "parallel workers when reconciling all videos")
}

// newAppContext wires the same dependencies as the server from env config.
func newAppContext(ctx context.Context) (*app.AppContext, func(), error) {
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init db: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	remover, err := media.New(cfg)
	if err != nil {
		_ = redisCache.Close()
		return nil, nil, err
	}

	locker := lock.NewRedisLocker(redisCache.Client, cfg.Lock.TTL, cfg.Lock.Tries)
	cleanup := func() {
		_ = redisCache.Close()
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return app.New(database, redisCache, locker, remover, log), cleanup, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	appCtx, cleanup, err := newAppContext(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := seed.Run(ctx, appCtx, seedOpts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeding completed: %d users, %d videos, %d comments, %d likes, %d subscriptions, %d playlists\n",
		stats.Users, stats.Videos, stats.Comments, stats.Likes, stats.Subscriptions, stats.Playlists)
	return nil
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	appCtx, cleanup, err := newAppContext(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := engagement.NewEngagementService(appCtx)
	if reconcileVideo != 0 {
		res, err := svc.ReconcileVideoCounters(ctx, reconcileVideo)
		if err != nil {
			return err
		}
		report := res.Data.(*engagement.ReconcileReport)
		fmt.Fprintf(cmd.OutOrStdout(), "video %d: likes=%d comments=%d\n", report.VideoID, report.Likes, report.Comments)
		return nil
	}

	n, err := svc.ReconcileAll(ctx, reconcileConcurrency)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d videos\n", n)
	return nil
}
