package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Nao-Mk2/aws-multi-log-viewer/cmd"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/client"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/config"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/lane"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/logging"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/tui"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCommand(run).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cobra.Command, cfg config.Config, level logrus.Level) error {
	ctx := c.Context()

	status := state.NewStatus("press ? for help")
	logger, closer, err := logging.New(cfg.LogFile, level, status)
	if err != nil {
		return err
	}
	defer closer.Close()

	projector, err := util.NewProjector(cfg.DisplayPath)
	if err != nil {
		return err
	}

	api, err := client.NewCloudWatchClient(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"region":  cfg.Region,
		"profile": cfg.Profile,
		"prefix":  cfg.GroupPrefix,
	}).Info("starting")

	sidebar := state.NewSidebar()
	pool := lane.NewPool(client.NewLogClient(api), sidebar, lane.Options{
		FetchLimit:   cfg.FetchLimit,
		TailLookback: cfg.TailLookback,
		GroupPrefix:  cfg.GroupPrefix,
	}, logger)
	pool.Start(ctx)

	runErr := tui.Run(tui.Options{
		Context:      ctx,
		Lanes:        pool,
		Sidebar:      sidebar,
		Status:       status,
		Projector:    projector,
		TickRate:     cfg.TickRate,
		TailInterval: cfg.TailInterval,
		FoldSidebar:  cfg.FoldSidebar,
		Log:          logger,
	})

	if err := pool.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Warn("actors stopped with error")
	}
	logger.Info("stopped")
	return runErr
}
