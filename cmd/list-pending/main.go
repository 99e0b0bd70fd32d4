package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/config"
	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/internal/repository/postgres"
	"github.com/ssg-mis/dispatch-api/internal/service"
	"github.com/ssg-mis/dispatch-api/internal/workflow"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	stageSvc := service.NewStageService(repos, nil, "", cfg.PendingLimit, logger)

	stages := domain.StageSequence
	if len(os.Args) > 1 {
		stage, ok := domain.ParseStage(os.Args[1])
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown stage: %s\n", os.Args[1])
			os.Exit(1)
		}
		stages = []domain.Stage{stage}
	}

	ctx := context.Background()
	for _, stage := range stages {
		groups, err := stageSvc.ResolvePending(ctx, stage, workflow.Criteria{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve pending for %s: %v\n", stage.DisplayName(), err)
			continue
		}

		fmt.Printf("%s: %d group(s) pending\n", stage.DisplayName(), len(groups))
		for _, g := range groups {
			fmt.Printf("  %s  %-24s %d line(s), qty %.2f\n",
				g.GroupKey, g.CustomerName, g.MemberCount(), g.TotalQuantity())
		}
	}
}
