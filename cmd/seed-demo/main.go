package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/config"
	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/internal/repository/postgres"
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
	ctx := context.Background()

	due := time.Now().AddDate(0, 0, 7)
	lines := []*domain.OrderLine{
		{OrderIdentifier: "DO-001A", CustomerName: "Green Valley Traders", ProductName: "Cement 50kg", Quantity: 200, WeightKg: 10000, Rate: 6.50, DeliveryPurpose: "Project supply", DeliveryDueDate: &due},
		{OrderIdentifier: "DO-001B", CustomerName: "Green Valley Traders", ProductName: "Steel Rod 12mm", Quantity: 80, WeightKg: 7100, Rate: 42.00, DeliveryPurpose: "Project supply", DeliveryDueDate: &due},
		{OrderIdentifier: "DO-002", CustomerName: "Hamdan Building Supplies", ProductName: "Cement 50kg", Quantity: 500, WeightKg: 25000, Rate: 6.25, DeliveryPurpose: "Stock replenishment", DeliveryDueDate: &due},
		{OrderIdentifier: "DO-003A", CustomerName: "Al Noor Construction", ProductName: "Gypsum Board", Quantity: 120, WeightKg: 3400, Rate: 11.75, DeliveryPurpose: "Site delivery", DeliveryDueDate: &due},
		{OrderIdentifier: "DO-003B", CustomerName: "Al Noor Construction", ProductName: "White Cement 25kg", Quantity: 60, WeightKg: 1500, Rate: 9.90, DeliveryPurpose: "Site delivery", DeliveryDueDate: &due},
	}

	var created int
	for _, line := range lines {
		if err := repos.OrderLine.Create(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", line.OrderIdentifier, err)
			continue
		}
		created++
	}

	fmt.Printf("Seeded %d demo order line(s)\n", created)
}
