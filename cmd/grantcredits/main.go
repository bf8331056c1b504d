// Command grantcredits is an operator tool for topping up a user's credit
// balance directly, without going through the admin API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"studio/internal/adapter/repo"
	"studio/internal/domain"
	"studio/internal/infra"
)

func main() {
	var (
		idFlag     string
		emailFlag  string
		amountFlag int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to credit (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to credit")
	flag.IntVar(&amountFlag, "amount", 100, "credits to add")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if amountFlag <= 0 {
		exitWithError(errors.New("-amount must be positive"))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "grantcredits").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	users := repo.NewUserRepository(runner)
	usage := repo.NewUsageRepository(runner)

	if userID == "" {
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				exitWithError(fmt.Errorf("no user with email %s", email))
			}
			exitWithError(err)
		}
		userID = user.ID
	}

	remaining, err := users.AddCredits(ctx, userID, amountFlag)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			exitWithError(fmt.Errorf("no user with id %s", userID))
		}
		exitWithError(err)
	}

	if err := usage.Append(ctx, &domain.UsageLogEntry{
		UserID:      userID,
		Action:      domain.ActionAdminCreditGrant,
		CreditsUsed: -amountFlag,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to record grant in usage log")
	}

	fmt.Printf("granted %d credits to %s (balance now %d)\n", amountFlag, userID, remaining)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
