package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/identity"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/auth"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/config"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const commandTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	log, err := logger.New(logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch command {
	case "create-user":
		err = createUser(args, log)
	case "issue-token":
		err = issueToken(args, log)
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
}

func createUser(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	var input identityapp.CreateUserInput
	fs.StringVar(&input.Email, "email", "", "Account email (required)")
	fs.StringVar(&input.Password, "password", "", "Account password, at least 8 characters (required)")
	fs.StringVar(&input.Type, "type", "buyer", "Account type: buyer or shop")
	fs.StringVar(&input.FirstName, "first-name", "", "First name")
	fs.StringVar(&input.LastName, "last-name", "", "Last name")
	fs.StringVar(&input.Company, "company", "", "Company")
	fs.StringVar(&input.Position, "position", "", "Position")
	_ = fs.Parse(args)

	if input.Email == "" || input.Password == "" {
		fs.Usage()
		return fmt.Errorf("-email and -password are required")
	}

	_, db, err := openDatabase(log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	users := identityapp.NewUserService(
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormContactRepository(db.DB),
		log,
	)
	user, err := users.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("%d\t%s\t%s\n", user.ID, user.Email, user.Type)
	return nil
}

func issueToken(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("issue-token", flag.ExitOnError)
	var input identityapp.IssueTokenInput
	fs.StringVar(&input.Email, "email", "", "Account email (required)")
	fs.StringVar(&input.Password, "password", "", "Account password (required)")
	_ = fs.Parse(args)

	if input.Email == "" || input.Password == "" {
		fs.Usage()
		return fmt.Errorf("-email and -password are required")
	}

	cfg, db, err := openDatabase(log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	authService := identityapp.NewAuthService(persistence.NewGormUserRepository(db.DB), auth.NewJWTService(cfg.JWT), log)
	token, err := authService.IssueToken(ctx, input)
	if err != nil {
		return err
	}
	log.Info("Token issued", zap.Time("expires_at", token.ExpiresAt))
	fmt.Println(token.Token)
	return nil
}

func openDatabase(log *zap.Logger) (*config.Config, *persistence.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	log.Debug("Opening database", zap.String("driver", cfg.Database.Driver))
	db, err := persistence.NewDatabase(&cfg.Database, nil, gormlogger.Silent)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Retail account administration

Usage:
  admin <command> [flags]

Commands:
  create-user   Create a buyer or shop account
                -email -password [-type buyer|shop] [-first-name] [-last-name] [-company] [-position]
  issue-token   Verify credentials and print a bearer token
                -email -password

Configuration is read from config.toml and RETAIL_* environment variables.`)
}
