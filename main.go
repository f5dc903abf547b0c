package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"admin-password-reset/authentication"
	"admin-password-reset/config"
	"admin-password-reset/database"
	"admin-password-reset/reset"
	"admin-password-reset/users"
	"admin-password-reset/version"
)

const (
	exitOK = iota
	exitFailure
	exitConfig
	exitConnect
	exitNotFound
	exitCancelled
	exitNoChanges
	exitVerification
)

// connect is swapped out in tests to assert that no connection is attempted.
var connect = database.Connect

func main() {
	log.SetFlags(0)
	log.SetPrefix("reset: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin *os.File, stdout io.Writer) int {
	flags := flag.NewFlagSet("admin-password-reset", flag.ContinueOnError)
	url := flags.String("url", "", "MongoDB connection string (overrides MONGODB_URL)")
	dbName := flags.String("db", "", "database name (overrides DATABASE_NAME and the connection string path)")
	collection := flags.String("collection", "", "users collection (overrides USERS_COLLECTION)")
	username := flags.String("username", "", "user to reset (overrides RESET_USERNAME)")
	timeout := flags.Duration("timeout", 0, "connection timeout (overrides CONNECT_TIMEOUT)")
	cost := flags.Int("cost", 0, "bcrypt cost (overrides BCRYPT_COST)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.GetInfo())
		return exitOK
	}

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("no %s file found; relying on existing environment", *envFile)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return report(stdout, err)
	}
	applyFlags(cfg, *url, *dbName, *collection, *username, *timeout, *cost)

	// Check the URL first so a placeholder fails before asking for a password.
	if err := config.ValidateDatabaseURL(cfg.DatabaseURL); err != nil {
		return report(stdout, err)
	}
	if cfg.NewPassword == "" && term.IsTerminal(int(stdin.Fd())) {
		if cfg.NewPassword, err = promptPassword(stdin, stdout); err != nil {
			return report(stdout, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return report(stdout, err)
	}

	reporter := reset.NewReporter(stdout)
	reporter.Connecting(cfg.Redacted())

	client, err := connect(ctx, cfg.DatabaseURL, cfg.ConnectTimeout)
	if err != nil {
		return report(stdout, err)
	}
	defer func() {
		if err := database.Close(client); err != nil {
			log.Printf("disconnect: %v", err)
		}
	}()

	dbNameResolved := cfg.GetDatabaseName()
	reporter.Connected(dbNameResolved, cfg.GetCollectionName())

	repository := users.NewRepository(client.Database(dbNameResolved).Collection(cfg.GetCollectionName()))
	service := reset.NewService(
		repository,
		authentication.NewHasher(cfg.BcryptCost),
		reset.NewTerminalConfirmer(stdin, stdout),
		reporter,
	)

	_, err = service.Run(ctx, reset.Request{
		Username:    cfg.Username,
		NewPassword: cfg.NewPassword,
	})
	return report(stdout, err)
}

func applyFlags(cfg *config.Config, url, dbName, collection, username string, timeout time.Duration, cost int) {
	if url != "" {
		cfg.DatabaseURL = url
	}
	if dbName != "" {
		cfg.DatabaseName = dbName
	}
	if collection != "" {
		cfg.CollectionUserName = collection
	}
	if username != "" {
		cfg.Username = username
	}
	if timeout != 0 {
		cfg.ConnectTimeout = timeout
	}
	if cost != 0 {
		cfg.BcryptCost = cost
	}
}

// promptPassword reads the new password twice without echo.
func promptPassword(stdin *os.File, stdout io.Writer) (string, error) {
	fd := int(stdin.Fd())

	fmt.Fprint(stdout, "Enter new password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("%w: read password: %v", config.ErrInvalidConfig, err)
	}

	fmt.Fprint(stdout, "Repeat new password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("%w: read password: %v", config.ErrInvalidConfig, err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("%w: passwords do not match", config.ErrInvalidConfig)
	}
	return string(first), nil
}

// report prints err for the operator and maps it to an exit status.
func report(stdout io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	showHints := errors.Is(err, database.ErrConnect) || reset.IsStoreFailure(err)
	reset.NewReporter(stdout).Failure(err, showHints)
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalidConfig):
		return exitConfig
	case errors.Is(err, database.ErrConnect):
		return exitConnect
	case errors.Is(err, reset.ErrUserNotFound):
		return exitNotFound
	case errors.Is(err, reset.ErrCancelled), errors.Is(err, context.Canceled):
		return exitCancelled
	case errors.Is(err, reset.ErrNoChanges):
		return exitNoChanges
	case errors.Is(err, reset.ErrVerificationFailed):
		return exitVerification
	default:
		return exitFailure
	}
}
