package app

import (
	"context"
	"fmt"
	"syscall"

	"github.com/mend/tickbridge/internal/billing"
	"github.com/mend/tickbridge/internal/config"
	"github.com/mend/tickbridge/internal/crypto"
	"github.com/mend/tickbridge/internal/db"
	"github.com/mend/tickbridge/internal/domain"
	"github.com/mend/tickbridge/internal/freshbooks"
	"github.com/mend/tickbridge/internal/invoice"
	"github.com/mend/tickbridge/internal/logger"
	"github.com/mend/tickbridge/internal/repository"
	"github.com/mend/tickbridge/internal/service"
	"github.com/mend/tickbridge/internal/tick"
	"golang.org/x/term"
)

// ErrNotLoggedIn is returned by Connect when no credentials have been saved yet
var ErrNotLoggedIn = fmt.Errorf("no saved credentials: run 'tickbridge login' first")

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB

	// Repositories
	SettingsRepo repository.SettingsRepository
	JoinRepo     repository.JoinRepository
}

// Services bundles the remote clients and services built from saved credentials
type Services struct {
	Settings *domain.Settings

	Tick       *tick.Client
	FreshBooks *freshbooks.Client

	EntryService     service.EntryService
	InvoiceService   service.InvoiceService
	ReconcileService service.ReconcileService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting encryption key from keyring
// 3. Opening database
// 4. Running migrations
// 5. Creating repositories
func New(ctx context.Context) (*App, error) {
	// Load config from default path
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	// Get keyring for secure password storage
	keyring := crypto.NewKeyring()

	// Try to get existing encryption key
	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		// Store the key in keyring
		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	// Open the database with encryption
	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &App{
		Config:       cfg,
		DB:           database,
		SettingsRepo: repository.NewSettingsRepo(database),
		JoinRepo:     repository.NewJoinRepo(database),
	}, nil
}

// Connect loads the saved credentials and wires up the remote clients and
// services. Returns ErrNotLoggedIn when no credentials have been stored.
func (a *App) Connect(ctx context.Context) (*Services, error) {
	settings, err := a.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		return nil, ErrNotLoggedIn
	}
	return a.ConnectWith(settings)
}

// ConnectWith wires up clients and services for the given settings without
// reading them from the store. Used by login before credentials are saved.
func (a *App) ConnectWith(settings *domain.Settings) (*Services, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	tickClient := tick.New(tick.Credentials{
		BaseURL:  settings.TickURL,
		Email:    settings.TickEmail,
		Password: settings.TickPassword,
	})

	fbClient := freshbooks.New(freshbooks.Credentials{
		APIURL: settings.FreshBooksURL,
		Token:  settings.FreshBooksToken,
	})

	resolver := billing.NewResolver(fbClient)
	builder := invoice.NewBuilder(resolver)

	reconcileService := service.NewReconcileService(
		a.JoinRepo, fbClient, tickClient, logger.WithComponent("reconcile"))
	entryService := service.NewEntryService(tickClient, reconcileService)
	invoiceService := service.NewInvoiceService(
		tickClient, fbClient, resolver, builder, a.JoinRepo,
		logger.WithComponent("invoice"))

	return &Services{
		Settings:         settings,
		Tick:             tickClient,
		FreshBooks:       fbClient,
		EntryService:     entryService,
		InvoiceService:   invoiceService,
		ReconcileService: reconcileService,
	}, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// promptForPassword prompts user for a new database password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your credentials and invoice records will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	// Confirm password
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after confirmation
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	// Check if passwords match
	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
