package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/cantata-audio/cantata/internal/auth"
	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/database/users"
)

// InitDBCommand creates the schema directly from the entity
// definitions. This is a development convenience: deployed
// environments manage the schema through versioned migrations, and
// this command must not be pointed at them.
type InitDBCommand struct {
	Driver        string
	DatabaseURL   string
	AdminEmail    string
	AdminPassword string
}

func NewInitDBCommand() *InitDBCommand {
	return &InitDBCommand{}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ExitOnError)

	fs.StringVar(&cmd.Driver, "driver", config.DefaultDatabaseDriver, "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.DatabaseURL, "db", config.DefaultDatabasePath, "Database URL (file path for sqlite, DSN for postgres)")
	fs.StringVar(&cmd.AdminEmail, "admin-email", "", "Seed an administrator account with this email (optional)")
	fs.StringVar(&cmd.AdminPassword, "admin-password", "", "Password for the seeded administrator account")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create all tables from the entity definitions. Safe to run when\n")
		fmt.Fprintf(os.Stderr, "tables already exist. Intended for development databases only;\n")
		fmt.Fprintf(os.Stderr, "production schemas are managed with migration tooling.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Create the schema in the default sqlite database:\n")
		fmt.Fprintf(os.Stderr, "  %s init-db\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Create the schema and seed an administrator:\n")
		fmt.Fprintf(os.Stderr, "  %s init-db -admin-email admin@example.com -admin-password changeme1\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.AdminEmail != "" && cmd.AdminPassword == "" {
		return fmt.Errorf("-admin-password is required when -admin-email is set")
	}

	return nil
}

func (cmd *InitDBCommand) Run() error {
	cfg := config.NewConfig()
	cfg.Database.Driver = cmd.Driver
	cfg.Database.URL = cmd.DatabaseURL

	fmt.Printf("Initializing %s database at %s\n", cmd.Driver, cmd.DatabaseURL)

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	fmt.Println("Schema created.")

	if cmd.AdminEmail != "" {
		usersRepo := users.NewRepository(db.DB)
		authService := auth.NewService(usersRepo, cfg.Auth)

		admin, err := authService.Register(cmd.AdminEmail, cmd.AdminPassword, "Administrator")
		if err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}

		if err := usersRepo.SetAdmin(admin.ID, true); err != nil {
			return fmt.Errorf("failed to grant administrator role: %w", err)
		}
		fmt.Printf("Administrator %s created.\n", cmd.AdminEmail)
	}

	fmt.Println("Done.")
	return nil
}
