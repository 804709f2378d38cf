package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
	"github.com/ayam04/Contract-Farming/internal/infrastructure/db/jsonfile"
	"github.com/ayam04/Contract-Farming/internal/pkg/config"
	"github.com/ayam04/Contract-Farming/pkg/logger"
)

var (
	importUsersFile string
	importCropsFile string
	importStrict    bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import users and crops from JSON files",
	Long: `Import users and crops into the configured record store.

The files use the same JSON array format the file store writes:

  users: [{"username": "fiona", "password": "<bcrypt hash>", "role": "farmer"}]
  crops: [{"id": "...", "name": "Wheat", "price": 2.5, "farmer": "fiona", ...}]

Existing usernames and crop ids are skipped. Crops whose farmer is not a
farmer-role user after the users import are skipped as well.`,
	Example: `  contract-farming import --users users.json --crops crops.json
  contract-farming import --crops crops.json --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context())
	},
}

func init() {
	importCmd.Flags().StringVar(&importUsersFile, "users", "", "users JSON file")
	importCmd.Flags().StringVar(&importCropsFile, "crops", "", "crops JSON file")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "fail on the first rejected record")
	importCmd.MarkFlagsOneRequired("users", "crops")
}

func runImport(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.close(context.Background()) }()

	imp := &importer{users: store.users, crops: store.crops, strict: importStrict, log: log}
	if importUsersFile != "" {
		if err := imp.importUsers(ctx, importUsersFile); err != nil {
			return err
		}
	}
	if importCropsFile != "" {
		if err := imp.importCrops(ctx, importCropsFile); err != nil {
			return err
		}
	}

	log.Info().
		Int("imported", imp.stats.imported).
		Int("skipped", imp.stats.skipped).
		Msg("import complete")
	return nil
}

type importStats struct {
	imported int
	skipped  int
}

// importer copies records into a record store, enforcing the same invariants
// as the API.
type importer struct {
	users  ports.UserRepository
	crops  ports.CropRepository
	strict bool
	log    zerolog.Logger
	stats  importStats
}

func (i *importer) importUsers(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("users file: %w", err)
	}
	users, err := jsonfile.ReadUsersFile(path)
	if err != nil {
		return fmt.Errorf("users file: %w", err)
	}

	for _, u := range users {
		err := validateImportedUser(u)
		if err == nil {
			err = i.users.Create(ctx, &u)
		}
		if err := i.record("user", u.Username, err); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) importCrops(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("crops file: %w", err)
	}
	crops, err := jsonfile.ReadCropsFile(path)
	if err != nil {
		return fmt.Errorf("crops file: %w", err)
	}

	for _, c := range crops {
		err := i.validateImportedCrop(ctx, c)
		if err == nil {
			err = i.crops.Create(ctx, &c)
		}
		if err := i.record("crop", c.ID, err); err != nil {
			return err
		}
	}
	return nil
}

// record counts the outcome of one record. Only storage failures, or any
// rejection in strict mode, abort the import.
func (i *importer) record(kind, key string, err error) error {
	if err == nil {
		i.stats.imported++
		i.log.Debug().Str("kind", kind).Str("key", key).Msg("imported")
		return nil
	}
	if i.strict || errors.Is(err, domain.ErrStorage) {
		return fmt.Errorf("import %s %q: %w", kind, key, err)
	}
	i.stats.skipped++
	i.log.Warn().Err(err).Str("kind", kind).Str("key", key).Msg("skipped")
	return nil
}

func validateImportedUser(u domain.User) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: empty username", domain.ErrValidation)
	}
	if !domain.ValidUsername(u.Username) {
		return fmt.Errorf("%w: username %q is not printable ASCII", domain.ErrValidation, u.Username)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, u.Role)
	}
	if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
		return fmt.Errorf("%w: password is not a bcrypt hash", domain.ErrValidation)
	}
	return nil
}

func (i *importer) validateImportedCrop(ctx context.Context, c domain.Crop) error {
	if c.ID == "" || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: crop needs an id and a name", domain.ErrValidation)
	}
	if c.Price < 0 || c.Quantity < 0 {
		return fmt.Errorf("%w: negative price or quantity", domain.ErrValidation)
	}
	if _, err := i.crops.FindByID(ctx, c.ID); err == nil {
		return fmt.Errorf("%w: crop id already present", domain.ErrValidation)
	} else if !errors.Is(err, domain.ErrCropNotFound) {
		return err
	}

	owner, err := i.users.FindByUsername(ctx, c.Farmer)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("%w: farmer %q does not exist", domain.ErrValidation, c.Farmer)
		}
		return err
	}
	if !owner.Role.Can(domain.CapCreateCrop) {
		return fmt.Errorf("%w: %q is not a farmer", domain.ErrValidation, c.Farmer)
	}
	return nil
}
