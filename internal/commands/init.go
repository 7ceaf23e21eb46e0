package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/billbook-dev/billbook/internal/config"
)

func newInitCommand() *cobra.Command {
	var backend, locale, currency string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new billbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString("dir")
			if err != nil {
				return err
			}
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default()
			cfg.Storage.Backend = backend
			if backend == config.BackendSQLite {
				cfg.Storage.Path = "billbook.db"
			}
			cfg.Display.Locale = locale
			cfg.Display.Currency = currency
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := runInit(absDir, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized billbook project at %s (%s storage)\n", absDir, cfg.Storage.Backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend: file or sqlite")
	cmd.Flags().StringVar(&locale, "locale", "tr", "locale used to format amounts")
	cmd.Flags().StringVar(&currency, "currency", "TL", "currency symbol shown after amounts")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing billbook.yaml")

	return cmd
}

func runInit(dir string, cfg *config.Config, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
	}
	if cfg.Storage.Backend == config.BackendFile {
		dirs = append(dirs, cfg.Storage.Path)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := ".env\n" + cfg.Storage.Path + "\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}
	return nil
}
