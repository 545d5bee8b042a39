package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"foodgram/internal/catalog"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/repositories"
	"foodgram/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "foodgram",
		Short:        "Foodgram - recipe sharing backend",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(loadIngredientsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server, err := NewApp(ctx, cfg, db)
			if err != nil {
				return err
			}
			defer server.Close()

			// --- Start HTTP Server ---
			log.Printf("Starting server on port %s", cfg.AppPort)
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.App.Listen(cfg.AppPort)
			}()

			// Wait for interrupt signal to gracefully shut down the server
			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}
			log.Println("Shutting down server...")
			if err := server.App.Shutdown(); err != nil {
				log.Printf("Error during Fiber shutdown: %v", err)
			}
			log.Println("Server gracefully stopped")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := bootstrap()
			return err
		},
	}
}

func loadIngredientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-ingredients [file.json|file.csv]",
		Short: "Bulk import the ingredient catalog",
		Long: `Bulk import ingredients into the catalog.

JSON files hold an array of {"name": ..., "measurement_unit": ...} objects.
CSV files hold "name,measurement_unit" rows, with an optional header.
The import is all or nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := catalog.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, db, err := bootstrap()
			if err != nil {
				return err
			}

			service := services.NewIngredientService(repositories.NewGORMIngredientRepository(db))
			n, err := service.ImportIngredients(ingredients)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ingredients from %s\n", n, args[0])
			return nil
		},
	}
}

// bootstrap loads the configuration, opens the database and migrates it.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
