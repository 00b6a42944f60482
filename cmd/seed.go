/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitoolshub/apiserver/config"
	"github.com/aitoolshub/apiserver/internal/db"
	"github.com/aitoolshub/apiserver/internal/services"
	"github.com/aitoolshub/apiserver/internal/store"
)

// seedCmd loads the fixed sample catalog into an empty database.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the sample tool catalog if the database is empty",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer dbConn.Close()

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		seeder := services.NewSeedService(store.NewToolRepository(dbConn), logger)

		seeded, err := seeder.SeedIfEmpty(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if seeded == 0 {
			fmt.Println("catalog already seeded")
			return nil
		}
		fmt.Printf("seeded %d tools\n", seeded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
