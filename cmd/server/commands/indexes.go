package commands

import (
	"context"
	"errors"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/config"
	"github.com/Lixing-Zhang/menuwal/internal/repository/mongodb"
	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes used by the dashboard",
	RunE:  runIndexes,
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}

func runIndexes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
		return err
	}

	success(cmd.OutOrStdout(), "indexes ready in database %s", cfg.Mongo.Database)
	return nil
}
