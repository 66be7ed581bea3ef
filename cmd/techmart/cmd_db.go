package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndthang/techmart/config"
	"github.com/ndthang/techmart/database/indexes"
	"github.com/ndthang/techmart/database/seeders"
	"github.com/ndthang/techmart/pkg/mongodb"
)

// bootDB loads config and opens the Mongo connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return mongodb.Connect(connectCtx)
}

// techmart seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background())

		if err := seeders.Run(ctx, mongodb.DB()); err != nil {
			return err
		}
		fmt.Println("Seeding complete.")
		return nil
	},
}

// techmart db:indexes
var dbIndexesCmd = &cobra.Command{
	Use:   "db:indexes",
	Short: "Create the Mongo indexes the application relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background())

		if err := indexes.Ensure(ctx, mongodb.DB()); err != nil {
			return err
		}
		fmt.Println("Indexes ensured.")
		return nil
	},
}
