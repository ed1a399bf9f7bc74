package cli

import (
	"fmt"

	"kai_shield/internal/models"
)

// Migrate creates or updates the database schema.
type Migrate struct{}

// Run the migrate command.
func (c *Migrate) Run(app *App) error {
	db, err := app.OpenDB(app.Config.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	app.Logger.Info("database schema is up to date")

	return nil
}
