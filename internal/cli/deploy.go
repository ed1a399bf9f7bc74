package cli

import (
	"fmt"

	"kai_shield/internal/chain"
	"kai_shield/internal/repository"
	"kai_shield/internal/service"
)

// Deploy deploys the registry contract and records the transaction.
type Deploy struct {
	Bytecode string `kong:"help='Hex encoded contract bytecode. Overrides eth.bytecode.'"`
}

// Run the deploy command.
func (c *Deploy) Run(app *App) error {
	cfg := app.Config.Eth
	if c.Bytecode != "" {
		cfg.Bytecode = c.Bytecode
	}

	db, err := app.OpenDB(app.Config.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	client, ethClient, err := chain.Dial(app.Ctx, cfg)
	if err != nil {
		return err
	}
	defer ethClient.Close()

	repos := repository.NewRepositories(db)
	chainService := service.NewChainService(client, repos.ChainRecord, service.NewEventHub(app.Logger), app.Logger)

	address, err := chainService.DeployContract(app.Ctx)
	if err != nil {
		return fmt.Errorf("failed deploying contract: %w", err)
	}

	_, err = fmt.Fprintln(app.Stdout, address)
	return err
}
