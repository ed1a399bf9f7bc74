package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"kai_shield/internal/repository"
)

// Records lists submitted chain transactions.
type Records struct {
	Fingerprint string `kong:"help='Only show records for this fingerprint.'"`
	Limit       int    `kong:"default='20',help='Maximum number of records to show (0 for all).'"`
}

// Run the records command.
func (c *Records) Run(app *App) error {
	db, err := app.OpenDB(app.Config.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repository.NewChainRecordRepository(db).List(app.Ctx, c.Fingerprint, c.Limit)
	if err != nil {
		return fmt.Errorf("failed listing chain records: %w", err)
	}

	header := []string{"Created", "Kind", "Tx Hash", "Fingerprint", "IPFS", "Contract"}
	data := make([][]string, 0, len(records))
	for _, r := range records {
		data = append(data, []string{
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			string(r.Kind),
			r.TxHash,
			r.Fingerprint,
			r.IPFSHash,
			r.ContractAddress,
		})
	}

	if err := renderTable(header, data, app.Stdout); err != nil {
		return fmt.Errorf("failed rendering table: %w", err)
	}
	return nil
}

func renderTable(header []string, data [][]string, w io.Writer) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(
			tw.Rendition{
				Borders: tw.BorderNone,
				Symbols: tw.NewSymbols(tw.StyleASCII),
				Settings: tw.Settings{
					Lines: tw.Lines{
						ShowHeaderLine: tw.Off,
						ShowFooterLine: tw.Off,
						ShowTop:        tw.Off,
						ShowBottom:     tw.Off,
					},
					Separators: tw.Separators{
						ShowHeader:     tw.Off,
						ShowFooter:     tw.Off,
						BetweenRows:    tw.Off,
						BetweenColumns: tw.Off,
					},
				},
			},
		)),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:    tw.CellAlignment{Global: tw.AlignLeft},
				ColMaxWidths: tw.CellWidth{Global: 70},
			},
		}),
	)

	table.Header(header)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
