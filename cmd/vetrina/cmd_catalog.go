package main

import (
	"fmt"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var catalogYAML bool

// catalogCmd prints the product catalog
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the product catalog",
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	products := catalog.Products()
	out := cmd.OutOrStdout()

	if catalogYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(products); err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprintf(out, "%-4s %-12s %10s  %-9s %s\n", "ID", "NOME", "PREZZO", "MEDIA", "LOCATOR")
	for _, p := range products {
		fmt.Fprintf(out, "%-4d %-12s %10s  %-9s %s\n",
			p.ID, p.Name, catalog.FormatPrice(cfg.Shop.CurrencySymbol, p.Price), p.MediaType.Label(), p.Media)
	}
	logger.Debug("catalog printed", zap.Int("products", len(products)))
	return nil
}
