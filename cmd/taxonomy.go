package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the skill taxonomy grouped by category group",
	Run: func(_ *cobra.Command, _ []string) {
		if err := printTaxonomy(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}

func printTaxonomy() error {
	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	tax, err := loadTaxonomy(config.TaxonomyFile)
	if err != nil {
		return fmt.Errorf("loading the taxonomy: %w", err)
	}

	groups := make(map[string][]map[string]any)
	for _, e := range tax.Entries() {
		group := e.Group
		if group == "" {
			group = "ungrouped"
		}
		groups[group] = append(groups[group], map[string]any{
			"name":     e.Name,
			"category": e.Category.String(),
			"aliases":  e.Aliases,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"skills":        groups,
		"abbreviations": tax.Abbreviations(),
	})
}
