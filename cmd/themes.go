package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var flagThemesJSON bool

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Run one clustering pass and print the theme groups",
	Long:  "Fetch and filter the aggregate, cluster it into themes, and print the groups. Attaches AI analysis when an AI provider is configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		_, th := buildPipeline(cfg, log)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		res, err := th.Get(ctx)
		if err != nil {
			return fmt.Errorf("building themes: %w", err)
		}

		if flagThemesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		for _, g := range res.Themes {
			fmt.Printf("== %s (%d items)\n", g.Title, len(g.Items))
			for _, it := range g.Items {
				fmt.Printf("   - %s (%s)\n", it.Title, it.Source)
			}
			if g.Analysis != "" {
				fmt.Printf("   %s\n", g.Analysis)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	themesCmd.Flags().BoolVar(&flagThemesJSON, "json", false, "print the raw JSON envelope")
}
