package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	erpcfg "github.com/Skotchmaster/shop_erp/internal/config"
	"github.com/Skotchmaster/shop_erp/internal/seed"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo data set into the configured database",
	Long: `seed creates the demo shop owner, two vendors, their products,
marketplace listings, customers, orders and invoices. All demo users have the
password "password123". Running it again is a no-op.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Storage == erpcfg.StorageMemory {
		return errors.New("seed needs a persistent STORAGE; use SEED=true with serve for the in-memory store")
	}

	loaded, err := seed.Demo(logging.IntoContext(ctx, a.logger), a.store, time.Now())
	if err != nil {
		return err
	}
	if loaded {
		fmt.Fprintln(cmd.OutOrStdout(), "demo data loaded")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "demo data already present")
	}
	return nil
}
