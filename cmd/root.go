package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cash-tally/app"
	"cash-tally/config"
	"cash-tally/domain"
	"cash-tally/logging"
	"cash-tally/store"
)

// cli holds what PersistentPreRunE resolves for every subcommand.
type cli struct {
	cfg    *config.Config
	logger *logging.Logger

	floatAmount string
	locale      string
	symbol      string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "cash-tally",
		Short: "Count a cash drawer and work out what goes to the bank",
		Long: `cash-tally counts the bills and coins in a cash drawer.

Enter a quantity for each denomination and it shows the subtotal per
denomination, the grand total, and the amount to deposit after keeping
the float in the till.

Configuration comes from the environment (or a .env file) and can be
overridden with flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.floatAmount, "float", "", "Amount kept in the till (env CASHTALLY_FLOAT, default 300)")
	flags.StringVar(&c.locale, "locale", "", "Locale for number formatting (env CASHTALLY_LOCALE, default en-US)")
	flags.StringVar(&c.symbol, "symbol", "", "Currency symbol (env CASHTALLY_SYMBOL, default $)")
	flags.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL, default warn)")
	flags.StringVar(&c.logFormat, "log-format", "", "text or json (env LOG_FORMAT, default text)")

	rootCmd.AddCommand(
		newCountCmd(c),
		newDenominationsCmd(c),
		newReplCmd(c),
		newServeCmd(c),
	)
	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("float") {
		cfg.FloatAmount = c.floatAmount
	}
	if flags.Changed("locale") {
		cfg.Locale = c.locale
	}
	if flags.Changed("symbol") {
		cfg.Symbol = c.symbol
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = c.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := cfg.Logging()
	logCfg.Output = cmd.ErrOrStderr()
	c.cfg = cfg
	c.logger = logging.New(logCfg)
	logging.SetDefault(c.logger)
	return nil
}

// newTallyService starts a fresh tally with the resolved configuration.
func (c *cli) newTallyService() (*app.TallyService, error) {
	formatter, err := domain.NewCurrencyFormatter(c.cfg.Locale, c.cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create currency formatter: %w", err)
	}
	return app.NewTallyService(store.NewInMemoryEventStore(), app.Options{
		FloatAmount: decimal.NewNullDecimal(c.cfg.Float()),
		Formatter:   formatter,
		Logger:      c.logger,
	})
}
