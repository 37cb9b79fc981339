// Package cmd implements the onyx command line: index management against a
// live database and the scheduled index audit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/onyx-go/schema/internal/config"
	"github.com/onyx-go/schema/internal/database"
	"github.com/onyx-go/schema/internal/database/migrations"
	"github.com/onyx-go/schema/internal/logging"
)

const (
	optionNameConfig    = "config"
	optionNameDriver    = "driver"
	optionNameDSN       = "dsn"
	optionNameVerbosity = "verbosity"
	optionNameLogFormat = "log-format"
	optionNameName      = "name"
	optionNameUnique    = "unique"
	optionNameWhere     = "where"
	optionNameKind      = "kind"
	optionNameWatch     = "watch"
	optionNameSchedule  = "schedule"
	optionNameMetrics   = "metrics-addr"
)

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  *config.Config
	cfgFile string
}

type option func(*command)

// WithArgs sets the arguments the root command is executed with
func WithArgs(a ...string) option {
	return func(c *command) {
		c.root.SetArgs(a)
	}
}

// WithOutput sets where command results are written
func WithOutput(w io.Writer) option {
	return func(c *command) {
		c.root.SetOut(w)
	}
}

// WithErrorOutput sets where log lines and errors are written
func WithErrorOutput(w io.Writer) option {
	return func(c *command) {
		c.root.SetErr(w)
	}
}

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "onyx",
			Short:         "Manage and audit database indexes",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	c.initGlobalFlags()
	c.initIndexCmd()
	c.initAuditCmd()
	c.initVersionCmd()

	for _, o := range opts {
		o(c)
	}

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses the process arguments and runs the matching command
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, optionNameConfig, "", "config file (yaml, json or toml)")
	globalFlags.String(optionNameDriver, "", "database driver: mysql, postgres or sqlite3")
	globalFlags.String(optionNameDSN, "", "database connection string")
	globalFlags.String(optionNameVerbosity, "", "log level: debug, info, warn or error")
	globalFlags.String(optionNameLogFormat, "", "log format: text or json")
}

func (c *command) initConfig() (err error) {
	conf := config.NewConfig()

	flags := c.root.PersistentFlags()
	bindings := map[string]string{
		"database.driver": optionNameDriver,
		"database.dsn":    optionNameDSN,
		"log.level":       optionNameVerbosity,
		"log.format":      optionNameLogFormat,
	}
	for key, flag := range bindings {
		if err := conf.BindFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}

	if err := conf.Load(c.cfgFile); err != nil {
		return err
	}

	c.config = conf
	return nil
}

func (c *command) newLogger(cmd *cobra.Command) logging.Logger {
	return logging.NewManagerWithWriter(c.config.Logging(), cmd.ErrOrStderr()).Default()
}

// openSchema connects to the configured database. The returned close
// function releases the connection.
func (c *command) openSchema(ctx context.Context, logger logging.Logger) (migrations.SchemaBuilder, func() error, error) {
	dbConfig := c.config.Database()
	if dbConfig.DSN == "" {
		return nil, nil, errors.New("no database dsn configured")
	}

	db, err := database.Open(ctx, dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s database: %w", dbConfig.Driver, err)
	}

	logger.Debug("Connected to database", map[string]interface{}{
		"driver": db.Driver(),
	})

	return db.Schema(&migrations.SchemaConfig{Logger: logger}), db.Close, nil
}
