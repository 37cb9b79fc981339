package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/onyx-go/schema/internal/database/migrations"
)

func (c *command) initIndexCmd() {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Create, inspect and drop indexes",
	}

	indexCmd.AddCommand(
		c.newIndexAddCmd(),
		c.newIndexExistsCmd(),
		c.newIndexRemoveCmd(),
		c.newIndexListCmd(),
	)

	c.root.AddCommand(indexCmd)
}

func (c *command) newIndexAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TABLE COLUMN...",
		Short: "Create an index, optionally unique or partial",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			table, columns := args[0], args[1:]

			options, err := addOptionsFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			logger := c.newLogger(cmd)
			schema, closeDB, err := c.openSchema(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := schema.AddIndex(cmd.Context(), table, columns, options); err != nil {
				return err
			}

			name := migrations.IndexName(table, columns)
			if opts, ok := options.(migrations.IndexOptions); ok && opts.HasName() {
				name = *opts.Name
			}
			cmd.Printf("✅ Created index %s on %s\n", name, table)
			return nil
		},
	}

	addOptionFlags(cmd.Flags())
	cmd.Flags().String(optionNameKind, "", "index kind literal such as UNIQUE; other options are ignored when set")

	return cmd
}

func (c *command) newIndexExistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists TABLE COLUMN...",
		Short: "Print whether an equivalent index exists",
		Long: `Print whether an equivalent index exists.

Only the options given as flags are compared: --unique=false checks for a
non-unique index while leaving --unique out accepts either.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			table, columns := args[0], args[1:]

			options, err := optionsFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			schema, closeDB, err := c.openSchema(cmd.Context(), c.newLogger(cmd))
			if err != nil {
				return err
			}
			defer closeDB()

			exists, err := schema.IndexExists(cmd.Context(), table, columns, options)
			if err != nil {
				return err
			}

			cmd.Println(exists)
			return nil
		},
	}

	addOptionFlags(cmd.Flags())

	return cmd
}

func (c *command) newIndexRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove TABLE [COLUMN...]",
		Short: "Drop an index by name or by its columns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			table, columns := args[0], args[1:]

			var options migrations.IndexOptions
			if cmd.Flags().Changed(optionNameName) {
				name, err := cmd.Flags().GetString(optionNameName)
				if err != nil {
					return err
				}
				options.Name = migrations.String(name)
			} else if len(columns) == 0 {
				return fmt.Errorf("either columns or --%s is required", optionNameName)
			}

			schema, closeDB, err := c.openSchema(cmd.Context(), c.newLogger(cmd))
			if err != nil {
				return err
			}
			defer closeDB()

			if err := schema.RemoveIndex(cmd.Context(), table, columns, options); err != nil {
				return err
			}

			cmd.Printf("✅ Dropped index on %s\n", table)
			return nil
		},
	}

	cmd.Flags().String(optionNameName, "", "index name")

	return cmd
}

func (c *command) newIndexListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list TABLE",
		Short: "List the indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			schema, closeDB, err := c.openSchema(cmd.Context(), c.newLogger(cmd))
			if err != nil {
				return err
			}
			defer closeDB()

			indexes, err := schema.Indexes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, index := range indexes {
				cmd.Println(index.String())
			}
			return nil
		},
	}

	return cmd
}

func addOptionFlags(flags *pflag.FlagSet) {
	flags.String(optionNameName, "", "index name (default index_<table>_on_<columns>)")
	flags.Bool(optionNameUnique, false, "unique index")
	flags.String(optionNameWhere, "", "partial index predicate, passed to the database verbatim")
}

// optionsFromFlags builds an option bag holding only the flags that were
// given on the command line.
func optionsFromFlags(flags *pflag.FlagSet) (migrations.IndexOptions, error) {
	var options migrations.IndexOptions

	if flags.Changed(optionNameName) {
		name, err := flags.GetString(optionNameName)
		if err != nil {
			return options, err
		}
		options.Name = migrations.String(name)
	}
	if flags.Changed(optionNameUnique) {
		unique, err := flags.GetBool(optionNameUnique)
		if err != nil {
			return options, err
		}
		options.Unique = migrations.Bool(unique)
	}
	if flags.Changed(optionNameWhere) {
		where, err := flags.GetString(optionNameWhere)
		if err != nil {
			return options, err
		}
		options.Where = migrations.String(where)
	}

	return options, nil
}

func addOptionsFromFlags(flags *pflag.FlagSet) (migrations.Options, error) {
	if flags.Changed(optionNameKind) {
		kind, err := flags.GetString(optionNameKind)
		if err != nil {
			return nil, err
		}
		return migrations.LegacyKind(kind), nil
	}
	return optionsFromFlags(flags)
}
