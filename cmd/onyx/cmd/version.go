package cmd

import (
	"github.com/spf13/cobra"

	"github.com/onyx-go/schema"
)

func (c *command) initVersionCmd() {
	v := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(schema.Version)
		},
	}
	c.root.AddCommand(v)
}
