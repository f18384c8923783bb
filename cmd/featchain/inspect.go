package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/featchain/featchain/container"
)

func inspectCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "inspect <matrix file>",
		Short: "Show shape, timing and statistics of a saved matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := container.LoadMatrix(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("rows:            %d\n", m.Rows())
			fmt.Printf("frames:          %d\n", m.Length())
			fmt.Printf("time resolution: %g s\n", m.TimeResolution())
			if full {
				spew.Dump(m.Stats())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "stats", false, "dump per-row statistics")
	return cmd
}
