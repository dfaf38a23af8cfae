package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shopdata",
		Short:         "Spreadsheet-to-fixture conversion tool for the shop migration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newConvertCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
