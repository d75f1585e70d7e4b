package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evm-semantics",
	Short: "Derive formal contract models from Solidity compiler artifacts",
	Long:  "evm-semantics derives typed contract models and symbolic helper modules from Solidity compiler artifacts",
}

func Execute() error {
	return rootCmd.Execute()
}
