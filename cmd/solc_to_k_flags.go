package cmd

import (
	"github.com/spf13/pflag"
)

var (
	// argSolcToKImports describes the modules the generated contract module imports.
	argSolcToKImports []string

	// argSolcToKFoundry indicates the artifact file is a foundry contract artifact rather
	// than a solc standard-json output document.
	argSolcToKFoundry bool

	// argSolcToKVerbosity describes the log level used while loading the contract.
	argSolcToKVerbosity string
)

// addSolcToKFlags registers the solc-to-k command's flags.
func addSolcToKFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&argSolcToKImports, "imports", []string{"EDSL"}, "modules the generated module imports")
	flags.BoolVar(&argSolcToKFoundry, "foundry", false, "treat the artifact file as a foundry contract artifact")
	flags.StringVar(&argSolcToKVerbosity, "verbosity", "info", "log level: trace, debug, info, warn, error")
}
