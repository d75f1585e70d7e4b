package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/baolean/evm-semantics/compilation"
	"github.com/baolean/evm-semantics/contracts"
	"github.com/baolean/evm-semantics/logging"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var solcToKCmd = &cobra.Command{
	Use:   "solc-to-k [artifact file] [source name] [contract name]",
	Short: "Output the helper K module for a contract from solc compiler output",
	Long: "solc-to-k loads a solc standard-json output file (or a foundry contract artifact), " +
		"derives the named contract's model, and prints the helper K module the proof engine consumes",
	Args:          cobra.ExactArgs(3),
	RunE:          cmdRunSolcToK,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addSolcToKFlags(solcToKCmd.Flags())
	rootCmd.AddCommand(solcToKCmd)
}

// cmdRunSolcToK loads the artifact, builds the contract model, and prints its generated module.
// Whether a fatal per-contract load error aborts the whole run is this layer's decision; with a
// single target contract there is nothing to skip, so the error is returned as-is.
func cmdRunSolcToK(cmd *cobra.Command, args []string) error {
	artifactPath, sourceName, contractName := args[0], args[1], args[2]

	level, err := zerolog.ParseLevel(argSolcToKVerbosity)
	if err != nil {
		return pkgerrors.Wrapf(err, "invalid verbosity %q", argSolcToKVerbosity)
	}
	logger := logging.NewLogger(level, true)

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "could not read artifact file %s", artifactPath)
	}

	var contract *contracts.Contract
	if argSolcToKFoundry {
		// A foundry artifact file is the contract object itself.
		contract, err = contracts.NewFoundryContract(contractName, json.RawMessage(data), logger)
		if err != nil {
			return err
		}
	} else {
		output, err := compilation.ParseSolcOutput(data)
		if err != nil {
			return err
		}
		if err := compilation.CheckSolcVersion(output.Version); err != nil {
			return err
		}
		raw, err := output.ExtractContractArtifact(sourceName, contractName)
		if err != nil {
			return err
		}
		contract, err = contracts.NewContract(contractName, raw, logger)
		if err != nil {
			return err
		}
	}

	digest, err := contract.Digest()
	if err != nil {
		return err
	}
	logger.Info("Loaded contract ", contractName, " with digest ", digest)

	fmt.Print(contract.MainModule(argSolcToKImports).String())
	return nil
}
