package main

import (
	"fmt"
	"os"

	"github.com/baolean/evm-semantics/cmd"
)

func main() {
	// Run our root CLI command, which contains all underlying command logic and will handle
	// parsing/invocation.
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
