// Command biovalid validates batches of biological sample metadata and
// serves the validation HTTP API.
package main

import (
	"os"

	"biovalid/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
