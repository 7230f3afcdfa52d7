// Command kwatlas fetches Google Ads search volume for keyword lists via the
// DataForSEO API.
package main

import (
	"fmt"
	"os"

	"github.com/kwatlas/kwatlas/internal/cli"
	"github.com/kwatlas/kwatlas/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the outcome to an exit code.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
