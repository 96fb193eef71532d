// @MX:ANCHOR: [AUTO] main is the entry point of the pbxpatch binary; any error exits 1
// @MX:REASON: [AUTO] the only entry point of the executable, delegates to cli.Execute
package main

import (
	"os"

	"github.com/modu-ai/pbxpatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
