package main

import (
	"github.com/mcphub-dev/mcphub/cmd"
)

func main() {
	// Execute the root command.
	cmd.Execute()
}
