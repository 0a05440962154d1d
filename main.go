package main

import (
	"os"

	"github.com/AnyUserName/jpegtx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
