// main is the entry point for the gitpulse CLI.
package main

import (
	"github.com/huangsam/gitpulse/cmd"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
)

func main() {
	defer iostore.CloseStores()

	if err := cmd.Execute(); err != nil {
		iostore.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
