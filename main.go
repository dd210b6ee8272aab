// main is the entry point for the featuremap CLI.
package main

import (
	"github.com/featuremap/featuremap/cmd"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)

	err := cmd.Execute()

	// Close any open store connections before reporting the outcome.
	iocache.CloseStores()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
