// Package main provides a one-shot utility for token key generation.
//
// It emits the signing key used to mint player tokens.
package main

import (
	"os"

	"github.com/louisbranch/liarsdice/internal/platform/config"
	"github.com/louisbranch/liarsdice/internal/tools/tokenkey"
)

func main() {
	if err := tokenkey.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate token key: %v", err)
	}
}
