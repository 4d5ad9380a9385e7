package main

import (
	"os"

	"github.com/congo-pay/payinstr/cmd/payinstr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
