package main

import (
	"os"

	foremancmder "github.com/plantworksco/foreman/cmd/foreman"
)

func main() {
	cmd := foremancmder.NewForemanCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
