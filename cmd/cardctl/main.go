// Command cardctl manages a skill card catalog from the command line.
//
// Usage:
//
//	cardctl template cards_template.csv
//	cardctl convert cards.csv cards.json
//	cardctl convert --legacy --delimiter ';' old.csv cards.csv
//	cardctl import cards.csv
//	cardctl export -           (CSV to stdout)
//	cardctl list
//	cardctl add --name "Anna de Vries" --role "Product Owner"
//	cardctl rm <id>
//
// By default commands act on the store named by the SKILLCARDS_* config.
// With --server they go through a running server's HTTP API instead.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
