// Command leaguestore queries and edits the NBA teams, players and games
// files, or serves them over HTTP and gRPC.
package main

import (
	"fmt"
	"os"

	"leaguestore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "leaguestore:", err)
		os.Exit(1)
	}
}
