package main

import "github.com/mcoot/bankroll/internal/cli"

func main() {
	cli.Execute()
}
