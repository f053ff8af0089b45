package main

import "github.com/mcoot/matchawards/internal/cli"

func main() {
	cli.Execute()
}
