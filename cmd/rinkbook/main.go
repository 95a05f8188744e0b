package main

import "github.com/mcoot/rinkbook/internal/cli"

func main() {
	cli.Execute()
}
