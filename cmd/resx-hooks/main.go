package main

import "resx-hooks/internal/cli"

func main() {
	cli.Execute()
}
