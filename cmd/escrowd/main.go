package main

import "github.com/namdoan/escrowd/internal/cli"

func main() {
	cli.Execute()
}
