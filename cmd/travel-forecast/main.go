package main

import "github.com/pfrederiksen/travel-forecast/internal/cli"

func main() {
	cli.Execute()
}
