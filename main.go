package main

import (
	"github.com/ecobasket/ecobasket/cmd"
)

func main() {
	cmd.Execute()
}
