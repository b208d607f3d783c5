package main

import (
	"github.com/alon-amarilio/SPL25-Assignment3/cmd"
)

func main() {
	cmd.Execute()
}
