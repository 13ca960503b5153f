package main

import (
	"github.com/luma/rcon/cmd"
)

func main() {
	cmd.Execute()
}
