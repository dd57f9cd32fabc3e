package main

import (
	"github.com/nfrund/chatrelay/cmd/relay-cli/cmd"
)

func main() {
	cmd.Execute()
}
