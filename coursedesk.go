package main

import (
	"os"

	"coursedesk/modules/commands"
)

func main() {
	os.Exit(commands.Execute())
}
