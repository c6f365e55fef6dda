package main

import (
	"github.com/goliatone/go-directory-cache/cmd/adictl/cmd"
)

func main() {
	cmd.Execute()
}
