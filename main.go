package main

import (
	"github.com/sagan/sdmeta/cmd"
	_ "github.com/sagan/sdmeta/cmd/all"
)

func main() {
	cmd.Execute()
}
