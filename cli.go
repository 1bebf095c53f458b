//go:build cli
// +build cli

package main

import (
	_ "multiplot.GO/custom"

	"multiplot.GO/cmd"
	"multiplot.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
