// main.go
//
// patrol-sim entry point; the run and defaults commands live in cmd/root.go

package main

import (
	"github.com/patrol-sim/patrol-sim/cmd"
)

func main() {
	cmd.Execute()
}
