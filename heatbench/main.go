// Command heatbench runs the 2D heat equation stencil benchmark.
package main

import "github.com/sarchlab/heatbench/heatbench/cmd"

func main() {
	cmd.Execute()
}
