// Command gridsim runs occupancy-grid controllers on a simulated clock.
package main

import "github.com/sarchlab/occugrid/cmd/gridsim/cmd"

func main() {
	cmd.Execute()
}
