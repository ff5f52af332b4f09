// Command phasehull builds thermodynamic phase diagrams from composition and
// energy data and answers stability queries against them.
package main

import "github.com/CifLord/phasehull/cmd"

func main() {
	cmd.Execute()
}
