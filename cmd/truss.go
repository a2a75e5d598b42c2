package cmd

import (
	"github.com/spf13/cobra"
)

var trussCmd = &cobra.Command{
	Use:   "truss",
	Short: "Plane truss analysis",
	Long: `Analyze pin-jointed plane trusses with the direct stiffness method.

Subcommands:
  solve     - Displacements, reactions and member forces for a model file
  envelope  - Member force envelope over NSCP 2015 load combinations
  demo      - Solve the two worked example trusses

Example model file (YAML):
  name: My first truss
  members:
    - near: {x: 0, y: 0}
      far:  {x: 3, y: 0, support: true}
    - near: {x: 0, y: 0}
      far:  {x: 3, y: 4, support: true}
  load:
    at: {x: 0, y: 0}
    fx: 0
    fy: -2

JSON files with the same fields are accepted; comments are allowed.`,
}

func init() {
	rootCmd.AddCommand(trussCmd)
}
