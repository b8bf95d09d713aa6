package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rillrun",
	Short: "Run and inspect rill scripts",
	Long: `rillrun is a reference host for the rill embeddable scripting engine.

rill is a small, dynamically-typed scripting language meant to be embedded
into a Go program: a host registers native Go functions and types, then runs
script source against them.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
`))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
