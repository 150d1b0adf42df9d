// Command unroll flattens the quad strips of a shell mesh into cutting
// patterns.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "unroll",
	Short: "Unroll quad strips of a shell mesh into flat cutting patterns",
	Long: `Unroll reads a polygon mesh whose faces are grouped into strips
(OBJ groups named PANEL-SS) and develops every strip into the plane.

Subcommands:
  strips   - list the strips of a mesh and whether they form a chain
  run      - unroll strips and export cutting patterns
  preview  - render a PNG preview of a mesh`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug events")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("unroll failed")
		os.Exit(1)
	}
}
