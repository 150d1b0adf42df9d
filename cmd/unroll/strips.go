package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/soypat/unroll"
	"github.com/spf13/cobra"
)

var stripsCmd = &cobra.Command{
	Use:   "strips <mesh>",
	Short: "List the strips of a mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMesh(args[0])
		if err != nil {
			return err
		}
		ids := m.Strips()
		if len(ids) == 0 {
			return fmt.Errorf("%s: no tagged strips", args[0])
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STRIP\tFACES\tCHAIN")
		for _, id := range ids {
			strip, err := m.Strip(id)
			if err != nil {
				return err
			}
			status := "ok"
			if err := unroll.CheckChain(strip); err != nil {
				status = err.Error()
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", id.Name(), strip.NumFaces(), status)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stripsCmd)
}
