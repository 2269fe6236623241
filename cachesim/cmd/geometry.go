package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/mem/hierarchy"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/vm"
)

type geometric interface {
	Geometry() mem.Geometry
	NumWays() int
}

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Print how every structure splits an address.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printGeometry(newGeometryHierarchy(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(geometryCmd)
}

// newGeometryHierarchy builds a hierarchy that is only used for its shape.
func newGeometryHierarchy() *hierarchy.Hierarchy {
	return hierarchy.MakeBuilder().
		WithMainMemory(mem.NewStorage(1 << mem.PhysicalAddressBits)).
		WithWalker(vm.IdentityWalker{}).
		Build("H")
}

func printGeometry(h *hierarchy.Hierarchy, out io.Writer) {
	tw := cache.NewDumpWriter(out)

	fmt.Fprintln(tw, "structure\tways\tsets\tblock\taddress\ttag\tindex\toffset\t")

	for _, s := range h.Structures() {
		g, ok := s.(geometric)
		if !ok {
			continue
		}

		geo := g.Geometry()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			s.Name(), g.NumWays(), geo.NumSets, geo.BlockSize,
			geo.AddressBits, geo.TagBits(), geo.IndexBits(), geo.OffsetBits())
	}

	_ = tw.Flush()
}
