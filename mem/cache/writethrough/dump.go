package writethrough

import (
	"fmt"
	"io"

	"github.com/sarchlab/memhier/mem/cache"
)

// Dump writes every valid line, set by set, with its tag, permission, and
// FIFO countdown. Empty sets are skipped.
func (c *Cache) Dump(w io.Writer) error {
	tw := cache.NewDumpWriter(w)

	fmt.Fprintf(tw, "%s: %d sets x %d ways, %d-byte blocks, %d tag bits\n",
		c.name, c.geometry.NumSets, c.numWays, c.geometry.BlockSize,
		c.geometry.TagBits())

	for setID, s := range c.sets {
		if !hasValidLine(s) {
			continue
		}

		fmt.Fprintf(tw, "SET %d", setID)
		if c.isProtected(setID) {
			fmt.Fprint(tw, " (write-protected)")
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "\tway\ttag\taddress\twritable\tfifo\t")

		for wayID, line := range s.lines {
			if !line.Valid {
				continue
			}

			fmt.Fprintf(tw, "\t%d\t0x%x\t0x%07x\t%t\t%d\t\n",
				wayID, line.Tag, c.geometry.Compose(line.Tag, uint64(setID)),
				line.Writable, s.fifo.Countdown(wayID))
		}
	}

	return tw.Flush()
}

func hasValidLine(s set) bool {
	for _, line := range s.lines {
		if line.Valid {
			return true
		}
	}

	return false
}
