package writeback

import (
	"fmt"
	"io"

	"github.com/sarchlab/memhier/mem/cache"
)

// Dump writes every valid line, set by set, with its halt tag, main tag,
// state bits, and LRU counter.
func (c *Cache) Dump(w io.Writer) error {
	tw := cache.NewDumpWriter(w)

	fmt.Fprintf(tw,
		"%s (%s): %d sets x %d ways, %d-byte blocks, %d+%d tag bits\n",
		c.name, c.kind, c.geometry.NumSets, c.numWays, c.geometry.BlockSize,
		c.geometry.TagBits()-c.haltTable.HaltBits(), c.haltTable.HaltBits())

	for setID, s := range c.sets {
		if !hasValidLine(s) {
			continue
		}

		fmt.Fprintf(tw, "SET %d\n", setID)
		fmt.Fprintln(tw, "\tway\thalt\tmain\taddress\tdirty\twritable\tlru\t")

		for wayID, line := range s.lines {
			if !line.Valid {
				continue
			}

			fmt.Fprintf(tw, "\t%d\t0x%x\t0x%x\t0x%07x\t%t\t%t\t%d\t\n",
				wayID, c.haltTable.Lookup(wayID, setID), line.MainTag,
				c.BlockAddress(wayID, setID), line.Dirty, line.Writable,
				s.lru.Rank(wayID))
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
