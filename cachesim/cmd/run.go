package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memhier/datarecording"
	"github.com/sarchlab/memhier/mem/cache"
	"github.com/sarchlab/memhier/mem/hierarchy"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/vm"
	"github.com/sarchlab/memhier/monitoring"
	"github.com/sarchlab/memhier/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace through the hierarchy.",
	Long: "`run --trace FILE` replays every line of FILE, prints the outcome " +
		"of each access, and prints the statistics of every structure.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := runConfigFromFlags(cmd)
		if err != nil {
			return err
		}

		return run(cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.String("trace", "", "Trace file to replay")
	f.String("pages", "", "Page table file, one `<vpn> <frame> [shared]` per line")
	f.Bool("identity", false, "Map every page to the frame of the same number")
	f.String("record", "", "Record every access into NAME.sqlite3 "+
		"(env "+envRecord+")")
	f.Bool("log", false, "Log every access to stderr (env "+envLog+")")
	f.Int("monitor", -1, "Serve the monitor on this port, 0 for a random port "+
		"(env "+envMonitorPort+")")
	f.Bool("open", false, "Open the monitor in a browser")
	f.Bool("dump", false, "Dump every structure at the end")
	f.Uint64("seed", 0, "Seed of the L1 TLB victim choice (env "+envSeed+")")

	_ = runCmd.MarkFlagRequired("trace")
	runCmd.MarkFlagsMutuallyExclusive("pages", "identity")
}

func runConfigFromFlags(cmd *cobra.Command) (runConfig, error) {
	f := cmd.Flags()
	cfg := runConfig{}

	cfg.tracePath, _ = f.GetString("trace")
	cfg.pagesPath, _ = f.GetString("pages")
	cfg.identity, _ = f.GetBool("identity")
	cfg.openBrowser, _ = f.GetBool("open")
	cfg.dump, _ = f.GetBool("dump")

	if cfg.pagesPath == "" && !cfg.identity {
		return cfg, errors.New("one of --pages and --identity is required")
	}

	cfg.recordName, _ = f.GetString("record")
	if !f.Changed("record") {
		cfg.recordName = envString(envRecord, "")
	}
	cfg.record = cfg.recordName != ""

	var err error

	cfg.log, _ = f.GetBool("log")
	if !f.Changed("log") {
		cfg.log, err = envBool(envLog, false)
		if err != nil {
			return cfg, err
		}
	}

	port, _ := f.GetInt("monitor")
	if !f.Changed("monitor") {
		p, err := envUint(envMonitorPort, 0)
		if err != nil {
			return cfg, err
		}

		_, set := os.LookupEnv(envMonitorPort)
		if set {
			port = int(p)
		}
	}
	cfg.monitor = port >= 0
	cfg.monitorPort = max(port, 0)

	cfg.seed, _ = f.GetUint64("seed")
	if !f.Changed("seed") {
		cfg.seed, err = envUint(envSeed, 0)
		if err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func run(cfg runConfig, out io.Writer) error {
	ops, err := readTrace(cfg.tracePath)
	if err != nil {
		return err
	}

	walker, err := makeWalker(cfg)
	if err != nil {
		return err
	}

	b := hierarchy.MakeBuilder().
		WithMainMemory(mem.NewStorage(1 << mem.PhysicalAddressBits)).
		WithWalker(walker).
		WithSeed(cfg.seed)

	if cfg.log {
		b = b.WithHook(tracing.NewAccessLogger(
			log.New(os.Stderr, "", log.Lmicroseconds)))
	}

	var recorder *tracing.AccessRecorder
	if cfg.record {
		backend := datarecording.New(cfg.recordName)
		defer backend.Close()

		recorder = tracing.NewAccessRecorder(backend)
		b = b.WithHook(recorder)
	}

	h := b.Build("H")

	var bar *monitoring.ProgressBar
	if cfg.monitor {
		m := monitoring.NewMonitor().
			WithPortNumber(cfg.monitorPort).
			WithBrowser(cfg.openBrowser)
		m.RegisterTarget(h)
		m.StartServer()

		bar = m.CreateProgressBar("trace", uint64(len(ops)))
		defer m.CompleteProgressBar(bar)
	}

	err = replay(h, ops, out, bar)
	if err != nil {
		return err
	}

	err = h.Drain()
	if err != nil {
		return fmt.Errorf("draining: %w", err)
	}

	fmt.Fprintln(out)
	printStats(h.Stats(), out)

	if cfg.dump {
		fmt.Fprintln(out)
		err = h.Dump(out)
		if err != nil {
			return err
		}
	}

	if recorder != nil {
		recorder.Flush()
		fmt.Fprintf(out, "\n%d records written\n", recorder.NumRecords())
	}

	return nil
}

func readTrace(path string) ([]op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ops, err := parseTrace(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ops, nil
}

func makeWalker(cfg runConfig) (vm.PageTableWalker, error) {
	if cfg.identity {
		return vm.IdentityWalker{}, nil
	}

	f, err := os.Open(cfg.pagesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pt := vm.NewPageTable()

	err = loadPages(f, pt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.pagesPath, err)
	}

	return pt, nil
}

// replay runs every op in order. Page faults and write protection
// exceptions are reported and the replay goes on. Any other error stops it.
func replay(
	h *hierarchy.Hierarchy,
	ops []op,
	out io.Writer,
	bar *monitoring.ProgressBar,
) error {
	for _, o := range ops {
		if bar != nil {
			bar.IncrementInProgress(1)
		}

		err := replayOne(h, o, out)
		if err != nil {
			return fmt.Errorf("line %d: %w", o.line, err)
		}

		if bar != nil {
			bar.MoveInProgressToFinished(1)
		}
	}

	return nil
}

func replayOne(h *hierarchy.Hierarchy, o op, out io.Writer) error {
	var (
		res cache.Result
		err error
	)

	switch o.kind {
	case opContextSwitch:
		h.ContextSwitch()
		fmt.Fprintln(out, "C")

		return nil
	case opFetch:
		res, err = h.FetchInstruction(o.addr)
	case opRead:
		res, err = h.Read(o.addr)
	case opWrite:
		res, err = h.Write(o.addr, o.data)
	}

	switch {
	case errors.Is(err, vm.ErrPageFault):
		fmt.Fprintf(out, "%s 0x%08x PageFault\n", o.kind, o.addr)
		return nil
	case errors.Is(err, cache.ErrWriteProtected):
		fmt.Fprintf(out, "%s 0x%08x %s\n", o.kind, o.addr, res.Status)
		return nil
	case err != nil:
		return err
	}

	if o.kind == opWrite {
		fmt.Fprintf(out, "%s 0x%08x %s\n", o.kind, o.addr, res.Status)
		return nil
	}

	fmt.Fprintf(out, "%s 0x%08x %s %s\n",
		o.kind, o.addr, res.Status, hex.EncodeToString(res.Data))

	return nil
}

func printStats(stats map[string]map[string]uint64, out io.Writer) {
	statusSet := map[string]bool{}
	for _, perStatus := range stats {
		for status := range perStatus {
			statusSet[status] = true
		}
	}

	statuses := sortedKeys(statusSet)
	tw := cache.NewDumpWriter(out)

	fmt.Fprint(tw, "structure\t")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t", s)
	}
	fmt.Fprintln(tw)

	for _, name := range sortedKeys(stats) {
		fmt.Fprintf(tw, "%s\t", name)
		for _, s := range statuses {
			fmt.Fprintf(tw, "%d\t", stats[name][s])
		}
		fmt.Fprintln(tw)
	}

	_ = tw.Flush()
}
