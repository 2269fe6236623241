package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memhier/datarecording"
)

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	return path
}

var _ = Describe("Run", func() {
	var (
		dir string
		out *bytes.Buffer
		cfg runConfig
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = new(bytes.Buffer)

		cfg = runConfig{
			tracePath: writeFile(dir, "trace.txt", `R 0x224
W 0x224 abcd
R 0x220
C
R 0x9000
`),
			pagesPath: writeFile(dir, "pages.txt", "1 5\n"),
		}
	})

	It("should replay a trace", func() {
		Expect(run(cfg, out)).To(Succeed())

		lines := strings.Split(out.String(), "\n")
		Expect(lines[0]).To(Equal(
			"R 0x00000224 Hit " + strings.Repeat("00", 32)))
		Expect(lines[1]).To(Equal("W 0x00000224 WriteSuccessful"))
		Expect(lines[2]).To(HavePrefix("R 0x00000220 Hit 00000000abcd00"))
		Expect(lines[3]).To(Equal("C"))
		Expect(lines[4]).To(Equal("R 0x00009000 PageFault"))

		Expect(out.String()).To(MatchRegexp(`(?m)^structure\s`))
		Expect(out.String()).To(MatchRegexp(`(?m)^H\.L1D\s`))
	})

	It("should report protected writes and go on", func() {
		cfg.pagesPath = ""
		cfg.identity = true
		cfg.tracePath = writeFile(dir, "protected.txt", "W 0x7C0 01\nR 0x7C0\n")

		Expect(run(cfg, out)).To(Succeed())

		lines := strings.Split(out.String(), "\n")
		Expect(lines[0]).To(Equal("W 0x000007c0 WriteProtectionException"))
		Expect(lines[1]).To(HavePrefix("R 0x000007c0 Hit 00"))
	})

	It("should dump the structures", func() {
		cfg.dump = true

		Expect(run(cfg, out)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("SET 1"))
	})

	It("should refuse traces the caches cannot take", func() {
		cfg.pagesPath = ""
		cfg.identity = true

		for _, line := range []string{
			"R 0x100000000",
			"W 0x21f 0102",
			"W 0x220 " + strings.Repeat("00", 34),
		} {
			cfg.tracePath = writeFile(dir, "bad_trace.txt", "R 0x20\n"+line+"\n")

			var err error
			Expect(func() { err = run(cfg, out) }).NotTo(Panic())
			Expect(err).To(MatchError(ContainSubstring("line 2")))
		}
	})

	It("should stop on a missing trace", func() {
		cfg.tracePath = filepath.Join(dir, "nope.txt")

		Expect(run(cfg, out)).NotTo(Succeed())
	})

	It("should stop on a bad page table", func() {
		cfg.pagesPath = writeFile(dir, "bad.txt", "1 5\n1 6\n")

		err := run(cfg, out)

		Expect(err).To(MatchError(ContainSubstring("mapped twice")))
	})

	It("should record the accesses", func() {
		cfg.record = true
		cfg.recordName = filepath.Join(dir, "rec")

		Expect(run(cfg, out)).To(Succeed())
		Expect(out.String()).To(MatchRegexp(`\d+ records written`))

		reader, err := datarecording.NewReader(cfg.recordName + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		summary := new(bytes.Buffer)
		err = report(context.Background(), reader, "H.L1D", summary)

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.String()).To(MatchRegexp(`(?m)^H\.L1D\s`))
		Expect(summary.String()).NotTo(ContainSubstring("H.L2"))
		Expect(summary.String()).To(ContainSubstring("WriteSuccessful"))
	})
})

var _ = Describe("Geometry", func() {
	It("should print the address split of every structure", func() {
		out := new(bytes.Buffer)
		h := newGeometryHierarchy()

		printGeometry(h, out)

		Expect(out.String()).To(MatchRegexp(
			`(?m)^H\.L1TLB\s+8\s+2\s+1\s+23\s+22\s+1\s+0\s`))
		Expect(out.String()).To(MatchRegexp(
			`(?m)^H\.L2TLB\s+4\s+8\s+1\s+23\s+20\s+3\s+0\s`))
		Expect(out.String()).To(MatchRegexp(
			`(?m)^H\.L1D\s+4\s+16\s+32\s+25\s+16\s+4\s+5\s`))
		Expect(out.String()).To(MatchRegexp(
			`(?m)^H\.L2\s+16\s+32\s+64\s+25\s+14\s+5\s+6\s`))
	})
})

var _ = Describe("Environment defaults", func() {
	setenv := func(key, value string) {
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	It("should fall back when unset", func() {
		Expect(envString("MEMHIER_TEST_UNSET", "x")).To(Equal("x"))

		b, err := envBool("MEMHIER_TEST_UNSET", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(BeTrue())

		n, err := envUint("MEMHIER_TEST_UNSET", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(uint64(3)))
	})

	It("should parse set values", func() {
		setenv("MEMHIER_TEST_BOOL", "Yes")
		setenv("MEMHIER_TEST_UINT", "0x10")

		b, err := envBool("MEMHIER_TEST_BOOL", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(BeTrue())

		n, err := envUint("MEMHIER_TEST_UINT", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(uint64(16)))
	})

	It("should reject malformed values", func() {
		setenv("MEMHIER_TEST_BOOL", "maybe")
		setenv("MEMHIER_TEST_UINT", "-1")

		_, err := envBool("MEMHIER_TEST_BOOL", false)
		Expect(err).To(MatchError(ContainSubstring("not a boolean")))

		_, err = envUint("MEMHIER_TEST_UINT", 0)
		Expect(err).To(MatchError(ContainSubstring("MEMHIER_TEST_UINT")))
	})
})
