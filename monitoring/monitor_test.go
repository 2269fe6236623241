package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memhier/mem/hierarchy"
	"github.com/sarchlab/memhier/mem/mem"
	"github.com/sarchlab/memhier/mem/vm"
)

var _ = Describe("Monitor", func() {
	var (
		h      *hierarchy.Hierarchy
		m      *Monitor
		router http.Handler
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

		return rec
	}

	BeforeEach(func() {
		h = hierarchy.MakeBuilder().
			WithMainMemory(mem.NewStorage(1 << 25)).
			WithWalker(vm.IdentityWalker{}).
			Build("H")
		_, err := h.Read(0x224)
		Expect(err).NotTo(HaveOccurred())

		m = NewMonitor()
		m.RegisterTarget(h)
		router = m.Router()
	})

	It("should list structures", func() {
		rec := get("/api/list_structures")

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal(
			[]string{"H.L1TLB", "H.L2TLB", "H.L1I", "H.L1D", "H.L2"}))
	})

	It("should dump a structure", func() {
		rec := get("/api/dump/H.L1D")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("SET 1"))
	})

	It("should serialize a structure", func() {
		rec := get("/api/structure/H.L2")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should answer 404 for unknown structures", func() {
		Expect(get("/api/dump/nope").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/structure/nope").Code).To(Equal(http.StatusNotFound))
	})

	It("should report statistics", func() {
		rec := get("/api/stats")

		stats := map[string]map[string]uint64{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
		Expect(stats["H.L1D"]["Hit"]).To(Equal(uint64(1)))
		Expect(stats["H"]["Hit"]).To(Equal(uint64(1)))
	})

	It("should report progress", func() {
		bar := m.CreateProgressBar("trace", 10)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)

		var bars []ProgressSnapshot
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("trace"))
		Expect(bars[0].Finished).To(Equal(uint64(2)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))

		m.CompleteProgressBar(bar)
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(BeEmpty())
	})

	It("should report resource usage", func() {
		rsp := resourceRsp{}
		Expect(json.Unmarshal(get("/api/resource").Body.Bytes(), &rsp)).
			To(Succeed())

		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should fall back to a random port for reserved ports", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(Equal(0))
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})
})
