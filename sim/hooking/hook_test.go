package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedDomain struct {
	HookableBase
	name string
}

func (d *namedDomain) Name() string {
	return d.name
}

type recordingHook struct {
	ctxs []HookCtx
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("HookableBase", func() {
	var (
		domain *namedDomain
		hook   *recordingHook
	)

	BeforeEach(func() {
		domain = &namedDomain{name: "L1D"}
		hook = &recordingHook{}
	})

	It("should register hooks", func() {
		domain.AcceptHook(hook)

		Expect(domain.NumHooks()).To(Equal(1))
		Expect(domain.Hooks()).To(ConsistOf(hook))
	})

	It("should panic on duplicated hooks", func() {
		domain.AcceptHook(hook)

		Expect(func() { domain.AcceptHook(hook) }).To(Panic())
	})

	It("should accept several hook funcs", func() {
		count := 0
		domain.AcceptHook(HookFunc(func(HookCtx) { count++ }))
		domain.AcceptHook(HookFunc(func(HookCtx) { count++ }))

		InvokeAccessHook(domain, HookPosAccess, Access{What: "read"})

		Expect(count).To(Equal(2))
	})

	It("should fill the location of an access", func() {
		domain.AcceptHook(hook)

		InvokeAccessHook(domain, HookPosFill, Access{
			What:    "fill",
			Address: 0x20,
			SetID:   1,
		})

		Expect(hook.ctxs).To(HaveLen(1))
		Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(HookPosFill))
		Expect(hook.ctxs[0].Domain).To(BeIdenticalTo(domain))

		access := hook.ctxs[0].Item.(Access)
		Expect(access.Where).To(Equal("L1D"))
		Expect(access.Address).To(Equal(uint64(0x20)))
	})
})

var _ = Describe("StatusCounter", func() {
	var (
		domain  *namedDomain
		counter *StatusCounter
	)

	BeforeEach(func() {
		domain = &namedDomain{name: "L2"}
		counter = NewStatusCounter()
		domain.AcceptHook(counter)
	})

	It("should count statuses per location", func() {
		InvokeAccessHook(domain, HookPosAccess, Access{Status: "Hit"})
		InvokeAccessHook(domain, HookPosAccess, Access{Status: "Hit"})
		InvokeAccessHook(domain, HookPosAccess, Access{Status: "Miss"})
		InvokeAccessHook(domain, HookPosAccess,
			Access{Where: "L1D", Status: "Miss"})

		Expect(counter.Count("L2", "Hit")).To(Equal(uint64(2)))
		Expect(counter.Count("L2", "Miss")).To(Equal(uint64(1)))
		Expect(counter.Count("L1D", "Miss")).To(Equal(uint64(1)))
		Expect(counter.Locations()).To(Equal([]string{"L1D", "L2"}))
	})

	It("should ignore other positions", func() {
		InvokeAccessHook(domain, HookPosFill, Access{Status: "Hit"})

		Expect(counter.Count("L2", "Hit")).To(BeZero())
	})

	It("should return an independent snapshot", func() {
		InvokeAccessHook(domain, HookPosAccess, Access{Status: "Hit"})

		snapshot := counter.Snapshot()
		InvokeAccessHook(domain, HookPosAccess, Access{Status: "Hit"})

		Expect(snapshot["L2"]["Hit"]).To(Equal(uint64(1)))
		Expect(counter.Count("L2", "Hit")).To(Equal(uint64(2)))
	})
})
