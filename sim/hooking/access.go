package hooking

// A list of hook poses for the hooks to apply to
var (
	HookPosAccess    = &HookPos{Name: "HookPosAccess"}
	HookPosFill      = &HookPos{Name: "HookPosFill"}
	HookPosEvict     = &HookPos{Name: "HookPosEvict"}
	HookPosWriteBack = &HookPos{Name: "HookPosWriteBack"}
	HookPosFlush     = &HookPos{Name: "HookPosFlush"}
)

// Access is the item passed to the hooks whenever a structure of the
// hierarchy is searched, filled, evicted, written back, or flushed.
type Access struct {
	Where   string
	What    string
	Address uint64
	SetID   int
	WayID   int
	Status  string
}

// InvokeAccessHook reports an Access to the hooks of a domain. It does
// nothing when no hook is attached.
func InvokeAccessHook(domain NamedHookable, pos *HookPos, access Access) {
	if domain.NumHooks() == 0 {
		return
	}

	if access.Where == "" {
		access.Where = domain.Name()
	}

	domain.InvokeHook(HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   access,
	})
}
