package core

// SleepController is the abstract low-power interface of the part.
//
// The contract around deep sleep is delicate: a wake interrupt can fire
// between the decision to sleep and the sleep instruction itself, so the
// state machine masks interrupts, checks WakePending, and only then calls
// Sleep. Implementations of Sleep are entered and left with interrupts
// masked; a wake event that becomes pending must still terminate the
// sleep (WFI-style semantics). The caller restores the interrupt state
// afterwards, at which point the wake handler runs.
type SleepController interface {
	// ArmWake configures the button edge as a wake source and clears
	// any stale pending-wake flag.
	ArmWake()

	// DisarmWake removes the button wake source after wake.
	DisarmWake()

	// WakePending reports whether a wake event has arrived since
	// ArmWake. Must be called with interrupts masked.
	WakePending() bool

	// Sleep enters the deepest available low-power mode. See the
	// type comment for the interrupt contract.
	Sleep()

	// IdleSleep enters the lighter conversion-noise-reduction mode
	// that keeps the analog hardware alive, returning on the next
	// interrupt. Called with interrupts enabled.
	IdleSleep()
}
