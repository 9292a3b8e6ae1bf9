package core

// Shared fakes for the core tests. Interrupt-context entry points
// (Complete, HandleByte, Tick) are exercised by direct call; the host
// build's interrupt masking is a no-op, so ordering is the test's own.

type fakeLines struct {
	buttonLevel bool // raw electrical level, true = released (pull-up)
	peerLevel   bool // raw electrical level, true = peer running

	powerEnable     bool
	shutdownRequest bool
	auxToggles      int

	enableWrites int
}

func newFakeLines() *fakeLines {
	return &fakeLines{buttonLevel: true}
}

func (l *fakeLines) SetPowerEnable(on bool) {
	l.powerEnable = on
	l.enableWrites++
}
func (l *fakeLines) SetShutdownRequest(on bool) { l.shutdownRequest = on }
func (l *fakeLines) ButtonRaw() bool            { return l.buttonLevel }
func (l *fakeLines) PeerRunningRaw() bool       { return l.peerLevel }
func (l *fakeLines) ToggleAux()                 { l.auxToggles++ }

type fakeSleep struct {
	armed       bool
	wakePending bool
	sleeps      int
	idleSleeps  int
	armCalls    int
	disarmCalls int
	log         *[]string
}

func (s *fakeSleep) note(tag string) {
	if s.log != nil {
		*s.log = append(*s.log, tag)
	}
}

func (s *fakeSleep) ArmWake() {
	s.armed = true
	s.armCalls++
	s.note("arm-wake")
}
func (s *fakeSleep) DisarmWake() {
	s.armed = false
	s.disarmCalls++
	s.note("disarm-wake")
}
func (s *fakeSleep) WakePending() bool { return s.wakePending }
func (s *fakeSleep) Sleep() {
	s.sleeps++
	s.note("sleep")
}
func (s *fakeSleep) IdleSleep() { s.idleSleeps++ }

// fakeADC records conversion starts. When autoValue is non-nil the
// conversion completes synchronously with autoValue(ch), the way a
// blocking I2C-backed channel behaves.
type fakeADC struct {
	eng       *Engine
	starts    []uint8
	autoValue func(ch uint8) ADCValue
	downs     int
	ups       int
	log       *[]string
}

func (a *fakeADC) note(tag string) {
	if a.log != nil {
		*a.log = append(*a.log, tag)
	}
}

func (a *fakeADC) Start(ch uint8) {
	a.starts = append(a.starts, ch)
	if a.autoValue != nil {
		a.eng.Complete(a.autoValue(ch))
	}
}
func (a *fakeADC) PowerDown() {
	a.downs++
	a.note("adc-down")
}
func (a *fakeADC) PowerUp() {
	a.ups++
	a.note("adc-up")
}

type fakeBusDev struct {
	selected bool
	downs    int
	ups      int
	log      *[]string
}

func (d *fakeBusDev) note(tag string) {
	if d.log != nil {
		*d.log = append(*d.log, tag)
	}
}

func (d *fakeBusDev) Selected() bool { return d.selected }
func (d *fakeBusDev) PowerDown() {
	d.downs++
	d.note("bus-down")
}
func (d *fakeBusDev) PowerUp() {
	d.ups++
	d.note("bus-up")
}
