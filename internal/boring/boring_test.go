package boring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/preveen-stack/chisel3/internal/annotation"
	"github.com/preveen-stack/chisel3/internal/boring"
	"github.com/preveen-stack/chisel3/internal/circuit"
	"github.com/preveen-stack/chisel3/internal/elab"
)

// testDesign is a two-instance hierarchy with signals on every level.
type testDesign struct {
	top  *circuit.Module
	dut0 *circuit.Module
	dut1 *circuit.Module
}

func newTestDesign(t *testing.T) *testDesign {
	t.Helper()
	top := circuit.NewModule("Top")
	top.Wire("debug")
	dut0 := top.Instantiate("DUT", "dut0")
	dut0.Wire("counter")
	dut0.Wire("status")
	dut1 := top.Instantiate("DUT", "dut1")
	dut1.Wire("counter")
	dut1.Wire("status")
	return &testDesign{top: top, dut0: dut0, dut1: dut1}
}

func wire(t *testing.T, m *circuit.Module, name string) *circuit.Signal {
	t.Helper()
	s, ok := m.Signal(name)
	require.True(t, ok, "missing signal %q", name)
	return s
}

// === RegisterSource ===

func TestRegisterSource_PassThrough(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	// Occupy the name in the namespace first; verbatim mode must not care.
	ectx.Namespace().AllocateUnique("myname")

	got, err := boring.RegisterSource(ectx, wire(t, d.dut0, "counter"), "myname")
	require.NoError(t, err)
	require.Equal(t, "myname", got, "verbatim names are never rewritten")
}

func TestRegisterSource_EmissionOrder(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()
	counter := wire(t, d.dut0, "counter")

	got, err := boring.RegisterSource(ectx, counter, "ctr")
	require.NoError(t, err)
	require.Equal(t, "ctr", got)

	anns := ectx.Annotations().All()
	require.Len(t, anns, 2)
	require.Equal(t, annotation.DontTouch{T: counter.Target()}, anns[0])
	require.Equal(t, annotation.Source{T: counter.Target(), Name: "ctr"}, anns[1])
}

func TestRegisterSource_NoDedup(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	_, err := boring.RegisterSource(ectx, wire(t, d.dut0, "counter"), "ctr", boring.NoDedup())
	require.NoError(t, err)

	anns := ectx.Annotations().All()
	require.Len(t, anns, 3)
	require.Equal(t, annotation.NoDedup{Module: circuit.ModuleTarget{Module: "DUT"}}, anns[2])
}

func TestRegisterSource_UniqueName(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	first, err := boring.RegisterSource(ectx, wire(t, d.dut0, "counter"), "sig", boring.UniqueName())
	require.NoError(t, err)
	require.Equal(t, "sig", first, "first allocation is unmodified")

	second, err := boring.RegisterSource(ectx, wire(t, d.dut1, "counter"), "sig", boring.UniqueName())
	require.NoError(t, err)
	require.Equal(t, "sig_1", second)
	require.NotEqual(t, first, second)
}

func TestRegisterSource_StrictNames(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext(elab.WithStrictNames())

	_, err := boring.RegisterSource(ectx, wire(t, d.dut0, "counter"), "sig")
	require.NoError(t, err)
	before := ectx.Annotations().Len()

	_, err = boring.RegisterSource(ectx, wire(t, d.dut1, "counter"), "sig")
	require.ErrorIs(t, err, boring.ErrDuplicateSource)
	require.Equal(t, before, ectx.Annotations().Len(), "failed registration emits nothing")

	// Unique naming never collides, strict or not.
	_, err = boring.RegisterSource(ectx, wire(t, d.dut1, "counter"), "sig", boring.UniqueName())
	require.NoError(t, err)
}

func TestRegisterSource_PermissiveCollisionUnchecked(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	_, err := boring.RegisterSource(ectx, wire(t, d.dut0, "counter"), "sig")
	require.NoError(t, err)
	_, err = boring.RegisterSource(ectx, wire(t, d.dut1, "counter"), "sig")
	require.NoError(t, err, "collisions are the caller's responsibility by default")
}

// === RegisterSink ===

func TestRegisterSink_SignalTarget(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()
	debug := wire(t, d.top, "debug")

	err := boring.RegisterSink(ectx, debug, "ctr")
	require.NoError(t, err)

	anns := ectx.Annotations().All()
	require.Len(t, anns, 1)
	require.Equal(t, annotation.Sink{T: debug.Target(), Name: "ctr"}, anns[0])
}

func TestRegisterSink_ModuleTarget(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	err := boring.RegisterSink(ectx, d.dut1, "ctr", boring.NoDedup())
	require.NoError(t, err)

	anns := ectx.Annotations().All()
	require.Len(t, anns, 2)
	require.Equal(t, annotation.Sink{T: circuit.ModuleTarget{Module: "DUT"}, Name: "ctr"}, anns[0])
	require.Equal(t, annotation.NoDedup{Module: circuit.ModuleTarget{Module: "DUT"}}, anns[1])
}

func TestRegisterSink_RequireExists(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	err := boring.RegisterSink(ectx, wire(t, d.top, "debug"), "missing", boring.RequireExists())
	require.ErrorIs(t, err, boring.ErrNameNotFound)
	require.Equal(t, 0, ectx.Annotations().Len(), "failed sink emits zero intents")

	got := ectx.Namespace().AllocateUnique("present")
	err = boring.RegisterSink(ectx, wire(t, d.top, "debug"), got, boring.RequireExists())
	require.NoError(t, err)
}

func TestRegisterSink_InvalidTarget(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	probe, err := d.top.Probe("dut0", "counter")
	require.NoError(t, err)

	err = boring.RegisterSink(ectx, probe, "ctr")
	require.ErrorIs(t, err, boring.ErrInvalidSinkTarget)
	require.Equal(t, 0, ectx.Annotations().Len())
}

// === Bore ===

func TestBore_RoundTrip(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()
	x := d.dut0.Wire("x")
	a := wire(t, d.top, "debug")
	b := wire(t, d.dut1, "status")

	got, err := boring.Bore(ectx, x, a, b)
	require.NoError(t, err)
	require.Equal(t, "x", got, "generated name is seeded from the display name")

	anns := ectx.Annotations().All()
	require.Equal(t, []annotation.Annotation{
		annotation.DontTouch{T: x.Target()},
		annotation.Source{T: x.Target(), Name: got},
		annotation.NoDedup{Module: circuit.ModuleTarget{Module: "DUT"}},
		annotation.Sink{T: a.Target(), Name: got},
		annotation.NoDedup{Module: circuit.ModuleTarget{Module: "Top"}},
		annotation.Sink{T: b.Target(), Name: got},
		annotation.NoDedup{Module: circuit.ModuleTarget{Module: "DUT"}},
	}, anns)
}

func TestBore_AnonymousSourceFallsBack(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	got, err := boring.Bore(ectx, d.dut0.Node(), wire(t, d.top, "debug"))
	require.NoError(t, err)
	require.Equal(t, "bore", got)

	// A second anonymous bore still gets a fresh identifier.
	got2, err := boring.Bore(ectx, d.dut1.Node(), wire(t, d.top, "debug"))
	require.NoError(t, err)
	require.Equal(t, "bore_1", got2)
}

func TestBore_RepeatedSinksTolerated(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()
	debug := wire(t, d.top, "debug")

	got, err := boring.Bore(ectx, wire(t, d.dut0, "counter"), debug, debug)
	require.NoError(t, err)

	sinks := 0
	for _, a := range ectx.Annotations().All() {
		if s, ok := a.(annotation.Sink); ok {
			require.Equal(t, got, s.Name)
			sinks++
		}
	}
	require.Equal(t, 2, sinks, "duplicate sinks produce duplicate intents")
}

func TestBore_NameExistsForLaterSinks(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	got, err := boring.Bore(ectx, wire(t, d.dut0, "counter"), wire(t, d.top, "debug"))
	require.NoError(t, err)

	// The generated name went through the namespace, so later explicit sinks
	// can bind to it with the existence check on.
	err = boring.RegisterSink(ectx, wire(t, d.dut1, "status"), got, boring.RequireExists())
	require.NoError(t, err)
}

func TestBore_InvalidSinkAborts(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	probe, err := d.top.Probe("dut0", "counter")
	require.NoError(t, err)

	_, err = boring.Bore(ectx, wire(t, d.dut0, "status"), probe)
	require.ErrorIs(t, err, boring.ErrInvalidSinkTarget)
}

// === End-to-end naming scenario ===

func TestScenario_UniqueSourcesAndCheckedSinks(t *testing.T) {
	d := newTestDesign(t)
	ectx := elab.NewContext()

	first, err := boring.RegisterSource(ectx, wire(t, d.dut0, "counter"), "sig", boring.UniqueName())
	require.NoError(t, err)
	require.Equal(t, "sig", first)

	second, err := boring.RegisterSource(ectx, wire(t, d.dut1, "counter"), "sig", boring.UniqueName())
	require.NoError(t, err)
	require.Equal(t, "sig_1", second)

	require.NoError(t, boring.RegisterSink(ectx, wire(t, d.top, "debug"), "sig", boring.RequireExists()))
	require.NoError(t, boring.RegisterSink(ectx, wire(t, d.dut0, "status"), "sig_1", boring.RequireExists()))

	err = boring.RegisterSink(ectx, wire(t, d.dut1, "status"), "nope", boring.RequireExists())
	require.ErrorIs(t, err, boring.ErrNameNotFound)
}
