package tracing

// Span attribute keys for elaboration tracing.
const (
	AttrNetlistPath     = "netlist.path"
	AttrCircuitName     = "circuit.name"
	AttrWiringEntries   = "wiring.entries"
	AttrAnnotationCount = "annotation.count"
	AttrBoreName        = "bore.name"

	AttrErrorMessage = "error.message"
)

// Span names for the elaborate pipeline.
const (
	SpanNetlistLoad = "netlist.load"
	SpanElaborate   = "elaborate"
	SpanEmit        = "annotations.emit"
)
