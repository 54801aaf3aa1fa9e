package annotation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/preveen-stack/chisel3/internal/circuit"
)

func TestRecorder_PreservesOrder(t *testing.T) {
	rec := NewRecorder()
	defer rec.Close()

	target := circuit.ReferenceTarget{Module: "DUT", Ref: "counter"}
	rec.Record(DontTouch{T: target})
	rec.Record(Source{T: target, Name: "ctr"})
	rec.Record(NoDedup{Module: circuit.ModuleTarget{Module: "DUT"}})

	anns := rec.All()
	require.Len(t, anns, 3)
	require.Equal(t, KindDontTouch, anns[0].Kind())
	require.Equal(t, KindSource, anns[1].Kind())
	require.Equal(t, KindNoDedup, anns[2].Kind())
	require.Equal(t, 3, rec.Len())
}

func TestRecorder_AllReturnsCopy(t *testing.T) {
	rec := NewRecorder()
	defer rec.Close()

	rec.Record(Sink{T: circuit.ModuleTarget{Module: "Top"}, Name: "ctr"})

	anns := rec.All()
	anns[0] = DontTouch{T: circuit.ModuleTarget{Module: "Other"}}

	require.Equal(t, KindSink, rec.All()[0].Kind())
}

func TestRecorder_StreamsAnnotations(t *testing.T) {
	rec := NewRecorder()
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := rec.Subscribe(ctx)

	want := Source{T: circuit.ReferenceTarget{Module: "DUT", Ref: "x"}, Name: "x"}
	rec.Record(want)

	select {
	case event := <-ch:
		require.Equal(t, want, event.Payload)
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for annotation event")
	}
}

func TestMarshal(t *testing.T) {
	anns := []Annotation{
		DontTouch{T: circuit.ReferenceTarget{Module: "DUT", Ref: "counter"}},
		Source{T: circuit.ReferenceTarget{Module: "DUT", Ref: "counter"}, Name: "ctr"},
		Sink{T: circuit.ModuleTarget{Module: "Top"}, Name: "ctr"},
		NoDedup{Module: circuit.ModuleTarget{Module: "DUT"}},
	}

	data, err := Marshal(anns)
	require.NoError(t, err)

	var recs []map[string]string
	require.NoError(t, yaml.Unmarshal(data, &recs))
	require.Len(t, recs, 4)

	require.Equal(t, "dont_touch", recs[0]["kind"])
	require.Equal(t, "DUT>counter", recs[0]["target"])
	require.NotContains(t, recs[0], "name", "directives carry no name")

	require.Equal(t, "source", recs[1]["kind"])
	require.Equal(t, "ctr", recs[1]["name"])

	require.Equal(t, "sink", recs[2]["kind"])
	require.Equal(t, "Top", recs[2]["target"])
	require.Equal(t, "ctr", recs[2]["name"])

	require.Equal(t, "no_dedup", recs[3]["kind"])
	require.Equal(t, "DUT", recs[3]["target"])
}
