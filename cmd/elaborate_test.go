package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/preveen-stack/chisel3/internal/cachemanager"
	"github.com/preveen-stack/chisel3/internal/config"
	"github.com/preveen-stack/chisel3/internal/elab"
	"github.com/preveen-stack/chisel3/internal/netlist"
	"github.com/preveen-stack/chisel3/internal/tracing"
)

const testNetlist = `
circuit: Top
modules:
  - name: DUT
    wires: [counter]
  - name: Top
    wires: [debug]
    instances:
      - name: dut0
        module: DUT
wiring:
  - bore:
      source: dut0.counter
      sinks: [debug]
`

func newTestPipeline(t *testing.T, output string, stdout *bytes.Buffer) *elaboratePipeline {
	t.Helper()

	nlPath := filepath.Join(t.TempDir(), "design.yaml")
	require.NoError(t, os.WriteFile(nlPath, []byte(testNetlist), 0644))

	provider, err := tracing.NewProvider(tracing.DefaultConfig())
	require.NoError(t, err)

	return &elaboratePipeline{
		ectx:     elab.NewContext(),
		provider: provider,
		path:     nlPath,
		output:   output,
		cache:    cachemanager.NewInMemoryCacheManager[*netlist.Netlist]("test", time.Minute, time.Minute),
		stdout:   stdout,
	}
}

func TestPipeline_EmitsToStdout(t *testing.T) {
	var out bytes.Buffer
	p := newTestPipeline(t, "-", &out)

	require.NoError(t, p.run(context.Background()))

	var recs []map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &recs))
	require.Len(t, recs, 5, "dont_touch, source, no_dedup, sink, no_dedup")
	require.Equal(t, "source", recs[1]["kind"])
	require.Equal(t, "counter", recs[1]["name"])
}

func TestPipeline_EmitsToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "annotations.yaml")
	p := newTestPipeline(t, outPath, &bytes.Buffer{})

	require.NoError(t, p.run(context.Background()))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "kind: sink")
}

func TestPipeline_RerunKeepsNamesUnique(t *testing.T) {
	var out bytes.Buffer
	p := newTestPipeline(t, "-", &out)

	require.NoError(t, p.run(context.Background()))
	out.Reset()
	require.NoError(t, p.run(context.Background()))

	// The second elaboration on the same context must not reuse "counter".
	var recs []map[string]string
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &recs))
	names := make(map[string]int)
	for _, r := range recs {
		if r["kind"] == "source" {
			names[r["name"]]++
		}
	}
	require.Equal(t, map[string]int{"counter": 1, "counter_1": 1}, names)
}

func TestPipeline_MissingNetlist(t *testing.T) {
	p := newTestPipeline(t, "-", &bytes.Buffer{})
	p.path = filepath.Join(t.TempDir(), "missing.yaml")

	require.Error(t, p.run(context.Background()))
}

func TestTracingConfig_Mapping(t *testing.T) {
	got := tracingConfig(config.TracingConfig{
		Enabled:      true,
		Exporter:     "file",
		FilePath:     "/tmp/traces.jsonl",
		OTLPEndpoint: "collector:4317",
		SampleRate:   0.5,
	})

	require.True(t, got.Enabled)
	require.Equal(t, "file", got.Exporter)
	require.Equal(t, "/tmp/traces.jsonl", got.FilePath)
	require.Equal(t, "collector:4317", got.OTLPEndpoint)
	require.InEpsilon(t, 0.5, got.SampleRate, 0.0001)
	require.Equal(t, "chisel3", got.ServiceName)
}
