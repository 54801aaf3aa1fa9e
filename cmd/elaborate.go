package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/preveen-stack/chisel3/internal/annotation"
	"github.com/preveen-stack/chisel3/internal/cachemanager"
	"github.com/preveen-stack/chisel3/internal/elab"
	"github.com/preveen-stack/chisel3/internal/log"
	"github.com/preveen-stack/chisel3/internal/netlist"
	"github.com/preveen-stack/chisel3/internal/tracing"
)

// elaboratePipeline runs load -> elaborate -> emit against one elaboration
// context. Watch mode re-runs it on the same context, so identifiers stay
// unique across re-elaborations for the process lifetime.
type elaboratePipeline struct {
	ectx     *elab.Context
	provider *tracing.Provider
	path     string
	output   string
	cache    cachemanager.CacheManager[*netlist.Netlist]
	stdout   io.Writer
}

func (p *elaboratePipeline) run(ctx context.Context) error {
	tracer := p.provider.Tracer()
	ctx, span := tracer.Start(ctx, tracing.SpanElaborate)
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrNetlistPath, p.path))

	nl, err := p.load(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrCircuitName, nl.Circuit),
		attribute.Int(tracing.AttrWiringEntries, len(nl.Wiring)),
	)

	if _, err := netlist.Elaborate(p.ectx, nl); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("elaborating %s: %w", p.path, err)
	}

	anns := p.ectx.Annotations().All()
	span.SetAttributes(attribute.Int(tracing.AttrAnnotationCount, len(anns)))

	if err := p.emit(ctx, anns); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	log.Info(log.CatElab, "elaboration complete",
		"circuit", nl.Circuit, "annotations", len(anns))
	return nil
}

// load parses the netlist, consulting the cache keyed by path and mtime so a
// spurious watch event does not force a re-parse.
func (p *elaboratePipeline) load(ctx context.Context) (*netlist.Netlist, error) {
	ctx, span := p.provider.Tracer().Start(ctx, tracing.SpanNetlistLoad)
	defer span.End()

	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("stat netlist: %w", err)
	}
	key := fmt.Sprintf("%s|%d", p.path, info.ModTime().UnixNano())

	if nl, ok := p.cache.Get(ctx, key); ok {
		return nl, nil
	}

	nl, err := netlist.Load(p.path)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	p.cache.Set(ctx, key, nl, 5*time.Minute)
	return nl, nil
}

func (p *elaboratePipeline) emit(ctx context.Context, anns []annotation.Annotation) error {
	_, span := p.provider.Tracer().Start(ctx, tracing.SpanEmit)
	defer span.End()

	if p.output == "" || p.output == "-" {
		return annotation.Write(p.stdout, anns)
	}

	f, err := os.Create(p.output) //nolint:gosec // G304: path is the user-supplied output file
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return annotation.Write(f, anns)
}
