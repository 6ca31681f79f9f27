package application

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/contractmeta/internal/domain/contract"
	"github.com/zjrosen/contractmeta/internal/log"
	"github.com/zjrosen/contractmeta/internal/tracing"
)

var eventNames = map[contract.Op]string{
	contract.OpCreate:   tracing.EventCreated,
	contract.OpAnnotate: tracing.EventAnnotated,
	contract.OpValidate: tracing.EventValidated,
	contract.OpDeploy:   tracing.EventDeployed,
	contract.OpExtract:  tracing.EventExtracted,
}

// logObserver writes one debug line per builder operation.
type logObserver struct{}

func (logObserver) Observe(e contract.Event) {
	log.Debug(log.CatContract, "builder operation",
		"id", e.ID, "op", e.Op, "from", e.From, "to", e.To, "keys", e.Keys)
}

// spanObserver records builder operations as events on span. Operations that
// happen after span has ended are left to the observer of a later span.
type spanObserver struct {
	span trace.Span
}

func (o *spanObserver) Observe(e contract.Event) {
	if !o.span.IsRecording() {
		return
	}
	name, ok := eventNames[e.Op]
	if !ok {
		name = "contract." + string(e.Op)
	}
	o.span.AddEvent(name, trace.WithAttributes(
		attribute.String(tracing.AttrStageFrom, e.From.String()),
		attribute.String(tracing.AttrStage, e.To.String()),
		attribute.Int(tracing.AttrMetadataKeys, e.Keys),
	))
}

var (
	_ contract.Observer = logObserver{}
	_ contract.Observer = (*spanObserver)(nil)
)
