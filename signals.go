package tabula

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for tabula events.
var (
	SignalRulesDerived    = capitan.NewSignal("tabula.rules.derived", "Rule set derived from a type")
	SignalConvertStart    = capitan.NewSignal("tabula.convert.start", "Conversion beginning")
	SignalConvertComplete = capitan.NewSignal("tabula.convert.complete", "Conversion finished")
	SignalCollectParallel = capitan.NewSignal("tabula.collect.parallel", "Parallel collection merged")
)

// Keys for typed event data.
var (
	KeyTypeName = capitan.NewStringKey("type_name")
	KeyLayout   = capitan.NewStringKey("layout")
	KeySource   = capitan.NewStringKey("member_source")
	KeyRules    = capitan.NewIntKey("rule_count")
	KeyRows     = capitan.NewIntKey("rows")
	KeyColumns  = capitan.NewIntKey("columns")
	KeyWorkers  = capitan.NewIntKey("workers")
	KeyChunks   = capitan.NewIntKey("chunks")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

// emitRulesDerived emits an event when a rule set is derived from a type.
func emitRulesDerived(ctx context.Context, typeName string, source MemberSource, rules int) {
	capitan.Emit(ctx, SignalRulesDerived,
		KeyTypeName.Field(typeName),
		KeySource.Field(string(source)),
		KeyRules.Field(rules),
	)
}

// emitConvertStart emits an event when a conversion begins.
func emitConvertStart(ctx context.Context, layout Layout, typeName string) {
	capitan.Emit(ctx, SignalConvertStart,
		KeyLayout.Field(string(layout)),
		KeyTypeName.Field(typeName),
	)
}

// emitConvertComplete emits an event when a conversion finishes.
func emitConvertComplete(ctx context.Context, layout Layout, typeName string, rows, columns int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyLayout.Field(string(layout)),
		KeyTypeName.Field(typeName),
		KeyRows.Field(rows),
		KeyColumns.Field(columns),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConvertComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConvertComplete, fields...)
	}
}

// emitCollectParallel emits an event once parallel partials are merged.
func emitCollectParallel(ctx context.Context, workers, chunks int, duration time.Duration) {
	capitan.Emit(ctx, SignalCollectParallel,
		KeyWorkers.Field(workers),
		KeyChunks.Field(chunks),
		KeyDuration.Field(duration),
	)
}
