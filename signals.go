package bisque

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalRegistryLoaded = capitan.NewSignal("bisque.registry.loaded", "Built-in codec table populated")
	SignalCodecCreated   = capitan.NewSignal("bisque.codec.created", "Record codec constructed")
	SignalReadComplete   = capitan.NewSignal("bisque.read.complete", "Record decode finished")
	SignalWriteComplete  = capitan.NewSignal("bisque.write.complete", "Record encode finished")
)

// Keys for typed event data.
var (
	KeyTypeName   = capitan.NewStringKey("type_name")
	KeySize       = capitan.NewIntKey("size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyFieldCount = capitan.NewIntKey("field_count")
	KeyCodecCount = capitan.NewIntKey("codec_count")
	KeyError      = capitan.NewErrorKey("error")
)

// emitRegistryLoaded emits an event when the built-in table is populated.
func emitRegistryLoaded(codecs int) {
	capitan.Emit(context.Background(), SignalRegistryLoaded,
		KeyCodecCount.Field(codecs),
	)
}

// emitCodecCreated emits an event when a record codec is constructed.
func emitCodecCreated(ctx context.Context, typeName string, fieldCount int) {
	capitan.Emit(ctx, SignalCodecCreated,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fieldCount),
	)
}

// emitReadComplete emits an event when a record decode finishes.
func emitReadComplete(ctx context.Context, typeName string, size int, duration time.Duration, fieldCount int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fieldCount),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReadComplete, fields...)
	}
}

// emitWriteComplete emits an event when a record encode finishes.
func emitWriteComplete(ctx context.Context, typeName string, size int, duration time.Duration, fieldCount int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fieldCount),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalWriteComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalWriteComplete, fields...)
	}
}
