package bisque

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Writer converts a T into a BSON value.
//
// A Writer is a pure, stateless function value with the same reuse and
// concurrency guarantees as Reader. Writers built through the package
// constructors never panic.
type Writer[T any] func(T) (bson.RawValue, error)

// WriteTry converts v, returning a typed failure instead of raising.
func (w Writer[T]) WriteTry(v T) (bson.RawValue, error) {
	return w(v)
}

// WriterOf wraps a conversion function that may panic. Any panic is
// recovered and reported as a MatchError carrying the input value.
func WriterOf[T any](f func(T) bson.RawValue) Writer[T] {
	return func(v T) (out bson.RawValue, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newMatchErrorCause(v, recoveredError(r))
			}
		}()
		return f(v), nil
	}
}

// SafeWriterOf wraps a conversion function the caller guarantees never
// panics. No recovery wrapper is installed.
func SafeWriterOf[T any](f func(T) bson.RawValue) Writer[T] {
	return func(v T) (bson.RawValue, error) {
		return f(v), nil
	}
}

// Contramap derives a Writer for B from a Writer for A and a fallible
// mapping into A. The underlying writer's failure propagates unchanged.
func Contramap[A, B any](w Writer[A], f func(B) (A, error)) Writer[B] {
	return func(v B) (bson.RawValue, error) {
		a, err := f(v)
		if err != nil {
			return bson.RawValue{}, err
		}
		return w(a)
	}
}

// MarshalWriter returns the generic fallback Writer for T, delegating to
// the BSON value model's own encoding. Specific writers registered for T
// take priority over this fallback in registry resolution.
func MarshalWriter[T any]() Writer[T] {
	return func(v T) (bson.RawValue, error) {
		return marshalValue(v)
	}
}

// Built-in writers for the BSON scalar types. Encoding a Go scalar into its
// own BSON tag cannot fail, so these delegate through the value model and
// treat an encoder error as a MatchError.
var (
	StringWriter     = MarshalWriter[string]()
	BoolWriter       = MarshalWriter[bool]()
	Int32Writer      = MarshalWriter[int32]()
	Int64Writer      = MarshalWriter[int64]()
	DoubleWriter     = MarshalWriter[float64]()
	BinaryWriter     = MarshalWriter[[]byte]()
	TimeWriter       = MarshalWriter[time.Time]()
	Decimal128Writer = MarshalWriter[primitive.Decimal128]()
	ObjectIDWriter   = MarshalWriter[primitive.ObjectID]()
)

// SliceWriter derives a Writer for []V from an element Writer. Conversion
// aborts on the first failing element and returns its error unchanged.
func SliceWriter[V any](elem Writer[V]) Writer[[]V] {
	return func(vs []V) (bson.RawValue, error) {
		arr := make(bson.A, 0, len(vs))
		for _, v := range vs {
			rv, err := elem(v)
			if err != nil {
				return bson.RawValue{}, err
			}
			arr = append(arr, rv)
		}
		return marshalValue(arr)
	}
}

// MapWriter derives a Writer for map[K]V from a key codec and an element
// Writer. Entries are written in ascending key order so output is
// deterministic; the first failing key or value aborts the conversion with
// that failure unchanged.
func MapWriter[K comparable, V any](key KeyWriter[K], elem Writer[V]) Writer[map[K]V] {
	return func(m map[K]V) (bson.RawValue, error) {
		doc := make(bson.D, 0, len(m))
		for k, v := range m {
			ks, err := key(k)
			if err != nil {
				return bson.RawValue{}, err
			}
			rv, err := elem(v)
			if err != nil {
				return bson.RawValue{}, err
			}
			doc = append(doc, bson.E{Key: ks, Value: rv})
		}
		sort.Slice(doc, func(i, j int) bool { return doc[i].Key < doc[j].Key })
		return marshalValue(doc)
	}
}

// marshalValue encodes v through the value model and repackages the result
// as a RawValue.
func marshalValue(v any) (bson.RawValue, error) {
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return bson.RawValue{}, newMatchErrorCause(v, err)
	}
	return bson.RawValue{Type: t, Value: data}, nil
}
