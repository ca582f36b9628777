package bisque

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reader converts a BSON value into a T.
//
// A Reader is a pure, stateless function value: construct it once and invoke
// it from any number of goroutines without synchronization. Readers built
// through the package constructors never panic; failures are returned as
// errors wrapping ErrValueDoesNotMatch.
type Reader[T any] func(bson.RawValue) (T, error)

// ReadTry converts v, returning a typed failure instead of raising.
func (r Reader[T]) ReadTry(v bson.RawValue) (T, error) {
	return r(v)
}

// ReaderOf wraps a conversion function that may panic. Any panic is
// recovered and reported as a MatchError carrying the input value.
func ReaderOf[T any](f func(bson.RawValue) T) Reader[T] {
	return func(v bson.RawValue) (out T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newMatchErrorCause(v, recoveredError(r))
			}
		}()
		return f(v), nil
	}
}

// SafeReaderOf wraps a conversion function the caller guarantees never
// panics. No recovery wrapper is installed.
func SafeReaderOf[T any](f func(bson.RawValue) T) Reader[T] {
	return func(v bson.RawValue) (T, error) {
		return f(v), nil
	}
}

// Map derives a Reader for B from a Reader for A and a fallible mapping.
// The underlying reader's failure propagates unchanged.
func Map[A, B any](r Reader[A], f func(A) (B, error)) Reader[B] {
	return func(v bson.RawValue) (B, error) {
		var zero B
		a, err := r(v)
		if err != nil {
			return zero, err
		}
		return f(a)
	}
}

// UnmarshalReader returns the generic fallback Reader for T, delegating to
// the BSON value model's own decoding. Specific readers registered for T
// take priority over this fallback in registry resolution.
func UnmarshalReader[T any]() Reader[T] {
	return func(v bson.RawValue) (T, error) {
		var out T
		if err := v.Unmarshal(&out); err != nil {
			return out, newMatchErrorCause(v, err)
		}
		return out, nil
	}
}

// Built-in readers for the BSON scalar types. Each accepts exactly its own
// BSON tag; anything else is a MatchError carrying the value.
var (
	StringReader Reader[string] = func(v bson.RawValue) (string, error) {
		if s, ok := v.StringValueOK(); ok {
			return s, nil
		}
		return "", newMatchError(v)
	}

	BoolReader Reader[bool] = func(v bson.RawValue) (bool, error) {
		if b, ok := v.BooleanOK(); ok {
			return b, nil
		}
		return false, newMatchError(v)
	}

	Int32Reader Reader[int32] = func(v bson.RawValue) (int32, error) {
		if i, ok := v.Int32OK(); ok {
			return i, nil
		}
		return 0, newMatchError(v)
	}

	// Int64Reader accepts any BSON numeric subtype representable as int64.
	Int64Reader Reader[int64] = func(v bson.RawValue) (int64, error) {
		if i, ok := v.AsInt64OK(); ok {
			return i, nil
		}
		return 0, newMatchError(v)
	}

	DoubleReader Reader[float64] = func(v bson.RawValue) (float64, error) {
		if f, ok := v.DoubleOK(); ok {
			return f, nil
		}
		return 0, newMatchError(v)
	}

	BinaryReader Reader[[]byte] = func(v bson.RawValue) ([]byte, error) {
		if _, data, ok := v.BinaryOK(); ok {
			return data, nil
		}
		return nil, newMatchError(v)
	}

	Decimal128Reader Reader[primitive.Decimal128] = func(v bson.RawValue) (primitive.Decimal128, error) {
		if d, ok := v.Decimal128OK(); ok {
			return d, nil
		}
		return primitive.Decimal128{}, newMatchError(v)
	}

	ObjectIDReader Reader[primitive.ObjectID] = func(v bson.RawValue) (primitive.ObjectID, error) {
		if id, ok := v.ObjectIDOK(); ok {
			return id, nil
		}
		return primitive.NilObjectID, newMatchError(v)
	}
)

// TimeReader converts a BSON datetime into a time.Time with millisecond
// precision, matching the wire format's resolution.
var TimeReader Reader[time.Time] = func(v bson.RawValue) (time.Time, error) {
	if t, ok := v.TimeOK(); ok {
		return t, nil
	}
	return time.Time{}, newMatchError(v)
}

// SliceReader derives a Reader for []V from an element Reader. Conversion
// aborts on the first failing element and returns its error unchanged.
func SliceReader[V any](elem Reader[V]) Reader[[]V] {
	return func(v bson.RawValue) ([]V, error) {
		arr, ok := v.ArrayOK()
		if !ok {
			return nil, newMatchError(v)
		}
		vals, err := arr.Values()
		if err != nil {
			return nil, newMatchErrorCause(v, err)
		}
		out := make([]V, 0, len(vals))
		for _, rv := range vals {
			e, err := elem(rv)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}
}

// MapReader derives a Reader for map[K]V from a key codec and an element
// Reader. Document keys are converted through the KeyReader; the first
// failing key or value aborts the conversion with that failure unchanged.
func MapReader[K comparable, V any](key KeyReader[K], elem Reader[V]) Reader[map[K]V] {
	return func(v bson.RawValue) (map[K]V, error) {
		doc, ok := v.DocumentOK()
		if !ok {
			return nil, newMatchError(v)
		}
		elems, err := doc.Elements()
		if err != nil {
			return nil, newMatchErrorCause(v, err)
		}
		out := make(map[K]V, len(elems))
		for _, el := range elems {
			rawKey, err := el.KeyErr()
			if err != nil {
				return nil, newMatchErrorCause(v, err)
			}
			k, err := key(rawKey)
			if err != nil {
				return nil, err
			}
			rv, err := el.ValueErr()
			if err != nil {
				return nil, newMatchErrorCause(v, err)
			}
			val, err := elem(rv)
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	}
}

// recoveredError normalizes a recovered panic value into an error.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}

// NullValue returns the BSON null value.
func NullValue() bson.RawValue {
	return bson.RawValue{Type: bsontype.Null}
}

// IsNull reports whether v is BSON null.
func IsNull(v bson.RawValue) bool {
	return v.Type == bsontype.Null
}
