package bisque

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Option holds an optional value. The zero value is None.
//
// An absent Option always round-trips through BSON null: writing None emits
// null rather than dropping the field, and reading null yields None. Some(v)
// round-trips through whatever v's own codec produces.
type Option[T any] struct {
	value   T
	present bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

// None returns the absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether the Option holds a value.
func (o Option[T]) IsSome() bool { return o.present }

// IsNone reports whether the Option is absent.
func (o Option[T]) IsNone() bool { return !o.present }

// Get returns the held value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// OrElse returns the held value, or def when absent.
func (o Option[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Option[T]) String() string {
	if !o.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// optionMarker lets reflection-based derivation recognize Option fields
// without knowing the element type, so intrinsic optionality is applied
// exactly once and never stacked.
func (Option[T]) optionMarker() {}

// MarshalBSONValue implements bson.ValueMarshaler. None encodes as BSON
// null; Some(v) delegates to v's own encoding.
func (o Option[T]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !o.present {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(o.value)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler. BSON null decodes as
// None; any other value delegates to the element type's own decoding.
func (o *Option[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null {
		*o = Option[T]{}
		return nil
	}
	rv := bson.RawValue{Type: t, Value: data}
	var v T
	if err := rv.Unmarshal(&v); err != nil {
		return newMatchErrorCause(rv, err)
	}
	*o = Some(v)
	return nil
}

// OptionReader lifts a Reader for T into a Reader for Option[T]. BSON null
// yields None; any other value delegates to the underlying reader and wraps
// the result in Some, propagating the reader's failure unchanged.
func OptionReader[T any](r Reader[T]) Reader[Option[T]] {
	return func(v bson.RawValue) (Option[T], error) {
		if IsNull(v) {
			return None[T](), nil
		}
		out, err := r(v)
		if err != nil {
			return None[T](), err
		}
		return Some(out), nil
	}
}

// OptionWriter lifts a Writer for T into a Writer for Option[T]. None
// yields BSON null; Some(v) delegates to the underlying writer, propagating
// its failure unchanged. A None value is always written, never dropped.
func OptionWriter[T any](w Writer[T]) Writer[Option[T]] {
	return func(o Option[T]) (bson.RawValue, error) {
		v, ok := o.Get()
		if !ok {
			return NullValue(), nil
		}
		return w(v)
	}
}
