package bisque

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Field describes how one BSON document field maps onto a record of type T.
//
// Optionality is a flag on the descriptor, not a stacked wrapper type: a
// field is either optional or it is not, the reader and writer consult the
// same flag, and the null/absence lift is applied exactly once. This rules
// out double-wrapped optional shapes by construction.
type Field[T any] struct {
	// Name is the BSON key for this field.
	Name string

	// Optional marks that absence is allowed: a missing key or BSON null
	// reads as the field's absent value, and an absent value writes as
	// BSON null (never as a dropped field).
	Optional bool

	read  func(bson.RawValue, *T) error
	write func(*T) (bson.RawValue, error)
}

// FieldOf declares a required field backed by a Reader/Writer pair and a
// getter/setter on the record.
func FieldOf[T, F any](name string, r Reader[F], w Writer[F], get func(*T) F, set func(*T, F)) Field[T] {
	return Field[T]{
		Name: name,
		read: func(rv bson.RawValue, t *T) error {
			v, err := r(rv)
			if err != nil {
				return err
			}
			set(t, v)
			return nil
		},
		write: func(t *T) (bson.RawValue, error) {
			return w(get(t))
		},
	}
}

// OptionFieldOf declares an optional field holding Option[F]. The element
// codec is lifted through OptionReader/OptionWriter here, once, on both
// directions; callers pass the plain element codec and must not pre-wrap it.
func OptionFieldOf[T, F any](name string, r Reader[F], w Writer[F], get func(*T) Option[F], set func(*T, Option[F])) Field[T] {
	or := OptionReader(r)
	ow := OptionWriter(w)
	return Field[T]{
		Name:     name,
		Optional: true,
		read: func(rv bson.RawValue, t *T) error {
			v, err := or(rv)
			if err != nil {
				return err
			}
			set(t, v)
			return nil
		},
		write: func(t *T) (bson.RawValue, error) {
			return ow(get(t))
		},
	}
}

// Struct composes field descriptors into a whole-record codec for T.
//
// Writing emits fields in declaration order; reading accepts fields in any
// order and ignores unknown keys. Both directions fail fast: the first
// failing field aborts the conversion and its error is surfaced wrapped in
// a FieldError whose Unwrap returns the component error verbatim.
//
// A Struct is immutable after construction and safe for concurrent use.
// Externally derived codecs are plain *Struct values; nothing here
// distinguishes them from hand-built ones.
type Struct[T any] struct {
	typeName string
	fields   []Field[T]
	byName   map[string]int
}

// NewStruct builds a record codec from field descriptors. Declaring two
// fields with the same BSON key is a construction error.
func NewStruct[T any](fields ...Field[T]) (*Struct[T], error) {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		byName[f.Name] = i
	}

	s := &Struct[T]{
		typeName: reflect.TypeFor[T]().Name(),
		fields:   fields,
		byName:   byName,
	}
	emitCodecCreated(context.Background(), s.typeName, len(fields))
	return s, nil
}

// TypeName returns the Go type name this codec converts.
func (s *Struct[T]) TypeName() string {
	return s.typeName
}

// WriteDoc converts v into a BSON document, one element per declared field
// in declaration order. Optional fields holding no value are written as
// BSON null, never omitted.
func (s *Struct[T]) WriteDoc(v T) (bson.D, error) {
	doc := make(bson.D, 0, len(s.fields))
	for _, f := range s.fields {
		rv, err := f.write(&v)
		if err != nil {
			return nil, newFieldError(f.Name, err)
		}
		doc = append(doc, bson.E{Key: f.Name, Value: rv})
	}
	return doc, nil
}

// ReadDoc converts a BSON document into a T. Field order is arbitrary;
// unknown keys are ignored; declared fields missing from the document are
// left at their zero value, which for an Optional field is its absent
// value.
func (s *Struct[T]) ReadDoc(doc bson.Raw) (T, error) {
	var out T

	elems, err := doc.Elements()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrNotDocument, err)
	}

	for _, el := range elems {
		key, err := el.KeyErr()
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrNotDocument, err)
		}
		i, ok := s.byName[key]
		if !ok {
			continue
		}
		rv, err := el.ValueErr()
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrNotDocument, err)
		}
		if err := s.fields[i].read(rv, &out); err != nil {
			return out, newFieldError(key, err)
		}
	}

	return out, nil
}

// Reader returns the record codec's read direction as a plain Reader, for
// composition with other codecs (nested records, collections, Option).
func (s *Struct[T]) Reader() Reader[T] {
	return func(v bson.RawValue) (T, error) {
		doc, ok := v.DocumentOK()
		if !ok {
			var zero T
			return zero, newMatchError(v)
		}
		return s.ReadDoc(doc)
	}
}

// Writer returns the record codec's write direction as a plain Writer.
func (s *Struct[T]) Writer() Writer[T] {
	return func(v T) (bson.RawValue, error) {
		doc, err := s.WriteDoc(v)
		if err != nil {
			return bson.RawValue{}, err
		}
		return marshalValue(doc)
	}
}

// Marshal encodes v to BSON wire bytes.
func (s *Struct[T]) Marshal(v T) ([]byte, error) {
	start := time.Now()

	var retErr error
	var retData []byte
	defer func() {
		emitWriteComplete(context.Background(), s.typeName,
			len(retData), time.Since(start), len(s.fields), retErr)
	}()

	doc, err := s.WriteDoc(v)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	retData, retErr = bson.Marshal(doc)
	return retData, retErr
}

// Unmarshal decodes BSON wire bytes into a T.
func (s *Struct[T]) Unmarshal(data []byte) (T, error) {
	start := time.Now()

	var retErr error
	var out T
	defer func() {
		emitReadComplete(context.Background(), s.typeName,
			len(data), time.Since(start), len(s.fields), retErr)
	}()

	doc := bson.Raw(data)
	if err := doc.Validate(); err != nil {
		retErr = fmt.Errorf("%w: %v", ErrNotDocument, err)
		return out, retErr
	}

	out, retErr = s.ReadDoc(doc)
	return out, retErr
}
