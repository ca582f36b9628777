package bisque

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
	"go.mongodb.org/mongo-driver/bson"
)

func init() {
	// Register the bson tag with sentinel
	sentinel.Tag("bson")
}

// optionMarkerType identifies Option[X] fields regardless of element type.
var optionMarkerType = reflect.TypeFor[interface{ optionMarker() }]()

// Infer derives a record codec for struct type T from its fields and
// `bson:"name"` tags. Untagged fields use the lowercased field name;
// `bson:"-"` fields are skipped. Field values are converted through the
// value model's own encoding, so nested structs, slices, and maps work
// without per-field declarations.
//
// A field whose type is Option[X] (or a pointer) is marked optional via the
// descriptor flag and decoded through the type's intrinsic null handling;
// the generic Option lift is never applied on top, so an optional field can
// never come out double-wrapped.
func Infer[T any]() (*Struct[T], error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot infer codec for non-struct type %s", rt)
	}

	spec := sentinel.Scan[T]()

	fields := make([]Field[T], 0, len(spec.Fields))
	for _, fm := range spec.Fields {
		name, ok := bsonFieldName(fm)
		if !ok {
			continue
		}
		fields = append(fields, inferField[T](name, fm.ReflectType, fm.Index))
	}

	return NewStruct[T](fields...)
}

// MustInfer is Infer, panicking on construction errors. Intended for
// package-level codec variables where the type is known good.
func MustInfer[T any]() *Struct[T] {
	s, err := Infer[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// inferField builds the descriptor for one struct field.
func inferField[T any](name string, ft reflect.Type, index []int) Field[T] {
	optional := ft.Implements(optionMarkerType) || ft.Kind() == reflect.Ptr

	return Field[T]{
		Name:     name,
		Optional: optional,
		read: func(rv bson.RawValue, out *T) error {
			fv := reflect.ValueOf(out).Elem().FieldByIndex(index)
			if IsNull(rv) && optional {
				fv.Set(reflect.Zero(ft))
				return nil
			}
			if err := rv.Unmarshal(fv.Addr().Interface()); err != nil {
				return newMatchErrorCause(rv, err)
			}
			return nil
		},
		write: func(v *T) (bson.RawValue, error) {
			fv := reflect.ValueOf(v).Elem().FieldByIndex(index)
			if optional && fv.Kind() == reflect.Ptr && fv.IsNil() {
				return NullValue(), nil
			}
			return marshalValue(fv.Interface())
		},
	}
}

// bsonFieldName resolves a field's BSON key from its metadata. The second
// return is false for fields excluded from the document.
func bsonFieldName(fm sentinel.FieldMetadata) (string, bool) {
	tag, ok := fm.Tags["bson"]
	if !ok || tag == "" {
		return strings.ToLower(fm.Name), true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		return strings.ToLower(fm.Name), true
	}
	return name, true
}
