package bisque

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func mustWrite[T any](t *testing.T, w Writer[T], v T) bson.RawValue {
	t.Helper()
	rv, err := w.WriteTry(v)
	if err != nil {
		t.Fatalf("WriteTry(%v) error: %v", v, err)
	}
	return rv
}

func TestOption_ZeroIsNone(t *testing.T) {
	var o Option[int32]
	if !o.IsNone() {
		t.Error("zero Option should be None")
	}
	if o.OrElse(7) != 7 {
		t.Error("OrElse on None should return default")
	}
	if Some(int32(3)).OrElse(7) != 3 {
		t.Error("OrElse on Some should return held value")
	}
}

func TestOptionWriter_NoneIsNull(t *testing.T) {
	w := OptionWriter(Int32Writer)

	rv := mustWrite(t, w, None[int32]())
	if !IsNull(rv) {
		t.Errorf("write None = %v, want BSON null", rv)
	}
}

func TestOptionReader_NullIsNone(t *testing.T) {
	r := OptionReader(Int32Reader)

	o, err := r.ReadTry(NullValue())
	if err != nil {
		t.Fatalf("ReadTry(null) error: %v", err)
	}
	if !o.IsNone() {
		t.Errorf("ReadTry(null) = %v, want None", o)
	}
}

func TestOption_RoundTrip(t *testing.T) {
	r := OptionReader(StringReader)
	w := OptionWriter(StringWriter)

	rv := mustWrite(t, w, Some("hello"))
	o, err := r.ReadTry(rv)
	if err != nil {
		t.Fatalf("ReadTry error: %v", err)
	}
	if v, ok := o.Get(); !ok || v != "hello" {
		t.Errorf("round-trip = %v, want Some(hello)", o)
	}
}

func TestOptionReader_PropagatesFailure(t *testing.T) {
	r := OptionReader(Int32Reader)

	// A string value is not null and not an int32.
	rv := mustWrite(t, StringWriter, "nope")
	_, err := r.ReadTry(rv)
	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("underlying failure should propagate unchanged, got %v", err)
	}
}

func TestOption_BSONValueInterfaces(t *testing.T) {
	type wrapper struct {
		V Option[string] `bson:"v"`
	}

	data, err := bson.Marshal(wrapper{V: None[string]()})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// None must be encoded as an explicit null, not a missing field.
	raw := bson.Raw(data)
	rv, err := raw.LookupErr("v")
	if err != nil {
		t.Fatalf("field v missing from document: %v", err)
	}
	if !IsNull(rv) {
		t.Errorf("None should encode as null, got %v", rv)
	}

	var back wrapper
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !back.V.IsNone() {
		t.Errorf("null should decode as None, got %v", back.V)
	}

	data, err = bson.Marshal(wrapper{V: Some("x")})
	if err != nil {
		t.Fatalf("Marshal Some error: %v", err)
	}
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal Some error: %v", err)
	}
	if v, ok := back.V.Get(); !ok || v != "x" {
		t.Errorf("Some round-trip = %v, want Some(x)", back.V)
	}
}
