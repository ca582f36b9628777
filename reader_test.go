package bisque

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuiltinReaders_MatchOwnTag(t *testing.T) {
	sv := mustWrite(t, StringWriter, "text")
	iv := mustWrite(t, Int32Writer, int32(9))

	if s, err := StringReader.ReadTry(sv); err != nil || s != "text" {
		t.Errorf("StringReader = %q, %v", s, err)
	}
	if i, err := Int32Reader.ReadTry(iv); err != nil || i != 9 {
		t.Errorf("Int32Reader = %d, %v", i, err)
	}

	// Wrong tag is a typed failure, never a panic.
	if _, err := StringReader.ReadTry(iv); !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("StringReader on int32 should not match, got %v", err)
	}
	if _, err := Int32Reader.ReadTry(sv); !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("Int32Reader on string should not match, got %v", err)
	}
}

func TestInt64Reader_AcceptsNumericSubtypes(t *testing.T) {
	iv := mustWrite(t, Int32Writer, int32(7))
	n, err := Int64Reader.ReadTry(iv)
	if err != nil || n != 7 {
		t.Errorf("Int64Reader on int32 = %d, %v; want widened 7", n, err)
	}
}

func TestReaderOf_RecoversPanic(t *testing.T) {
	r := ReaderOf(func(v bson.RawValue) string {
		return v.StringValue() // panics on non-string
	})

	if _, err := r.ReadTry(mustWrite(t, Int32Writer, int32(1))); err == nil {
		t.Fatal("panic inside ReaderOf should surface as error")
	} else if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("recovered panic should wrap ErrValueDoesNotMatch, got %v", err)
	}
}

func TestMap_Combinator(t *testing.T) {
	lengths := Map(StringReader, func(s string) (int, error) {
		return len(s), nil
	})

	n, err := lengths.ReadTry(mustWrite(t, StringWriter, "abcd"))
	if err != nil || n != 4 {
		t.Errorf("Map = %d, %v", n, err)
	}

	// The underlying reader's failure propagates unchanged.
	_, err = lengths.ReadTry(NullValue())
	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("Map should propagate underlying failure, got %v", err)
	}
}

func TestContramap_Combinator(t *testing.T) {
	w := Contramap(Int64Writer, func(d primitive.DateTime) (int64, error) {
		return int64(d), nil
	})

	rv, err := w.WriteTry(primitive.DateTime(1234))
	if err != nil {
		t.Fatalf("Contramap WriteTry error: %v", err)
	}
	if n, _ := Int64Reader.ReadTry(rv); n != 1234 {
		t.Errorf("Contramap result = %d, want 1234", n)
	}
}

func TestSliceCodec_RoundTrip(t *testing.T) {
	w := SliceWriter(StringWriter)
	r := SliceReader(StringReader)

	rv := mustWrite(t, w, []string{"a", "b", "c"})
	got, err := r.ReadTry(rv)
	if err != nil {
		t.Fatalf("SliceReader error: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("slice round-trip = %v", got)
	}
}

func TestSliceReader_FailFast(t *testing.T) {
	mixed := mustWrite(t, MarshalWriter[bson.A](), bson.A{"ok", int32(1), "later"})

	_, err := SliceReader(StringReader).ReadTry(mixed)
	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Fatalf("mixed array should fail on first bad element, got %v", err)
	}
}

func TestMapCodec_TypedKeys(t *testing.T) {
	w := MapWriter(Int32KeyWriter, StringWriter)
	r := MapReader(Int32KeyReader, StringReader)

	rv := mustWrite(t, w, map[int32]string{2: "two", 1: "one"})
	got, err := r.ReadTry(rv)
	if err != nil {
		t.Fatalf("MapReader error: %v", err)
	}
	if len(got) != 2 || got[1] != "one" || got[2] != "two" {
		t.Errorf("map round-trip = %v", got)
	}
}

func TestMapReader_BadKeyFailFast(t *testing.T) {
	// Document keyed by a non-numeric string cannot decode as int32 keys.
	doc := mustWrite(t, MarshalWriter[bson.D](), bson.D{{Key: "x", Value: "v"}})

	_, err := MapReader(Int32KeyReader, StringReader).ReadTry(doc)
	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("bad key should abort map conversion, got %v", err)
	}
}

func TestMapReader_NonDocument(t *testing.T) {
	_, err := MapReader(Int32KeyReader, StringReader).ReadTry(mustWrite(t, StringWriter, "x"))
	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Errorf("non-document input should not match, got %v", err)
	}
}

func TestMapWriter_DeterministicOrder(t *testing.T) {
	w := MapWriter(IntKeyWriter, Int32Writer)

	rv := mustWrite(t, w, map[int]int32{3: 3, 1: 1, 2: 2})
	doc, ok := rv.DocumentOK()
	if !ok {
		t.Fatal("MapWriter should produce a document")
	}
	elems, err := doc.Elements()
	if err != nil {
		t.Fatalf("Elements error: %v", err)
	}
	var keys []string
	for _, el := range elems {
		keys = append(keys, el.Key())
	}
	if len(keys) != 3 || keys[0] != "1" || keys[1] != "2" || keys[2] != "3" {
		t.Errorf("entries should be in ascending key order, got %v", keys)
	}
}
