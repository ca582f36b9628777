// Package bisque provides typed, fallible readers and writers for BSON values.
//
// The package converts between BSON values (as modeled by
// go.mongodb.org/mongo-driver/bson) and statically-typed Go values. Every
// conversion is a pure, stateless function value that returns a typed error
// instead of panicking, so instances can be constructed once and invoked
// concurrently without synchronization.
//
// # Core Types
//
//   - Reader[T]: converts a BSON value into a T
//   - Writer[T]: converts a T into a BSON value
//   - KeyReader[T] / KeyWriter[T]: convert BSON document string keys to and
//     from typed keys, used for map-like structures keyed by non-string types
//   - Option[T]: an optional value whose absence round-trips through BSON null
//
// # Basic Usage
//
//	type Person struct {
//	    Name string               `bson:"name"`
//	    Age  bisque.Option[int32] `bson:"age"`
//	}
//
//	codec, _ := bisque.Infer[Person]()
//
//	data, _ := codec.Marshal(Person{Name: "ada"})
//	// {"name": "ada", "age": null} — absent values are written as null,
//	// never dropped.
//
//	p, _ := codec.Unmarshal(data)
//	// p.Age.IsNone() == true
//
// # Key Codecs
//
// Maps keyed by non-string types go through a KeyReader/KeyWriter pair:
//
//	r := bisque.MapReader(bisque.Int32KeyReader, bisque.Int32Reader)
//	w := bisque.MapWriter(bisque.Int32KeyWriter, bisque.Int32Writer)
//
// Built-in key codecs cover the integer and float types, big.Int,
// Decimal128, single characters, BCP 47 language tags, and UUIDs. Any type
// implementing encoding.TextUnmarshaler/TextMarshaler is usable through the
// generic fallback; a specific instance always wins over the fallback.
//
// # Construction Tiers
//
// KeyReaders are built from functions with varying safety guarantees:
//
//   - KeyReaderOf: wraps an unsafe function; panics become MatchError
//   - SafeKeyReaderOf: the caller guarantees the function never panics
//   - KeyReaderFromTry: the function already returns (T, error)
//   - KeyReaderFromOption: the function returns (T, bool); false is a miss
//   - KeyReaderFromPartial: an explicit predicate guards the conversion
//
// # Errors
//
// Every failed conversion funnels through ErrValueDoesNotMatch. MatchError
// carries the offending input; FieldError carries the field name and the
// component's error verbatim. Composite conversions fail fast: the first
// failing field or entry aborts the whole conversion.
//
// # Document Codecs
//
// Struct[T] composes per-field codecs into a whole-record codec. Fields are
// declared by hand with FieldOf/OptionFieldOf, or derived from struct tags
// with Infer. Optionality is a flag on the field descriptor, applied exactly
// once, so an Option field is never wrapped twice. Externally generated
// codecs are plain *Struct[T] values with no special-casing.
package bisque
