package bisque

import (
	"encoding"
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/language"
)

// The registry resolves codec instances by target-type identity with a
// deterministic fallback order: caller-registered instance first, then the
// built-in table, then the generic fallback (text conversion for keys, the
// value model's own encoding for values). A specific instance therefore
// always wins over the generic fallback.
//
// The built-in table is populated lazily at most once and is immutable
// afterwards; all entries are pure function values, so concurrent lookup
// needs no coordination beyond the one-time population.
var (
	registryMu sync.RWMutex
	keyReaders = make(map[reflect.Type]any)
	keyWriters = make(map[reflect.Type]any)
	valReaders = make(map[reflect.Type]any)
	valWriters = make(map[reflect.Type]any)

	builtinOnce       sync.Once
	builtinKeyReaders map[reflect.Type]any
	builtinKeyWriters map[reflect.Type]any
	builtinReaders    map[reflect.Type]any
	builtinWriters    map[reflect.Type]any
)

// ensureBuiltins populates the built-in tables on first use.
func ensureBuiltins() {
	builtinOnce.Do(func() {
		builtinKeyReaders = map[reflect.Type]any{
			reflect.TypeFor[string]():               StringKeyReader,
			reflect.TypeFor[int8]():                 Int8KeyReader,
			reflect.TypeFor[int16]():                Int16KeyReader,
			reflect.TypeFor[int32]():                Int32KeyReader,
			reflect.TypeFor[int64]():                Int64KeyReader,
			reflect.TypeFor[int]():                  IntKeyReader,
			reflect.TypeFor[uint8]():                Uint8KeyReader,
			reflect.TypeFor[uint16]():               Uint16KeyReader,
			reflect.TypeFor[uint32]():               Uint32KeyReader,
			reflect.TypeFor[uint64]():               Uint64KeyReader,
			reflect.TypeFor[uint]():                 UintKeyReader,
			reflect.TypeFor[float32]():              Float32KeyReader,
			reflect.TypeFor[float64]():              Float64KeyReader,
			reflect.TypeFor[*big.Int]():             BigIntKeyReader,
			reflect.TypeFor[primitive.Decimal128](): Decimal128KeyReader,
			reflect.TypeFor[Char]():                 CharKeyReader,
			reflect.TypeFor[language.Tag]():         LanguageKeyReader,
			reflect.TypeFor[uuid.UUID]():            UUIDKeyReader,
		}
		builtinKeyWriters = map[reflect.Type]any{
			reflect.TypeFor[string]():               StringKeyWriter,
			reflect.TypeFor[int8]():                 Int8KeyWriter,
			reflect.TypeFor[int16]():                Int16KeyWriter,
			reflect.TypeFor[int32]():                Int32KeyWriter,
			reflect.TypeFor[int64]():                Int64KeyWriter,
			reflect.TypeFor[int]():                  IntKeyWriter,
			reflect.TypeFor[uint8]():                Uint8KeyWriter,
			reflect.TypeFor[uint16]():               Uint16KeyWriter,
			reflect.TypeFor[uint32]():               Uint32KeyWriter,
			reflect.TypeFor[uint64]():               Uint64KeyWriter,
			reflect.TypeFor[uint]():                 UintKeyWriter,
			reflect.TypeFor[float32]():              Float32KeyWriter,
			reflect.TypeFor[float64]():              Float64KeyWriter,
			reflect.TypeFor[*big.Int]():             BigIntKeyWriter,
			reflect.TypeFor[primitive.Decimal128](): Decimal128KeyWriter,
			reflect.TypeFor[Char]():                 CharKeyWriter,
			reflect.TypeFor[language.Tag]():         LanguageKeyWriter,
			reflect.TypeFor[uuid.UUID]():            UUIDKeyWriter,
		}
		builtinReaders = map[reflect.Type]any{
			reflect.TypeFor[string]():               StringReader,
			reflect.TypeFor[bool]():                 BoolReader,
			reflect.TypeFor[int32]():                Int32Reader,
			reflect.TypeFor[int64]():                Int64Reader,
			reflect.TypeFor[float64]():              DoubleReader,
			reflect.TypeFor[[]byte]():               BinaryReader,
			reflect.TypeFor[time.Time]():            TimeReader,
			reflect.TypeFor[primitive.Decimal128](): Decimal128Reader,
			reflect.TypeFor[primitive.ObjectID]():   ObjectIDReader,
		}
		builtinWriters = map[reflect.Type]any{
			reflect.TypeFor[string]():               StringWriter,
			reflect.TypeFor[bool]():                 BoolWriter,
			reflect.TypeFor[int32]():                Int32Writer,
			reflect.TypeFor[int64]():                Int64Writer,
			reflect.TypeFor[float64]():              DoubleWriter,
			reflect.TypeFor[[]byte]():               BinaryWriter,
			reflect.TypeFor[time.Time]():            TimeWriter,
			reflect.TypeFor[primitive.Decimal128](): Decimal128Writer,
			reflect.TypeFor[primitive.ObjectID]():   ObjectIDWriter,
		}
		emitRegistryLoaded(len(builtinKeyReaders) + len(builtinKeyWriters) +
			len(builtinReaders) + len(builtinWriters))
	})
}

// RegisterKeyReader registers a KeyReader for T, taking priority over the
// built-in instance and the generic fallback. Safe for concurrent use.
func RegisterKeyReader[T any](r KeyReader[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	keyReaders[reflect.TypeFor[T]()] = r
}

// RegisterKeyWriter registers a KeyWriter for T.
func RegisterKeyWriter[T any](w KeyWriter[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	keyWriters[reflect.TypeFor[T]()] = w
}

// RegisterReader registers a Reader for T.
func RegisterReader[T any](r Reader[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	valReaders[reflect.TypeFor[T]()] = r
}

// RegisterWriter registers a Writer for T.
func RegisterWriter[T any](w Writer[T]) {
	registryMu.Lock()
	defer registryMu.Unlock()
	valWriters[reflect.TypeFor[T]()] = w
}

// KeyReaderFor resolves the KeyReader for T: caller-registered instance,
// then built-in, then the encoding.TextUnmarshaler fallback. Returns false
// when no tier applies.
func KeyReaderFor[T any]() (KeyReader[T], bool) {
	ensureBuiltins()
	t := reflect.TypeFor[T]()

	registryMu.RLock()
	e, ok := keyReaders[t]
	registryMu.RUnlock()
	if ok {
		return e.(KeyReader[T]), true
	}

	if e, ok := builtinKeyReaders[t]; ok {
		return e.(KeyReader[T]), true
	}

	return textKeyReader[T]()
}

// KeyWriterFor resolves the KeyWriter for T: caller-registered instance,
// then built-in, then the encoding.TextMarshaler fallback.
func KeyWriterFor[T any]() (KeyWriter[T], bool) {
	ensureBuiltins()
	t := reflect.TypeFor[T]()

	registryMu.RLock()
	e, ok := keyWriters[t]
	registryMu.RUnlock()
	if ok {
		return e.(KeyWriter[T]), true
	}

	if e, ok := builtinKeyWriters[t]; ok {
		return e.(KeyWriter[T]), true
	}

	return textKeyWriter[T]()
}

// ReaderFor resolves the Reader for T. The generic fallback delegates to
// the value model's decoder, so resolution always succeeds; a specific
// instance wins when one exists.
func ReaderFor[T any]() Reader[T] {
	ensureBuiltins()
	t := reflect.TypeFor[T]()

	registryMu.RLock()
	e, ok := valReaders[t]
	registryMu.RUnlock()
	if ok {
		return e.(Reader[T])
	}

	if e, ok := builtinReaders[t]; ok {
		return e.(Reader[T])
	}

	return UnmarshalReader[T]()
}

// WriterFor resolves the Writer for T, symmetric to ReaderFor.
func WriterFor[T any]() Writer[T] {
	ensureBuiltins()
	t := reflect.TypeFor[T]()

	registryMu.RLock()
	e, ok := valWriters[t]
	registryMu.RUnlock()
	if ok {
		return e.(Writer[T])
	}

	if e, ok := builtinWriters[t]; ok {
		return e.(Writer[T])
	}

	return MarshalWriter[T]()
}

// Reset clears caller-registered codecs. Built-ins are unaffected.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	keyReaders = make(map[reflect.Type]any)
	keyWriters = make(map[reflect.Type]any)
	valReaders = make(map[reflect.Type]any)
	valWriters = make(map[reflect.Type]any)
}

// textKeyReader builds the generic fallback KeyReader for types whose
// pointer implements encoding.TextUnmarshaler.
func textKeyReader[T any]() (KeyReader[T], bool) {
	var probe T
	if _, ok := any(&probe).(encoding.TextUnmarshaler); !ok {
		return nil, false
	}
	return func(key string) (T, error) {
		var v T
		if err := any(&v).(encoding.TextUnmarshaler).UnmarshalText([]byte(key)); err != nil {
			return v, newMatchErrorCause(key, err)
		}
		return v, nil
	}, true
}

// textKeyWriter builds the generic fallback KeyWriter for types
// implementing encoding.TextMarshaler.
func textKeyWriter[T any]() (KeyWriter[T], bool) {
	var probe T
	if _, ok := any(&probe).(encoding.TextMarshaler); !ok {
		return nil, false
	}
	return func(key T) (string, error) {
		b, err := any(&key).(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", newMatchErrorCause(key, err)
		}
		return string(b), nil
	}, true
}
