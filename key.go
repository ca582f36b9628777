package bisque

import (
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/language"
)

// Char is a single-character key. It is a defined type rather than a plain
// rune so the registry can distinguish character keys from int32 keys, which
// rune aliases.
type Char rune

// KeyReader converts a BSON document string key into a typed key T.
//
// KeyReaders are pure, stateless function values, safe for unrestricted
// concurrent use. Instances built through the package constructors never
// panic; failures funnel through ErrValueDoesNotMatch.
type KeyReader[T any] func(string) (T, error)

// ReadTry converts key, returning a typed failure instead of raising.
func (r KeyReader[T]) ReadTry(key string) (T, error) {
	return r(key)
}

// KeyWriter converts a typed key T into a BSON document string key.
type KeyWriter[T any] func(T) (string, error)

// WriteTry converts key, returning a typed failure instead of raising.
func (w KeyWriter[T]) WriteTry(key T) (string, error) {
	return w(key)
}

// KeyReaderOf wraps a conversion function that may panic. Any panic is
// recovered and reported as a MatchError carrying the offending key.
func KeyReaderOf[T any](f func(string) T) KeyReader[T] {
	return func(key string) (out T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newMatchErrorCause(key, recoveredError(r))
			}
		}()
		return f(key), nil
	}
}

// SafeKeyReaderOf wraps a conversion function the caller guarantees never
// panics. No recovery wrapper is installed.
func SafeKeyReaderOf[T any](f func(string) T) KeyReader[T] {
	return func(key string) (T, error) {
		return f(key), nil
	}
}

// KeyReaderFromTry wraps a conversion function that already returns a typed
// result. No wrapping is applied.
func KeyReaderFromTry[T any](f func(string) (T, error)) KeyReader[T] {
	return KeyReader[T](f)
}

// KeyReaderFromOption wraps a conversion function returning (T, bool). A
// false result becomes a MatchError carrying the offending key.
func KeyReaderFromOption[T any](f func(string) (T, bool)) KeyReader[T] {
	return func(key string) (T, error) {
		v, ok := f(key)
		if !ok {
			var zero T
			return zero, newMatchError(key)
		}
		return v, nil
	}
}

// KeyReaderFromPartial wraps an explicit predicate-then-convert pair. Keys
// outside the predicate's domain become a MatchError carrying the key; conv
// is only invoked on keys the predicate accepts.
func KeyReaderFromPartial[T any](match func(string) bool, conv func(string) T) KeyReader[T] {
	return func(key string) (T, error) {
		if !match(key) {
			var zero T
			return zero, newMatchError(key)
		}
		return conv(key), nil
	}
}

// KeyWriterOf wraps a rendering function the caller guarantees never panics
// and that is total over its key type. Writers with invalid key values
// (e.g. a nil big.Int) are declared as plain KeyWriter functions instead.
func KeyWriterOf[T any](f func(T) string) KeyWriter[T] {
	return func(key T) (string, error) {
		return f(key), nil
	}
}

// intKeyReader parses a signed integer key with the given bit size.
func intKeyReader[T int8 | int16 | int32 | int64 | int](bits int) KeyReader[T] {
	return func(key string) (T, error) {
		i, err := strconv.ParseInt(key, 10, bits)
		if err != nil {
			return 0, newMatchErrorCause(key, err)
		}
		return T(i), nil
	}
}

// uintKeyReader parses an unsigned integer key with the given bit size.
func uintKeyReader[T uint8 | uint16 | uint32 | uint64 | uint](bits int) KeyReader[T] {
	return func(key string) (T, error) {
		u, err := strconv.ParseUint(key, 10, bits)
		if err != nil {
			return 0, newMatchErrorCause(key, err)
		}
		return T(u), nil
	}
}

// floatKeyReader parses a floating-point key with the given bit size.
func floatKeyReader[T float32 | float64](bits int) KeyReader[T] {
	return func(key string) (T, error) {
		f, err := strconv.ParseFloat(key, bits)
		if err != nil {
			return 0, newMatchErrorCause(key, err)
		}
		return T(f), nil
	}
}

// Built-in key readers. A specific instance always takes priority over the
// generic text-unmarshaler fallback during registry resolution.
var (
	StringKeyReader = SafeKeyReaderOf(func(key string) string { return key })

	Int8KeyReader  = intKeyReader[int8](8)
	Int16KeyReader = intKeyReader[int16](16)
	Int32KeyReader = intKeyReader[int32](32)
	Int64KeyReader = intKeyReader[int64](64)
	IntKeyReader   = intKeyReader[int](strconv.IntSize)

	Uint8KeyReader  = uintKeyReader[uint8](8)
	Uint16KeyReader = uintKeyReader[uint16](16)
	Uint32KeyReader = uintKeyReader[uint32](32)
	Uint64KeyReader = uintKeyReader[uint64](64)
	UintKeyReader   = uintKeyReader[uint](strconv.IntSize)

	Float32KeyReader = floatKeyReader[float32](32)
	Float64KeyReader = floatKeyReader[float64](64)

	// BigIntKeyReader parses an arbitrary-precision decimal integer key.
	BigIntKeyReader = KeyReaderFromOption(func(key string) (*big.Int, bool) {
		return new(big.Int).SetString(key, 10)
	})

	// Decimal128KeyReader parses a BSON decimal128 key from its string form.
	Decimal128KeyReader = KeyReaderFromTry(func(key string) (primitive.Decimal128, error) {
		d, err := primitive.ParseDecimal128(key)
		if err != nil {
			return primitive.Decimal128{}, newMatchErrorCause(key, err)
		}
		return d, nil
	})

	// CharKeyReader accepts keys consisting of exactly one character. Any
	// other length is a MatchError carrying the offending key.
	CharKeyReader = KeyReaderFromOption(func(key string) (Char, bool) {
		r, size := utf8.DecodeRuneInString(key)
		// DecodeRuneInString signals invalid encoding as (RuneError, 0|1);
		// (RuneError, 3) is a genuine U+FFFD key.
		if (r == utf8.RuneError && size <= 1) || size != len(key) {
			return 0, false
		}
		return Char(r), true
	})

	// LanguageKeyReader parses a BCP 47 language tag key. Parse faults
	// surface as MatchError, never as a panic.
	LanguageKeyReader = KeyReaderFromTry(func(key string) (language.Tag, error) {
		tag, err := language.Parse(key)
		if err != nil {
			return language.Und, newMatchErrorCause(key, err)
		}
		return tag, nil
	})

	// UUIDKeyReader parses a UUID key in canonical string form.
	UUIDKeyReader = KeyReaderFromTry(func(key string) (uuid.UUID, error) {
		id, err := uuid.Parse(key)
		if err != nil {
			return uuid.Nil, newMatchErrorCause(key, err)
		}
		return id, nil
	})
)

// Built-in key writers, mirrors of the readers above.
var (
	StringKeyWriter = KeyWriterOf(func(key string) string { return key })

	Int8KeyWriter  = KeyWriterOf(func(key int8) string { return strconv.FormatInt(int64(key), 10) })
	Int16KeyWriter = KeyWriterOf(func(key int16) string { return strconv.FormatInt(int64(key), 10) })
	Int32KeyWriter = KeyWriterOf(func(key int32) string { return strconv.FormatInt(int64(key), 10) })
	Int64KeyWriter = KeyWriterOf(func(key int64) string { return strconv.FormatInt(key, 10) })
	IntKeyWriter   = KeyWriterOf(func(key int) string { return strconv.Itoa(key) })

	Uint8KeyWriter  = KeyWriterOf(func(key uint8) string { return strconv.FormatUint(uint64(key), 10) })
	Uint16KeyWriter = KeyWriterOf(func(key uint16) string { return strconv.FormatUint(uint64(key), 10) })
	Uint32KeyWriter = KeyWriterOf(func(key uint32) string { return strconv.FormatUint(uint64(key), 10) })
	Uint64KeyWriter = KeyWriterOf(func(key uint64) string { return strconv.FormatUint(key, 10) })
	UintKeyWriter   = KeyWriterOf(func(key uint) string { return strconv.FormatUint(uint64(key), 10) })

	Float32KeyWriter = KeyWriterOf(func(key float32) string { return strconv.FormatFloat(float64(key), 'g', -1, 32) })
	Float64KeyWriter = KeyWriterOf(func(key float64) string { return strconv.FormatFloat(key, 'g', -1, 64) })

	// BigIntKeyWriter rejects a nil key rather than render a string no
	// reader can match.
	BigIntKeyWriter = KeyWriter[*big.Int](func(key *big.Int) (string, error) {
		if key == nil {
			return "", newMatchError(key)
		}
		return key.String(), nil
	})
	Decimal128KeyWriter = KeyWriterOf(func(key primitive.Decimal128) string { return key.String() })
	CharKeyWriter       = KeyWriterOf(func(key Char) string { return string(rune(key)) })
	LanguageKeyWriter   = KeyWriterOf(func(key language.Tag) string { return key.String() })
	UUIDKeyWriter       = KeyWriterOf(func(key uuid.UUID) string { return key.String() })
)
