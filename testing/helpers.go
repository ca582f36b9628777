// Package testing provides test fixtures for bisque.
package testing

import (
	"errors"
	"strconv"

	"github.com/zoobzio/bisque"
)

var errBadTemperature = errors.New("bad temperature")

// Person is a fixture with a required and an optional field.
type Person struct {
	Name string               `bson:"name"`
	Age  bisque.Option[int32] `bson:"age"`
}

// PersonCodec returns a hand-built record codec for Person, equivalent to
// what Infer derives. Tests use both to check that derived and hand-built
// codecs are interchangeable.
func PersonCodec() *bisque.Struct[Person] {
	name := bisque.FieldOf("name", bisque.StringReader, bisque.StringWriter,
		func(p *Person) string { return p.Name },
		func(p *Person, v string) { p.Name = v },
	)
	age := bisque.OptionFieldOf("age", bisque.Int32Reader, bisque.Int32Writer,
		func(p *Person) bisque.Option[int32] { return p.Age },
		func(p *Person, v bisque.Option[int32]) { p.Age = v },
	)
	codec, err := bisque.NewStruct(name, age)
	if err != nil {
		panic(err)
	}
	return codec
}

// Temperature is a fixture key type reachable only through the generic
// text-conversion fallback.
type Temperature struct {
	Celsius int
}

// MarshalText implements encoding.TextMarshaler.
func (t Temperature) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(t.Celsius) + "C"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Temperature) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) < 2 || s[len(s)-1] != 'C' {
		return errBadTemperature
	}
	c, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return err
	}
	t.Celsius = c
	return nil
}
