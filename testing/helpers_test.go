package testing

import (
	"testing"
)

func TestTemperature_TextRoundTrip(t *testing.T) {
	in := Temperature{Celsius: 21}

	text, err := in.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}

	var out Temperature
	if err := out.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if out != in {
		t.Errorf("round-trip = %+v, want %+v", out, in)
	}
}

func TestTemperature_UnmarshalInvalid(t *testing.T) {
	var out Temperature
	for _, s := range []string{"", "C", "21", "warm"} {
		if err := out.UnmarshalText([]byte(s)); err == nil {
			t.Errorf("UnmarshalText(%q) should fail", s)
		}
	}
}

func TestPersonCodec_Builds(t *testing.T) {
	if PersonCodec() == nil {
		t.Fatal("PersonCodec should build")
	}
}
