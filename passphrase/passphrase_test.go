package passphrase

import (
	"bytes"
	"errors"
	"testing"
)

func TestHex(t *testing.T) {
	got, err := Hex{}.Decode("de ad\tbe ef\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("Decode = %x", got)
	}
	if _, err := (Hex{}).Decode("xyz"); err == nil {
		t.Fatalf("expected error for invalid hex")
	}
	if _, err := (Hex{}).Decode("  "); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestRawUsesFirstLine(t *testing.T) {
	got, err := Raw{}.Decode("correct horse\r\nbattery staple")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != "correct horse" {
		t.Fatalf("Decode = %q", got)
	}
	if _, err := (Raw{}).Decode("\nsecond"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"hex", "RAW", ""} {
		if _, err := ByName(name); err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("formosa"); err == nil {
		t.Fatalf("expected error for an unknown decoder")
	}
}

func TestDecoderFunc(t *testing.T) {
	d := DecoderFunc(func(s string) ([]byte, error) { return []byte(s + "!"), nil })
	got, _ := d.Decode("x")
	if string(got) != "x!" {
		t.Fatalf("Decode = %q", got)
	}
}
