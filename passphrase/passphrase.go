// Package passphrase turns what the user types into seed entropy.
//
// Mnemonic (Formosa) decoders live outside this module and plug in through
// Decoder. The built-in decoders cover hex seeds and raw passphrases.
package passphrase

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned for a passphrase with no content.
var ErrEmpty = errors.New("passphrase: empty")

// Decoder turns a passphrase into entropy, or reports that it does not
// validate.
type Decoder interface {
	Decode(passphrase string) ([]byte, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(string) ([]byte, error)

func (f DecoderFunc) Decode(s string) ([]byte, error) { return f(s) }

// Hex decodes a hex string. Whitespace between byte pairs is ignored.
type Hex struct{}

func (Hex) Decode(s string) ([]byte, error) {
	compact := strings.Join(strings.Fields(s), "")
	if compact == "" {
		return nil, ErrEmpty
	}
	b, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("passphrase: invalid hex: %w", err)
	}
	return b, nil
}

// Raw uses the UTF-8 bytes of the first line of the passphrase as entropy.
type Raw struct{}

func (Raw) Decode(s string) ([]byte, error) {
	line := FirstLine(s)
	if line == "" {
		return nil, ErrEmpty
	}
	return []byte(line), nil
}

// FirstLine returns s up to the first line break, without a trailing "\r".
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "\r")
}

// ByName returns a built-in decoder: "hex" or "raw".
func ByName(name string) (Decoder, error) {
	switch strings.ToLower(name) {
	case "hex":
		return Hex{}, nil
	case "raw", "":
		return Raw{}, nil
	}
	return nil, fmt.Errorf("passphrase: unknown decoder %q", name)
}
