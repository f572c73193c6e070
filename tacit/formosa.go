package tacit

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MnemonicEncoder turns entropy into a sentence from a themed word list.
// Formosa implementations live outside this module and plug in here.
type MnemonicEncoder interface {
	Encode(theme string, entropy []byte) (string, error)
}

// HexEncoder is the fallback encoder used when no word list is available. It
// renders entropy as space-separated hex pairs.
type HexEncoder struct{}

func (HexEncoder) Encode(_ string, entropy []byte) (string, error) {
	parts := make([]string, len(entropy))
	for i, b := range entropy {
		parts[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(parts, " "), nil
}

// FormosaRenderer presents each branch as a mnemonic sentence.
type FormosaRenderer struct {
	Encoder MnemonicEncoder
	Theme   string
}

func (r *FormosaRenderer) Kind() Kind     { return KindFormosa }
func (r *FormosaRenderer) Tags() []string { return []string{""} }

func (r *FormosaRenderer) Render(values []Value) (Artifact, error) {
	if err := expect(r, values); err != nil {
		return Artifact{}, err
	}
	text, err := r.Encoder.Encode(r.Theme, values[0].Bytes)
	if err != nil {
		return Artifact{}, fmt.Errorf("tacit: formosa encode: %w", err)
	}
	return Artifact{Kind: KindFormosa, Text: text}, nil
}
