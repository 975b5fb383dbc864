package walletkeys

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is a list of BIP32 child indexes from the root.
type DerivationPath []uint32

// ParseDerivationPath reads paths such as m/44'/0'/0'/0/1. A leading "m" is
// optional; hardened elements take a trailing ' or h.
func ParseDerivationPath(raw string) (DerivationPath, *KeyError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, wrapKeyError(CodeInvalidDerivationPath, "derivation path is empty", nil)
	}

	elems := strings.Split(trimmed, "/")
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}
	if len(elems) == 0 {
		return nil, wrapKeyError(CodeInvalidDerivationPath, "derivation path has no elements", nil)
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return nil, wrapKeyError(CodeInvalidDerivationPath, "derivation path contains an empty element", nil)
		}

		var offset uint32
		if strings.HasSuffix(elem, "'") || strings.HasSuffix(elem, "h") || strings.HasSuffix(elem, "H") {
			offset = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(elem[:len(elem)-1])
		}

		value, err := strconv.ParseUint(elem, 10, 32)
		if err != nil {
			return nil, wrapKeyError(CodeInvalidDerivationPath, fmt.Sprintf("invalid element %q in derivation path", elem), err)
		}
		if value > uint64(math.MaxUint32-offset) || (offset == 0 && value >= uint64(hdkeychain.HardenedKeyStart)) {
			return nil, wrapKeyError(CodeInvalidDerivationPath, fmt.Sprintf("element %d is out of range", value), nil)
		}

		path = append(path, offset+uint32(value))
	}

	return path, nil
}

func (path DerivationPath) String() string {
	if len(path) == 0 {
		return "m"
	}

	var builder strings.Builder
	builder.WriteString("m")
	for _, component := range path {
		if component >= hdkeychain.HardenedKeyStart {
			fmt.Fprintf(&builder, "/%d'", component-hdkeychain.HardenedKeyStart)
			continue
		}
		fmt.Fprintf(&builder, "/%d", component)
	}
	return builder.String()
}
