package probe

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/sarchlab/rtlsim/sim"
)

// A Formatter turns a sample into the text of one probe field.
type Formatter func(s sim.Sample) string

// FormatDefault uses the default form of the sample.
func FormatDefault(s sim.Sample) string {
	return s.String()
}

// FormatBit prints every value as 1 or 0.
func FormatBit(s sim.Sample) string {
	return formatEach(s, func(v int) string {
		if v != 0 {
			return "1"
		}

		return "0"
	})
}

// FormatDecimal prints every value in decimal, booleans included.
func FormatDecimal(s sim.Sample) string {
	return formatEach(s, strconv.Itoa)
}

const maxBinaryWidth = 63

// FormatBinary prints every value as a two's complement bit vector of the
// given width. Values that need more bits are truncated to the low bits.
func FormatBinary(width int) Formatter {
	if width < 1 || width > maxBinaryWidth {
		panic("probe: binary width must be in [1, 63]")
	}

	mask := uint64(1)<<width - 1

	return func(s sim.Sample) string {
		return formatEach(s, func(v int) string {
			bits := strconv.FormatUint(uint64(v)&mask, 2)
			return strings.Repeat("0", width-len(bits)) + bits
		})
	}
}

// BinaryWidth returns the number of bits a two's complement vector needs to
// hold every value of rng. Ranges that need more than 63 bits are reported as
// configuration errors.
func BinaryWidth(rng sim.Range) (int, error) {
	if err := rng.Validate(); err != nil {
		return 0, err
	}

	width := 0
	if rng.Max > 1 {
		width = bits.Len64(uint64(rng.Max - 1))
	}

	if rng.Min < 0 {
		width = max(width, bits.Len64(uint64(^rng.Min))) + 1
	}

	width = max(width, 1)
	if width > maxBinaryWidth {
		return 0, sim.ConfigErrorf(
			"range [%d, %d) needs %d bits, more than %d",
			rng.Min, rng.Max, width, maxBinaryWidth)
	}

	return width, nil
}

func formatEach(s sim.Sample, f func(v int) string) string {
	if s.Kind != sim.ArraySample {
		return f(s.Values[0])
	}

	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = f(v)
	}

	return "[" + strings.Join(parts, ",") + "]"
}
