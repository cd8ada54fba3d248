package cpf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalizeKnownIdentifiers(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"52998224725", "52998224725", true},
		{"529.982.247-25", "52998224725", true},
		{"111.444.777-35", "11144477735", true},
		{"12345678909", "12345678909", true},
		{"11111111111", "", false},
		{"00000000000", "", false},
		{"52998224726", "", false}, // flipped last digit
		{"5299822472", "", false},  // 10 digits
		{"529982247250", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// checkDigits appends the two check digits for a 9-digit prefix, mirroring the
// published CPF scheme rather than the implementation under test.
func checkDigits(prefix [9]int) string {
	digits := prefix[:]
	for len(digits) < 11 {
		j := len(digits)
		sum := 0
		for i := 0; i < j; i++ {
			sum += digits[i] * (j + 1 - i)
		}
		rest := (sum * 10) % 11
		if rest == 10 {
			rest = 0
		}
		digits = append(digits, rest)
	}
	s := ""
	for _, d := range digits {
		s += fmt.Sprintf("%d", d)
	}
	return s
}

func TestGeneratedIdentifiersValidate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var prefix [9]int
		for i := range prefix {
			prefix[i] = rapid.IntRange(0, 9).Draw(rt, fmt.Sprintf("d%d", i))
		}
		id := checkDigits(prefix)

		got, ok := Normalize(id)
		if allIdentical(id) {
			if ok {
				rt.Fatalf("repeated-digit sequence %s must be rejected", id)
			}
			return
		}
		if !ok {
			rt.Fatalf("generated identifier %s should validate", id)
		}
		if got != id {
			rt.Fatalf("Normalize(%s) = %s, want identity", id, got)
		}
	})
}

func TestFlippingLastDigitInvalidates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var prefix [9]int
		for i := range prefix {
			prefix[i] = rapid.IntRange(0, 9).Draw(rt, fmt.Sprintf("d%d", i))
		}
		id := checkDigits(prefix)
		if allIdentical(id) {
			return
		}
		delta := rapid.IntRange(1, 9).Draw(rt, "delta")
		last := int(id[10] - '0')
		flipped := id[:10] + fmt.Sprintf("%d", (last+delta)%10)

		if Valid(flipped) {
			rt.Fatalf("corrupted identifier %s must not validate", flipped)
		}
	})
}

func TestFormattingIsInsignificant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var prefix [9]int
		for i := range prefix {
			prefix[i] = rapid.IntRange(0, 9).Draw(rt, fmt.Sprintf("d%d", i))
		}
		id := checkDigits(prefix)
		formatted := id[0:3] + "." + id[3:6] + "." + id[6:9] + "-" + id[9:11]

		gotPlain, okPlain := Normalize(id)
		gotFmt, okFmt := Normalize(formatted)
		if okPlain != okFmt || gotPlain != gotFmt {
			rt.Fatalf("formatting changed outcome for %s", id)
		}
	})
}

func TestWrongDigitCountAlwaysInvalid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "len")
		if n == 11 {
			return
		}
		s := ""
		for i := 0; i < n; i++ {
			s += fmt.Sprintf("%d", rapid.IntRange(0, 9).Draw(rt, fmt.Sprintf("d%d", i)))
		}
		if Valid(s) {
			rt.Fatalf("%d-digit input %q must not validate", n, s)
		}
	})
}
