package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParseCaseID checks that parsing never panics and that accepted ids are
// round-trippable and free of path separators.
func FuzzParseCaseID(f *testing.F) {
	f.Add("")
	f.Add("C-1001")
	f.Add("DOC-550e8400-e29b-41d4-a716-446655440000")
	f.Add("../etc/passwd")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCaseID(input)
		if err != nil {
			return
		}

		roundTrip, err := ParseCaseID(id.String())
		if err != nil {
			t.Errorf("valid id failed round-trip: %v", err)
		}
		if roundTrip != id {
			t.Error("round-trip changed id value")
		}
		if strings.ContainsAny(id.String(), `/\.`) {
			t.Errorf("accepted id with path characters: %q", id)
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
	})
}
