package viewmodel

import (
	"strings"

	"github.com/dalemusser/skprofiles/internal/domain/models"
)

var suffixes = map[string]bool{
	"JR": true, "SR": true,
	"I": true, "II": true, "III": true, "IV": true, "V": true,
}

// NameOf returns the name parts of p. Discrete fields win; the legacy Name
// string is parsed only when both first and last name are empty.
func NameOf(p models.Profile) Name {
	if p.FirstName != "" || p.LastName != "" || strings.TrimSpace(p.Name) == "" {
		return Name{
			First:  p.FirstName,
			Middle: p.MiddleName,
			Last:   p.LastName,
			Suffix: p.Suffix,
		}
	}
	return ParseName(p.Name)
}

// ParseName splits a single-string name. Two layouts are accepted:
//
//	"Last, First [Middle] [Suffix]"
//	"First [Middle] Last [Suffix]"
//
// A trailing JR, SR or roman numeral I to V (any case, optional period) is
// taken as the suffix, kept as written. With a comma, the last remaining word after the comma
// is the middle name when more than one word is left.
func ParseName(s string) Name {
	var n Name
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return n
	}

	if last, rest, ok := strings.Cut(s, ","); ok {
		n.Last = strings.TrimSpace(last)
		words := strings.Fields(rest)
		words, n.Suffix = splitSuffix(words)
		switch len(words) {
		case 0:
		case 1:
			n.First = words[0]
		default:
			n.First = strings.Join(words[:len(words)-1], " ")
			n.Middle = words[len(words)-1]
		}
		return n
	}

	words := strings.Fields(s)
	words, n.Suffix = splitSuffix(words)
	switch len(words) {
	case 0:
	case 1:
		n.Last = words[0]
	case 2:
		n.First, n.Last = words[0], words[1]
	default:
		n.First = strings.Join(words[:len(words)-2], " ")
		n.Middle = words[len(words)-2]
		n.Last = words[len(words)-1]
	}
	return n
}

// splitSuffix removes a trailing suffix word. A lone word is never taken as
// a suffix.
func splitSuffix(words []string) ([]string, string) {
	if len(words) < 2 {
		return words, ""
	}
	last := words[len(words)-1]
	if suffixes[strings.ToUpper(strings.TrimSuffix(last, "."))] {
		return words[:len(words)-1], last
	}
	return words, ""
}
