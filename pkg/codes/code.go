// Package codes models hierarchical area codes ("link codes") and the rooted
// forest they form through string-prefix truncation.
//
// A code is a two-letter domain prefix followed by an alphanumeric suffix,
// for example HO0001A. Codes of constants.RootCodeLength characters are roots;
// every longer code has exactly one parent, obtained by dropping its last
// character.
package codes

import (
	"slices"
	"strings"
	"unicode"

	"github.com/Igorvich/huizen-holland/pkg/constants"
	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// Code is an immutable hierarchical area identifier.
type Code string

// String returns the code text.
func (c Code) String() string {
	return string(c)
}

// Domain returns the two-letter domain prefix.
func (c Code) Domain() string {
	if len(c) < constants.CodePrefixLength {
		return string(c)
	}
	return string(c[:constants.CodePrefixLength])
}

// Hierarchical reports whether the code takes part in the prefix hierarchy.
// Only codes in the HO domain do; other domains are standalone leaves.
func (c Code) Hierarchical() bool {
	return c.Domain() == constants.CodePrefix
}

// IsRoot reports whether the code has root length.
func (c Code) IsRoot() bool {
	return len(c) == constants.RootCodeLength
}

// Parent returns the truncation-by-one of the code. The second return value is
// false for roots and for codes outside the hierarchy.
func (c Code) Parent() (Code, bool) {
	if !c.Hierarchical() || len(c) <= constants.RootCodeLength {
		return "", false
	}
	return c[:len(c)-1], true
}

// Root returns the root the code's truncation chain ends in.
func (c Code) Root() Code {
	if !c.Hierarchical() || len(c) <= constants.RootCodeLength {
		return c
	}
	return c[:constants.RootCodeLength]
}

// Depth is the number of truncations between the code and its root.
func (c Code) Depth() int {
	if !c.Hierarchical() || len(c) <= constants.RootCodeLength {
		return 0
	}
	return len(c) - constants.RootCodeLength
}

// IsAncestorOf reports whether c is a strict ancestor of other.
func (c Code) IsAncestorOf(other Code) bool {
	return c.Hierarchical() && other.Hierarchical() &&
		len(other) > len(c) && len(c) >= constants.RootCodeLength &&
		strings.HasPrefix(string(other), string(c))
}

// Chain returns the code followed by each of its ancestors up to the root.
func (c Code) Chain() []Code {
	chain := []Code{c}
	for cur := c; ; {
		parent, ok := cur.Parent()
		if !ok {
			return chain
		}
		chain = append(chain, parent)
		cur = parent
	}
}

// Parse validates raw text as a code.
func Parse(raw string) (Code, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < constants.RootCodeLength {
		return "", errors.NewMalformedCodeError(raw, "shorter than 6 characters")
	}
	for i, r := range raw {
		if i < constants.CodePrefixLength {
			if !unicode.IsLetter(r) || r > unicode.MaxASCII {
				return "", errors.NewMalformedCodeError(raw, "prefix must be two letters")
			}
			continue
		}
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", errors.NewMalformedCodeError(raw, "suffix must be alphanumeric")
		}
	}
	if !strings.ContainsFunc(raw[constants.CodePrefixLength:], unicode.IsDigit) {
		return "", errors.NewMalformedCodeError(raw, "suffix has no numeric part")
	}
	return Code(strings.ToUpper(raw[:constants.CodePrefixLength]) + raw[constants.CodePrefixLength:]), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and literals.
func MustParse(raw string) Code {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseLink splits a separator-joined link field into codes, dropping
// duplicates while keeping first-seen order.
func ParseLink(link string) ([]Code, error) {
	var out []Code
	for _, part := range strings.Split(link, constants.LinkSeparator) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := Parse(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Join renders codes as a link field.
func Join(cs []Code) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, constants.LinkSeparator)
}

// Sorted returns a sorted copy of cs.
func Sorted(cs []Code) []Code {
	out := slices.Clone(cs)
	slices.Sort(out)
	return out
}

// Strings converts codes to plain strings.
func Strings(cs []Code) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
