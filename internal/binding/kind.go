package binding

import (
	"fmt"
	"strings"
)

// Kind is the step definition type a step or binding belongs to.
type Kind int

const (
	Given Kind = iota + 1
	When
	Then
)

var kindNames = map[Kind]string{
	Given: "Given",
	When:  "When",
	Then:  "Then",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind { return []Kind{Given, When, Then} }

// KindFromString parses "given", "When", "THEN" and so on.
func KindFromString(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown step kind %q", s)
}

// KindFromKeyword maps a Gherkin step keyword to a Kind. Conjunctions (And,
// But, *) continue the previous kind; a leading conjunction counts as Given.
func KindFromKeyword(keyword string, previous Kind) (Kind, error) {
	switch strings.TrimSpace(keyword) {
	case "Given":
		return Given, nil
	case "When":
		return When, nil
	case "Then":
		return Then, nil
	case "And", "But", "*":
		if previous.Valid() {
			return previous, nil
		}
		return Given, nil
	default:
		return 0, fmt.Errorf("unknown step keyword %q", keyword)
	}
}
