package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/napalu/rlf/value"
)

// capTransform capitalises the first rune of the value's display string.
// It is the universal transform the parser's auto-capitalisation rule
// implicitly prepends, and is also callable explicitly as @cap.
func capTransform(v value.Value, _ TransformContext, _ language.Tag) (string, error) {
	s := v.AsDisplayString()
	if s == "" {
		return s, nil
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

func upperTransform(v value.Value, _ TransformContext, _ language.Tag) (string, error) {
	return strings.ToUpper(v.AsDisplayString()), nil
}

func lowerTransform(v value.Value, _ TransformContext, _ language.Tag) (string, error) {
	return strings.ToLower(v.AsDisplayString()), nil
}
