package convert

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
	tableType    = reflect.TypeOf((*binding.Table)(nil))
)

// ErrUnsupported is returned when no conversion exists between the value's
// type and the target type.
var ErrUnsupported = errors.New("unsupported conversion")

// Converter converts step argument values to handler parameter types.
// Number parsing follows the decimal separator of the binding locale.
type Converter struct{}

// CanConvert reports whether Convert would succeed.
func (c Converter) CanConvert(value any, target reflect.Type, locale language.Tag) bool {
	_, err := c.Convert(value, target, locale)
	return err == nil
}

// Convert returns value as an instance of target.
func (Converter) Convert(value any, target reflect.Type, locale language.Tag) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("convert nil to %s: %w", target, ErrUnsupported)
	}
	vt := reflect.TypeOf(value)
	if vt.AssignableTo(target) {
		return value, nil
	}

	s, ok := value.(string)
	if !ok {
		rv := reflect.ValueOf(value)
		if isNumeric(vt.Kind()) && isNumeric(target.Kind()) {
			return rv.Convert(target).Interface(), nil
		}
		return nil, fmt.Errorf("convert %s to %s: %w", vt, target, ErrUnsupported)
	}

	out, err := fromString(s, target, locale)
	if err != nil {
		return nil, fmt.Errorf("convert %q to %s: %w", s, target, err)
	}
	return out, nil
}

func fromString(s string, target reflect.Type, locale language.Tag) (any, error) {
	if strings.TrimSpace(s) == "" && target.Kind() != reflect.String && target.Kind() != reflect.Slice {
		return nil, errors.New("empty value")
	}

	switch target {
	case durationType:
		return cast.ToDurationE(strings.TrimSpace(s))
	case timeType:
		return cast.ToTimeE(strings.TrimSpace(s))
	case tableType:
		return nil, ErrUnsupported
	}

	rv := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		norm, err := normalizeInteger(s)
		if err != nil {
			return nil, err
		}
		n, err := cast.ToInt64E(norm)
		if err != nil {
			return nil, err
		}
		if rv.OverflowInt(n) {
			return nil, fmt.Errorf("%d overflows %s", n, target)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		norm, err := normalizeInteger(s)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(norm, "-") {
			return nil, fmt.Errorf("negative value for %s", target)
		}
		n, err := cast.ToUint64E(norm)
		if err != nil {
			return nil, err
		}
		if rv.OverflowUint(n) {
			return nil, fmt.Errorf("%d overflows %s", n, target)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(normalizeDecimal(s, locale))
		if err != nil {
			return nil, err
		}
		if rv.OverflowFloat(f) {
			return nil, fmt.Errorf("%g overflows %s", f, target)
		}
		rv.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		rv.SetBool(b)
	case reflect.Slice:
		if target.Elem().Kind() != reflect.String {
			return nil, ErrUnsupported
		}
		items := strings.Split(s, ",")
		slice := reflect.MakeSlice(target, 0, len(items))
		for _, item := range items {
			slice = reflect.Append(slice, reflect.ValueOf(strings.TrimSpace(item)).Convert(target.Elem()))
		}
		return slice.Interface(), nil
	default:
		return nil, ErrUnsupported
	}
	return rv.Interface(), nil
}

// normalizeInteger strips surrounding space and leading zeros so "007" is
// read as decimal 7 rather than an octal literal.
func normalizeInteger(s string) (string, error) {
	s = strings.TrimSpace(s)
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return "", errors.New("not an integer")
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	if sign == "-" {
		return "-" + s, nil
	}
	return s, nil
}

// normalizeDecimal rewrites a locale formatted number into the form
// strconv understands: group separators removed, "." as decimal point.
func normalizeDecimal(s string, locale language.Tag) string {
	s = strings.TrimSpace(s)
	if DecimalSeparator(locale) == ',' {
		s = strings.ReplaceAll(s, ".", "")
		return strings.ReplaceAll(s, ",", ".")
	}
	return strings.ReplaceAll(s, ",", "")
}

// commaDecimal lists base languages that write decimals with a comma.
var commaDecimal = map[string]bool{
	"bg": true, "cs": true, "da": true, "de": true, "el": true, "es": true,
	"fi": true, "fr": true, "hr": true, "hu": true, "id": true, "it": true,
	"nb": true, "nl": true, "no": true, "pl": true, "pt": true, "ro": true,
	"ru": true, "sk": true, "sl": true, "sr": true, "sv": true, "tr": true,
	"uk": true,
}

// DecimalSeparator returns the decimal separator used by locale.
func DecimalSeparator(locale language.Tag) rune {
	base, _ := locale.Base()
	if commaDecimal[base.String()] {
		return ','
	}
	return '.'
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
