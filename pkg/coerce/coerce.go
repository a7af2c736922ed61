// Package coerce converts between document-store scalar types and values that
// encode cleanly as JSON.
package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrInvalidDecimal  = errors.New("invalid decimal")
	ErrInvalidObjectID = errors.New("invalid object id")
	ErrInvalidTime     = errors.New("invalid datetime")
)

// TimeLayout is the wire format for timestamps.
const TimeLayout = time.RFC3339Nano

// ToWire walks v and replaces every store-native scalar with its JSON-safe
// counterpart. Containers are rebuilt, never mutated in place. Values of
// unknown types are returned unchanged.
func ToWire(v any) any {
	switch value := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return mapToWire(value)
	case bson.M:
		return mapToWire(value)
	case bson.D:
		out := make(map[string]any, len(value))
		for _, elem := range value {
			out[elem.Key] = ToWire(elem.Value)
		}
		return out
	case bson.E:
		return map[string]any{value.Key: ToWire(value.Value)}
	case []any:
		return sliceToWire(value)
	case bson.A:
		return sliceToWire(value)
	case []map[string]any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = mapToWire(item)
		}
		return out
	case []string:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = item
		}
		return out
	case bson.Decimal128:
		return decimalToWire(value)
	case *bson.Decimal128:
		if value == nil {
			return nil
		}
		return decimalToWire(*value)
	case bson.ObjectID:
		return value.Hex()
	case *bson.ObjectID:
		if value == nil {
			return nil
		}
		return value.Hex()
	case bson.DateTime:
		return FormatTime(value.Time())
	case time.Time:
		return FormatTime(value)
	case *time.Time:
		if value == nil {
			return nil
		}
		return FormatTime(*value)
	case json.Number:
		return numberValue(value)
	default:
		return v
	}
}

// FromWire normalises a decoded JSON payload so it can be stored as-is:
// json.Number becomes int64 when integral, float64 when exact and
// Decimal128 otherwise.
func FromWire(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = FromWire(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = FromWire(item)
		}
		return out
	case json.Number:
		return numberValue(value)
	default:
		return v
	}
}

func mapToWire(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = ToWire(item)
	}
	return out
}

func sliceToWire(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = ToWire(item)
	}
	return out
}

// numberValue keeps n as int64 or float64 when either holds it exactly and
// falls back to Decimal128 otherwise.
func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, ok := exactFloat(n.String()); ok {
		return f
	}
	if d, err := bson.ParseDecimal128(n.String()); err == nil {
		return d
	}
	return n.String()
}

// exactFloat parses text as a float64 and reports whether the shortest
// rendering of that float denotes the same number.
func exactFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	want, ok := new(big.Rat).SetString(text)
	if !ok {
		return 0, false
	}
	got, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok || want.Cmp(got) != 0 {
		return 0, false
	}
	return f, true
}

// decimalToWire renders d as a float64 when that is lossless. Wider values
// are emitted as a JSON number literal, and non-finite ones as a string.
func decimalToWire(d bson.Decimal128) any {
	if d.IsNaN() || d.IsInf() != 0 {
		return d.String()
	}
	if f, ok := exactFloat(d.String()); ok {
		return f
	}
	return json.Number(d.String())
}

func decimalFloat(d bson.Decimal128) (float64, bool) {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DecimalFloat returns d as a float64. Non-finite decimals yield 0.
func DecimalFloat(d bson.Decimal128) float64 {
	f, _ := decimalFloat(d)
	return f
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseDecimal accepts numbers and numeric strings and returns a finite
// Decimal128.
func ParseDecimal(v any) (bson.Decimal128, error) {
	text, err := decimalText(v)
	if err != nil {
		return bson.Decimal128{}, err
	}
	d, err := bson.ParseDecimal128(text)
	if err != nil {
		return bson.Decimal128{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, text)
	}
	if d.IsNaN() || d.IsInf() != 0 {
		return bson.Decimal128{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, text)
	}
	return d, nil
}

// DecimalDigits reports the number of significant whole and fractional digits
// of a decimal value, ignoring leading zeros of the whole part and trailing
// zeros of the fraction.
func DecimalDigits(v any) (whole int, frac int, err error) {
	text, err := decimalText(v)
	if err != nil {
		return 0, 0, err
	}

	if strings.ContainsAny(text, "eE") {
		f, _, parseErr := big.ParseFloat(text, 10, 256, big.ToNearestEven)
		if parseErr != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDecimal, text)
		}
		text = f.Text('f', -1)
	}

	text = strings.TrimLeft(text, "+-")
	intPart, fracPart, _ := strings.Cut(text, ".")
	intPart = strings.TrimLeft(intPart, "0")
	fracPart = strings.TrimRight(fracPart, "0")
	return len(intPart), len(fracPart), nil
}

func decimalText(v any) (string, error) {
	switch value := v.(type) {
	case json.Number:
		return validDecimalText(value.String())
	case string:
		return validDecimalText(strings.TrimSpace(value))
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return "", ErrInvalidDecimal
		}
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case float32:
		return decimalText(float64(value))
	case int:
		return strconv.Itoa(value), nil
	case int32:
		return strconv.FormatInt(int64(value), 10), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case bson.Decimal128:
		return validDecimalText(value.String())
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidDecimal, v)
	}
}

func validDecimalText(text string) (string, error) {
	if text == "" {
		return "", ErrInvalidDecimal
	}
	if _, ok := new(big.Rat).SetString(text); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDecimal, text)
	}
	return text, nil
}

// ParseObjectID parses a 24 character hex identifier.
func ParseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", ErrInvalidObjectID, id)
	}
	return oid, nil
}

// ParseTime accepts RFC 3339 strings (with or without fractional seconds) and
// existing time values. The result is always UTC.
func ParseTime(v any) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value.UTC(), nil
	case bson.DateTime:
		return value.Time().UTC(), nil
	case string:
		trimmed := strings.TrimSpace(value)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTime, v)
	}
}
