package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// KeySeparator defines the delimiter used between cache key segments.
	KeySeparator = "::"

	// MaxSegmentLength is the longest segment kept verbatim. Longer segments,
	// typically free text search keywords, are replaced by their hash.
	MaxSegmentLength = 64

	hashedSegmentPrefix = "h:"
)

// KeySerializer builds a cache key from a namespace and arbitrary parts.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, parts ...any) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey joins the namespace and the serialized parts with KeySeparator.
func (s *defaultKeySerializer) SerializeKey(namespace string, parts ...any) string {
	segments := make([]string, 0, len(parts)+1)
	if namespace != "" {
		segments = append(segments, namespace)
	}
	for _, part := range parts {
		segments = append(segments, s.segment(s.serializeValue(part)))
	}
	return strings.Join(segments, KeySeparator)
}

// NamespacePrefix returns the prefix shared by every key in namespace.
func NamespacePrefix(namespace string) string {
	return namespace + KeySeparator
}

func (s *defaultKeySerializer) segment(v string) string {
	if len(v) <= MaxSegmentLength {
		return v
	}
	return hashedSegmentPrefix + strconv.FormatUint(xxhash.Sum64String(v), 16)
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case []string:
		return "slice[" + strconv.Itoa(len(val)) + "]:{" + strings.Join(val, ",") + "}"
	case fmt.Stringer:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
