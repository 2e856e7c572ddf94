package cache

import (
	"strings"
	"testing"
)

type tag string

func (t tag) String() string { return "tag:" + string(t) }

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{
			name:      "namespace only",
			namespace: "category",
			args:      []any{},
			want:      "category",
		},
		{
			name:      "category key",
			namespace: "category",
			args:      []any{"Romance"},
			want:      joinWithSeparator("category", "Romance"),
		},
		{
			name:      "search keyword with spaces",
			namespace: "search",
			args:      []any{"go generics"},
			want:      joinWithSeparator("search", "go generics"),
		},
		{
			name:      "multiple basic types",
			namespace: "seller",
			args:      []any{1, "hello", true, int64(7), uint64(8), 3.5},
			want:      joinWithSeparator("seller", "1", "hello", "true", "7", "8", "3.5"),
		},
		{
			name:      "string slice",
			namespace: "tags",
			args:      []any{[]string{"novel", "used"}},
			want:      joinWithSeparator("tags", "slice[2]:{novel,used}"),
		},
		{
			name:      "stringer",
			namespace: "books",
			args:      []any{tag("classic")},
			want:      joinWithSeparator("books", "tag:classic"),
		},
		{
			name:      "nil",
			namespace: "books",
			args:      []any{nil},
			want:      joinWithSeparator("books", "nil"),
		},
		{
			name:      "empty namespace",
			namespace: "",
			args:      []any{"a", "b"},
			want:      joinWithSeparator("a", "b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_LongSegmentsAreHashed(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	exact := strings.Repeat("a", MaxSegmentLength)
	if got := serializer.SerializeKey("search", exact); got != joinWithSeparator("search", exact) {
		t.Errorf("expected segment of %d bytes to be kept, got %v", MaxSegmentLength, got)
	}

	long := strings.Repeat("b", MaxSegmentLength+1)
	key1 := serializer.SerializeKey("search", long)
	key2 := serializer.SerializeKey("search", long)
	if key1 != key2 {
		t.Errorf("hashed keys should be stable: %v != %v", key1, key2)
	}

	prefix := joinWithSeparator("search", hashedSegmentPrefix)
	if !strings.HasPrefix(key1, prefix) {
		t.Errorf("expected hashed segment with prefix %q, got %v", prefix, key1)
	}
	if strings.Contains(key1, long) {
		t.Error("expected long segment not to appear verbatim")
	}

	other := serializer.SerializeKey("search", strings.Repeat("c", MaxSegmentLength+1))
	if other == key1 {
		t.Error("expected different keywords to hash differently")
	}
}

func TestNamespacePrefix(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	key := serializer.SerializeKey("category", "Romance")

	if !strings.HasPrefix(key, NamespacePrefix("category")) {
		t.Errorf("expected %q to start with %q", key, NamespacePrefix("category"))
	}
	if strings.HasPrefix(key, NamespacePrefix("cat")) {
		t.Error("expected namespace prefix not to match a shorter namespace")
	}
}

func BenchmarkDefaultKeySerializer(b *testing.B) {
	serializer := NewDefaultKeySerializer()
	keyword := strings.Repeat("keyword ", 12)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serializer.SerializeKey("search", keyword)
	}
}
