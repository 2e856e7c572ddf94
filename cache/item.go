package cache

// Item is the only contract the cache layer needs from a list record: a
// stable identity. Every other field travels through untouched.
type Item interface {
	ItemID() string
}
