// Package fetch holds the fetch collaborators that feed paginated lists.
//
// A collaborator is any Func: given a key (category or search keyword), a
// one-based page number and a page size, it returns the items of that page
// already unwrapped from whatever transport envelope carried them. The
// length of the returned slice is the only signal of page completeness.
package fetch

import (
	"context"
	"fmt"

	errors "github.com/goliatone/go-errors"
)

// Func loads one page of items for key.
type Func[T any] func(ctx context.Context, key string, page, size int) ([]T, error)

// ValidatePage rejects page and size values no collaborator can serve.
func ValidatePage(page, size int) error {
	if page < 1 {
		return errors.New(fmt.Sprintf("page must be >= 1, got %d", page), errors.CategoryBadInput).
			WithTextCode("INVALID_PAGE")
	}
	if size < 1 {
		return errors.New(fmt.Sprintf("size must be > 0, got %d", size), errors.CategoryBadInput).
			WithTextCode("INVALID_PAGE_SIZE")
	}
	return nil
}

// Window converts a one-based page and a size to a limit and offset.
func Window(page, size int) (limit, offset int) {
	return size, (page - 1) * size
}
