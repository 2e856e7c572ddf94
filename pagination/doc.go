// Package pagination drives paginated list views on top of a cache.ListCache.
//
// A Controller owns the state of one list view: the active key (a category
// or a search keyword), the page reached, whether more pages are expected
// and whether a fetch is in flight. Only the first page of each key is
// cached; LoadMore always goes to the fetch collaborator and only moves the
// cached cursor forward.
//
//	articles := cache.NewListCache[model.Article](cache.DefaultConfig())
//	ctrl := pagination.New(articles, pagination.Fetchers[model.Article]{
//		Category: categoryFetcher.Func(),
//		Search:   searchFetcher.Func(),
//	})
//
//	ctrl.SetKey("Romance", pagination.ModeCategory)
//	first, err := ctrl.LoadFirstPage(ctx, "Romance")
//	...
//	res, err := ctrl.LoadMore(ctx) // safe to call from every scroll event
//
// Responses that arrive after the view switched keys (SetKey, Reset or a
// newer LoadFirstPage) are discarded and never touch the live state.
package pagination
