// Package model defines the list records served by the article feed and
// the book market.
package model

import (
	"github.com/goliatone/go-pagecache/cache"
	"github.com/goliatone/go-pagecache/counter"
)

var (
	_ cache.Item   = Article{}
	_ counter.Item = Article{}
	_ cache.Item   = Book{}
	_ cache.Item   = Seller{}
)

// Article is a feed entry.
type Article struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Category  string `json:"category,omitempty"`
	AuthorID  string `json:"author_id,omitempty"`
	LikeCount int    `json:"like_count"`
	StarCount int    `json:"star_count"`
}

func (a Article) ItemID() string { return a.ArticleID }

func (a Article) ItemCounters() counter.Counters {
	return counter.Counters{Likes: a.LikeCount, Stars: a.StarCount}
}

// Book is a market listing.
type Book struct {
	BookID      string   `json:"book_id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Price       float64  `json:"price"`
	CoverImage  string   `json:"cover_image,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SellerID    string   `json:"seller_id,omitempty"`
}

func (b Book) ItemID() string { return b.BookID }

// Seller is the profile shown next to a book listing.
type Seller struct {
	SellerID string `json:"seller_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func (s Seller) ItemID() string { return s.SellerID }
