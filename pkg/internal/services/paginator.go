package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Paginator splits a counted result set into fixed size pages.
type Paginator struct {
	Count    int64
	PerPage  int
	NumPages int
}

func NewPaginator(count int64, perPage int) Paginator {
	if perPage <= 0 {
		perPage = 10
	}
	pages := int(math.Ceil(float64(count) / float64(perPage)))
	if pages < 1 {
		pages = 1
	}
	return Paginator{Count: count, PerPage: perPage, NumPages: pages}
}

func NewPostPaginator(count int64) Paginator {
	return NewPaginator(count, viper.GetInt("posts.page_size"))
}

// GetPageNumber is lenient with what it is given: a missing or malformed number
// selects the first page, anything outside the range selects the last one.
func (v Paginator) GetPageNumber(raw string) int {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if number < 1 || number > v.NumPages {
		return v.NumPages
	}
	return number
}

func (v Paginator) Offset(number int) int {
	return (number - 1) * v.PerPage
}

func (v Paginator) PageRange() []int {
	out := make([]int, v.NumPages)
	for idx := range out {
		out[idx] = idx + 1
	}
	return out
}

type Page[T any] struct {
	Items     []T
	Number    int
	Paginator Paginator
}

func (v Page[T]) HasNext() bool {
	return v.Number < v.Paginator.NumPages
}

func (v Page[T]) HasPrevious() bool {
	return v.Number > 1
}

func (v Page[T]) HasOtherPages() bool {
	return v.HasNext() || v.HasPrevious()
}

func (v Page[T]) NextPageNumber() int {
	return v.Number + 1
}

func (v Page[T]) PreviousPageNumber() int {
	return v.Number - 1
}

