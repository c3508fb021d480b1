package handlers

import (
	"errors"
	"strconv"
)

const defaultPageLimit = 20

var errInvalidPagination = errors.New("invalid pagination params")

func parsePaginationParams(pageStr, limitStr string) (int, int, error) {
	page := 1
	limit := defaultPageLimit

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > 100 {
			return 0, 0, errInvalidPagination
		}
		limit = l
	}

	return page, limit, nil
}

// paginate returns the slice for page and the list of page numbers, which
// is empty when everything fits on one page.
func paginate[E any](items []E, page, limit int) ([]E, []int) {
	total := (len(items) + limit - 1) / limit
	start := (page - 1) * limit
	if start >= len(items) {
		start = len(items)
	}
	end := min(start+limit, len(items))

	var pages []int
	if total > 1 {
		pages = make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
	}
	return items[start:end], pages
}
