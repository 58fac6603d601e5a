package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/gin-gonic/gin"
)

const (
	totalCountHeader = "X-Total-Count"
	linkHeader       = "Link"
)

// PaginationHeaders builds X-Total-Count and an RFC 5988 Link header for a page.
// Relations are emitted in the order first, prev, next, last; prev is left out on
// the first page and next on the last. rawQuery is the request's query string: every
// parameter except page and size is carried over unchanged.
func PaginationHeaders[T any](basePath, rawQuery string, page *domain.Page[T]) http.Header {
	h := http.Header{}
	h.Set(totalCountHeader, strconv.FormatInt(page.Total, 10))

	lastPage := page.TotalPages() - 1
	if lastPage < 0 {
		lastPage = 0
	}

	prefix := basePath + "?"
	if kept := keptParams(rawQuery); kept != "" {
		prefix += kept + "&"
	}
	link := func(n int, rel string) string {
		return fmt.Sprintf(`<%spage=%d&size=%d>; rel="%s"`, prefix, n, page.Size, rel)
	}

	links := []string{link(0, "first")}
	if page.Number > 0 {
		links = append(links, link(page.Number-1, "prev"))
	}
	if page.Number < lastPage {
		links = append(links, link(page.Number+1, "next"))
	}
	links = append(links, link(lastPage, "last"))

	h.Set(linkHeader, strings.Join(links, ", "))
	return h
}

func keptParams(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	kept := make([]string, 0)
	for _, param := range strings.Split(rawQuery, "&") {
		if param == "" {
			continue
		}
		key, _, _ := strings.Cut(param, "=")
		if key == "page" || key == "size" {
			continue
		}
		kept = append(kept, param)
	}
	return strings.Join(kept, "&")
}

func writePage[T any](c *gin.Context, basePath string, page *domain.Page[T]) {
	writeHeaders(c, PaginationHeaders(basePath, c.Request.URL.RawQuery, page))
	c.JSON(http.StatusOK, page.Items)
}
