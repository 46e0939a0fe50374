package controller

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	pageQueryParam  = "page"
	limitQueryParam = "limit"
)

// Page is one page of a list response.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// Paginator implements page-number pagination with a client-chosen page size.
type Paginator struct {
	defaultSize int
	baseURL     string // empty: derived from the request
}

func NewPaginator(defaultSize int, publicBaseURL string) *Paginator {
	if defaultSize <= 0 {
		defaultSize = 6
	}
	return &Paginator{defaultSize: defaultSize, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// PageRequest is the requested window.
type PageRequest struct {
	Number int
	Size   int
}

func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Parse reads page and limit. A malformed page answers 404 and returns false.
func (p *Paginator) Parse(c *gin.Context) (PageRequest, bool) {
	req := PageRequest{Number: 1, Size: p.defaultSize}

	if raw := c.Query(limitQueryParam); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			req.Size = size
		}
	}
	if raw := c.Query(pageQueryParam); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil || number < 1 {
			invalidPage(c)
			return req, false
		}
		req.Number = number
	}
	return req, true
}

// Respond writes the page, or 404 when the page lies beyond the last one.
// The first page always exists, even for an empty result.
func (p *Paginator) Respond(c *gin.Context, req PageRequest, total int64, results interface{}) {
	if req.Number > 1 && int64(req.Offset()) >= total {
		invalidPage(c)
		return
	}

	page := Page{Count: total, Results: results}
	if int64(req.Number*req.Size) < total {
		next := p.link(c, req.Number+1)
		page.Next = &next
	}
	if req.Number > 1 {
		prev := p.link(c, req.Number-1)
		page.Previous = &prev
	}
	c.JSON(http.StatusOK, page)
}

// link rebuilds the request URL with another page number; page 1 drops the parameter.
func (p *Paginator) link(c *gin.Context, number int) string {
	query := c.Request.URL.Query()
	if number == 1 {
		query.Del(pageQueryParam)
	} else {
		query.Set(pageQueryParam, strconv.Itoa(number))
	}

	u := url.URL{Path: c.Request.URL.Path, RawQuery: query.Encode()}
	return p.origin(c) + u.String()
}

func (p *Paginator) origin(c *gin.Context) string {
	if p.baseURL != "" {
		return p.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func invalidPage(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
}
