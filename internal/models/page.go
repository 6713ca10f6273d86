package models

// Page describes one slice of a listing; Current is 1-based.
type Page struct {
	Current  int
	PageSize int
}

func (p Page) Offset() int {
	if p.Current < 1 {
		return 0
	}
	return (p.Current - 1) * p.PageSize
}

type PageMeta struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
}

func NewPageMeta(p Page, total int) PageMeta {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return PageMeta{Current: p.Current, PageSize: p.PageSize, Pages: pages, Total: total}
}
