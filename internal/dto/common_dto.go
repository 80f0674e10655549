package dto

// PaginationQuery binds the page/per_page query parameters.
type PaginationQuery struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// Normalize applies the default paging window.
func (q *PaginationQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
}

func NewPaginationMeta(page, perPage int, total int64) PaginationMeta {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return PaginationMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		Pages:       pages,
	}
}
