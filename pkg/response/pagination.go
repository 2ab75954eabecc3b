package response

import "github.com/guregu/null/v6"

type PaginationResponse[T any] struct {
	Data     []T      `json:"data"`
	PageMeta PageMeta `json:"pagination"`
}

type PageMeta struct {
	Limit    int32      `json:"limit"`
	Total    null.Int64 `json:"total"`
	Page     null.Int32 `json:"page"`
	NextPage null.Int32 `json:"next_page"`
}

// NewPageMeta describes the page just served. NextPage is set only when the
// page came back full, so a short page ends the walk.
func NewPageMeta(page, limit int32, count int) PageMeta {
	meta := PageMeta{
		Limit: limit,
		Page:  null.Int32From(page),
	}
	if int32(count) == limit {
		meta.NextPage = null.Int32From(page + 1)
	}
	return meta
}
