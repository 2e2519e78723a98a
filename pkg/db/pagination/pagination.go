// Package pagination provides offset pagination helpers shared by list
// endpoints and repositories.
package pagination

import "gorm.io/gorm"

const defaultPageSize = 50

type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type PageInfo struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// Normalize clamps page/page_size to usable values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
	return p
}

// Apply adds LIMIT/OFFSET to a gorm query.
func (p Pagination) Apply(query *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return query.Limit(n.PageSize).Offset((n.Page - 1) * n.PageSize)
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	n := p.Normalize()
	return PageInfo{Page: n.Page, PageSize: n.PageSize, Total: total}
}
