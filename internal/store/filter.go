package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListParams is the shared shape of every listing request. Nil bools
// mean "no filter"; false is a real filter value, distinct from unset.
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Sort     string
	Archived *bool
	Assigned *bool
	Status   string
	All      bool
}

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	return p
}

// parseSort resolves a "field:direction" request parameter against an
// allow-list of sortable fields. Anything unrecognized falls back to
// the listing's default ordering rather than failing the request.
func parseSort(raw string, allowed map[string]string, fallback string) string {

	if raw == "" {
		return fallback
	}

	field, direction, _ := strings.Cut(raw, ":")

	column, ok := allowed[field]
	if !ok {
		return fallback
	}

	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}

	return fmt.Sprintf("%s %s", column, dir)
}

// searchCondition matches search text case-insensitively against any of
// the given columns.
func searchCondition(search string, columns ...string) sq.Sqlizer {
	pattern := "%" + search + "%"
	or := make(sq.Or, 0, len(columns))
	for _, column := range columns {
		or = append(or, sq.ILike{column: pattern})
	}
	return or
}
