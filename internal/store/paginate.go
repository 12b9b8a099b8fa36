package store

import (
	"context"
	"fmt"

	"ecolabs/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// fetchPage runs the count and select halves of a listing. Both
// builders must carry the same filters so the total always matches the
// items. With params.All set the whole filtered result is returned as a
// single page, which is what the CSV export path wants.
func fetchPage[T any](ctx context.Context, db Querier, sel, count sq.SelectBuilder, params ListParams) (*types.Page[T], error) {

	params = params.normalized()

	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate count query: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, db, &total, countQuery, countArgs...); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	limit := params.Limit
	if params.All {
		params.Page = 1
		limit = int(total)
		if limit < 1 {
			limit = 1
		}
	} else {
		sel = sel.
			Limit(uint64(limit)).
			Offset(uint64((params.Page - 1) * limit))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate listing query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, db, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch listing rows: %w", err)
	}

	return types.NewPage(items, total, params.Page, limit), nil
}
