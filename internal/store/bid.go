package store

import (
	"context"
	"fmt"
	"time"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const bidTableName = "ecolabs.bids"

var bidColumns = utils.StructTagValues(types.Bid{})

var bidSortFields = map[string]string{
	"status":    "b.status",
	"createdAt": "b.created_at",
	"updatedAt": "b.updated_at",
}

type BidRepository struct {
	db Querier
}

func NewBidRepository(db Querier) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) withDB(db Querier) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Bid(ctx context.Context, bidID string) (*types.Bid, error) {
	query, args, err := psql().
		Select(bidColumns...).
		From(bidTableName).
		Where(sq.Eq{"id": bidID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bid query: %w", err)
	}

	var bid types.Bid
	err = pgxscan.Get(ctx, r.db, &bid, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to fetch bid: %w", err)
	}

	return &bid, nil
}

func (r *BidRepository) BidByPropertyAndResearcher(ctx context.Context, propertyID, researcherID string) (*types.Bid, error) {
	query, args, err := psql().
		Select(bidColumns...).
		From(bidTableName).
		Where(sq.Eq{"property_id": propertyID, "researcher_id": researcherID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bid lookup query: %w", err)
	}

	var bid types.Bid
	err = pgxscan.Get(ctx, r.db, &bid, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to fetch bid by property and researcher: %w", err)
	}

	return &bid, nil
}

func (r *BidRepository) Create(ctx context.Context, bid *types.Bid) error {
	now := time.Now()
	bid.CreatedAt = now
	bid.UpdatedAt = now
	if bid.Files == nil {
		bid.Files = []types.FileMeta{}
	}

	query, args, err := psql().
		Insert(bidTableName).
		SetMap(utils.StructToMap(bid)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create bid query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "this researcher has already placed a bid on this property", "failed to create bid")
	}

	return nil
}

func (r *BidRepository) Update(ctx context.Context, bidID string, bid *types.Bid) error {
	bid.ID = bidID
	bid.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(bidTableName).
		SetMap(utils.StructToMap(bid)).
		Where(sq.Eq{"id": bidID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update bid query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update bid: %w", err)
	}

	return nil
}

func (r *BidRepository) UpdateStatus(ctx context.Context, bidID string, status types.BidStatus) error {
	query, args, err := psql().
		Update(bidTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": bidID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update bid status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update bid status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrBidNotFound
	}

	return nil
}

func (r *BidRepository) Delete(ctx context.Context, bidID string) error {
	query, args, err := psql().
		Delete(bidTableName).
		Where(sq.Eq{"id": bidID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete bid query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrBidNotFound
	}

	return nil
}

// FilesByProperty collects every file attached to the property's bids,
// for storage cleanup after a cascade delete commits.
func (r *BidRepository) FilesByProperty(ctx context.Context, propertyID string) ([]types.FileMeta, error) {
	return r.filesWhere(ctx, sq.Eq{"property_id": propertyID})
}

// FilesByResearcher collects the files on a researcher's bids.
func (r *BidRepository) FilesByResearcher(ctx context.Context, researcherID string) ([]types.FileMeta, error) {
	return r.filesWhere(ctx, sq.Eq{"researcher_id": researcherID})
}

func (r *BidRepository) filesWhere(ctx context.Context, pred sq.Eq) ([]types.FileMeta, error) {
	query, args, err := psql().
		Select("files").
		From(bidTableName).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bid files query: %w", err)
	}

	var fileLists [][]types.FileMeta
	err = pgxscan.Select(ctx, r.db, &fileLists, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bid files: %w", err)
	}

	var files []types.FileMeta
	for _, list := range fileLists {
		files = append(files, list...)
	}

	return files, nil
}

func (r *BidRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	query, args, err := psql().
		Delete(bidTableName).
		Where(sq.Eq{"property_id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete bids by property query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete bids by property: %w", err)
	}

	return nil
}

func (r *BidRepository) DeleteByResearcher(ctx context.Context, researcherID string) error {
	query, args, err := psql().
		Delete(bidTableName).
		Where(sq.Eq{"researcher_id": researcherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete bids by researcher query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete bids by researcher: %w", err)
	}

	return nil
}

// Bids lists bids with the property (including its landowner, assigned
// researchers and baseline documents) and the bidding researcher
// embedded. Researchers see their own bids; landowners see bids on
// their properties.
func (r *BidRepository) Bids(ctx context.Context, caller types.Caller, params ListParams) (*types.Page[types.BidRow], error) {

	isAdmin := caller.IsAdmin()

	filters := sq.And{}
	switch caller.Role {
	case types.RoleResearcher:
		filters = append(filters, sq.Eq{"b.researcher_id": caller.ID})
	case types.RoleLandowner:
		filters = append(filters, sq.Expr("b.property_id IN (SELECT lp.id FROM ecolabs.properties lp WHERE lp.landowner_id = ?)", caller.ID))
	}
	if params.Status != "" {
		filters = append(filters, sq.Eq{"b.status": params.Status})
	}
	if params.Search != "" {
		filters = append(filters, sq.Expr("b.property_id IN (SELECT sp.id FROM ecolabs.properties sp WHERE sp.property_name ILIKE ?)", "%"+params.Search+"%"))
	}

	propertyObject := fmt.Sprintf(`(SELECT jsonb_build_object('id', bp.id, 'propertyName', bp.property_name, 'propertyLocation', bp.property_location, 'propertySize', bp.property_size, 'startDate', bp.start_date, 'landowner', (SELECT jsonb_build_object('id', lo.id, 'name', lo.name, 'email', lo.email, 'phone', lo.phone) FROM ecolabs.users lo WHERE lo.id = bp.landowner_id), 'assignedResearchers', COALESCE((SELECT jsonb_agg(jsonb_build_object('id', au.id, 'name', au.name, 'email', au.email, 'phone', au.phone, 'assignDate', pr.assign_date) ORDER BY pr.created_at ASC) FROM ecolabs.property_researchers pr JOIN ecolabs.users au ON au.id = pr.researcher_id WHERE pr.property_id = bp.id), '[]'::jsonb), %s, 'docs', %s) FROM ecolabs.properties bp WHERE bp.id = b.property_id%s) AS property`,
		noteJSONPairs(isAdmin, "bp"), propertyDocFiles(isAdmin, "bp.id"), archivedGate(isAdmin, "bp"))

	sel := psql().
		Select(
			"b.id", "b.description", "b.status", "b.files",
			propertyObject,
			userObject("b.researcher_id", "researcher"),
			"b.created_at", "b.updated_at",
		).
		From(bidTableName + " b").
		OrderBy(parseSort(params.Sort, bidSortFields, "b.created_at DESC"))

	count := psql().Select("COUNT(*)").From(bidTableName + " b")

	if len(filters) > 0 {
		sel = sel.Where(filters)
		count = count.Where(filters)
	}

	page, err := fetchPage[types.BidRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("bid listing: %w", err)
	}

	return page, nil
}
