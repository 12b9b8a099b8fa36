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

const propertyTableName = "ecolabs.properties"

var propertyColumns = utils.StructTagValues(types.Property{})

var propertySortFields = map[string]string{
	"propertyName":     "p.property_name",
	"propertyLocation": "p.property_location",
	"startDate":        "p.start_date",
	"createdAt":        "p.created_at",
}

type PropertyRepository struct {
	db Querier
}

func NewPropertyRepository(db Querier) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) withDB(db Querier) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Property(ctx context.Context, propertyID string) (*types.Property, error) {
	query, args, err := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		Where(sq.Eq{"id": propertyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate property query: %w", err)
	}

	var property types.Property
	err = pgxscan.Get(ctx, r.db, &property, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to fetch property: %w", err)
	}

	return &property, nil
}

// PropertyByNameAndLandowner supports the add-landowner upsert path.
// The unique constraint on (property_name, landowner_id) remains the
// authoritative duplicate check; this read only decides between the
// insert and update branches.
func (r *PropertyRepository) PropertyByNameAndLandowner(ctx context.Context, name, landownerID string) (*types.Property, error) {
	query, args, err := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		Where(sq.Eq{"property_name": name, "landowner_id": landownerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate property-by-name query: %w", err)
	}

	var property types.Property
	err = pgxscan.Get(ctx, r.db, &property, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to fetch property by name: %w", err)
	}

	return &property, nil
}

func (r *PropertyRepository) PropertyIDsByLandowner(ctx context.Context, landownerID string) ([]string, error) {
	query, args, err := psql().
		Select("id").
		From(propertyTableName).
		Where(sq.Eq{"landowner_id": landownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate property ids query: %w", err)
	}

	var ids []string
	err = pgxscan.Select(ctx, r.db, &ids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch property ids: %w", err)
	}

	return ids, nil
}

func (r *PropertyRepository) Create(ctx context.Context, property *types.Property) error {
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now

	query, args, err := psql().
		Insert(propertyTableName).
		SetMap(utils.StructToMap(property)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create property query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "this landowner already has a property with this name", "failed to create property")
	}

	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, propertyID string, property *types.Property) error {
	property.ID = propertyID
	property.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(propertyTableName).
		SetMap(utils.StructToMap(property)).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update property query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "this landowner already has a property with this name", "failed to update property")
	}

	return nil
}

func (r *PropertyRepository) updateFields(ctx context.Context, propertyID string, fields map[string]any) error {
	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(propertyTableName).
		SetMap(fields).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update property fields query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update property fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrPropertyNotFound
	}

	return nil
}

// Transfer hands the property to another landowner. The unique
// constraint on (property_name, landowner_id) still applies: the
// target cannot already own a property with the same name.
func (r *PropertyRepository) Transfer(ctx context.Context, propertyID, landownerID string) error {
	query, args, err := psql().
		Update(propertyTableName).
		Set("landowner_id", landownerID).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate transfer property query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "this landowner already has a property with this name", "failed to transfer property")
	}
	if tag.RowsAffected() == 0 {
		return types.ErrPropertyNotFound
	}

	return nil
}

func (r *PropertyRepository) SetArchived(ctx context.Context, propertyID string, archived bool) error {
	return r.updateFields(ctx, propertyID, map[string]any{"archived": archived})
}

func (r *PropertyRepository) UpdateNote(ctx context.Context, propertyID string, note *string, updatedBy string) error {
	return r.updateFields(ctx, propertyID, map[string]any{"note": note, "note_updated_by": updatedBy})
}

func (r *PropertyRepository) Delete(ctx context.Context, propertyID string) error {
	query, args, err := psql().
		Delete(propertyTableName).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete property query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrPropertyNotFound
	}

	return nil
}

// Properties lists properties with landowner, baseline document and
// bids embedded. Landowners only ever see their own; nobody but admins
// sees archived ones.
func (r *PropertyRepository) Properties(ctx context.Context, caller types.Caller, params ListParams) (*types.Page[types.PropertyRow], error) {

	isAdmin := caller.IsAdmin()
	noteCol, noteByCol := noteExpr(isAdmin, "p")

	filters := sq.And{}
	if caller.Role == types.RoleLandowner {
		filters = append(filters, sq.Eq{"p.landowner_id": caller.ID})
	}
	if !isAdmin {
		filters = append(filters, sq.Eq{"p.archived": false})
	} else if params.Archived != nil {
		filters = append(filters, sq.Eq{"p.archived": *params.Archived})
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "p.property_name", "p.property_location"))
	}

	sel := psql().
		Select(
			"p.id", "p.property_name", "p.property_location", "p.property_size",
			"p.start_date", "p.archived",
			userObject("p.landowner_id", "landowner"),
			noteCol, noteByCol,
			propertyDocObject(isAdmin, "p.id"),
			propertyBidsArray("p.id"),
			"p.created_at",
		).
		From(propertyTableName + " p").
		OrderBy(parseSort(params.Sort, propertySortFields, "p.created_at DESC"))

	count := psql().Select("COUNT(*)").From(propertyTableName + " p")

	if len(filters) > 0 {
		sel = sel.Where(filters)
		count = count.Where(filters)
	}

	page, err := fetchPage[types.PropertyRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("property listing: %w", err)
	}

	return page, nil
}

// PropertyView fetches one property in the listing shape.
func (r *PropertyRepository) PropertyView(ctx context.Context, caller types.Caller, propertyID string) (*types.PropertyRow, error) {

	isAdmin := caller.IsAdmin()
	noteCol, noteByCol := noteExpr(isAdmin, "p")

	query, args, err := psql().
		Select(
			"p.id", "p.property_name", "p.property_location", "p.property_size",
			"p.start_date", "p.archived",
			userObject("p.landowner_id", "landowner"),
			noteCol, noteByCol,
			propertyDocObject(isAdmin, "p.id"),
			propertyBidsArray("p.id"),
			"p.created_at",
		).
		From(propertyTableName + " p").
		Where(sq.Eq{"p.id": propertyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate property view query: %w", err)
	}

	var row types.PropertyRow
	err = pgxscan.Get(ctx, r.db, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to fetch property view: %w", err)
	}

	return &row, nil
}
