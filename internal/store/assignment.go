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

const assignmentTableName = "ecolabs.property_researchers"

var assignmentColumns = utils.StructTagValues(types.Assignment{})

type AssignmentRepository struct {
	db Querier
}

func NewAssignmentRepository(db Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) withDB(db Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Assignment(ctx context.Context, propertyID, researcherID string) (*types.Assignment, error) {
	query, args, err := psql().
		Select(assignmentColumns...).
		From(assignmentTableName).
		Where(sq.Eq{"property_id": propertyID, "researcher_id": researcherID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment query: %w", err)
	}

	var assignment types.Assignment
	err = pgxscan.Get(ctx, r.db, &assignment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch assignment: %w", err)
	}

	return &assignment, nil
}

// Assign links a researcher to a property. The composite primary key
// is the authoritative duplicate check; a second assignment of the same
// pair surfaces as a conflict.
func (r *AssignmentRepository) Assign(ctx context.Context, assignment *types.Assignment) error {
	assignment.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(assignmentTableName).
		SetMap(utils.StructToMap(assignment)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate assign query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "this researcher is already assigned to this property", "failed to assign researcher")
	}

	return nil
}

// AssignIfAbsent inserts the assignment unless the pair already exists.
// It reports whether a row was inserted, so callers that treat an
// existing assignment as fine can log and move on without aborting the
// surrounding transaction.
func (r *AssignmentRepository) AssignIfAbsent(ctx context.Context, assignment *types.Assignment) (bool, error) {
	assignment.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(assignmentTableName).
		SetMap(utils.StructToMap(assignment)).
		Suffix("ON CONFLICT (property_id, researcher_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate assign-if-absent query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to assign researcher: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *AssignmentRepository) Unassign(ctx context.Context, propertyID, researcherID string) error {
	query, args, err := psql().
		Delete(assignmentTableName).
		Where(sq.Eq{"property_id": propertyID, "researcher_id": researcherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate unassign query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to unassign researcher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrAssignmentNotFound
	}

	return nil
}

func (r *AssignmentRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	query, args, err := psql().
		Delete(assignmentTableName).
		Where(sq.Eq{"property_id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete assignments by property query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete assignments by property: %w", err)
	}

	return nil
}

func (r *AssignmentRepository) DeleteByResearcher(ctx context.Context, researcherID string) error {
	query, args, err := psql().
		Delete(assignmentTableName).
		Where(sq.Eq{"researcher_id": researcherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete assignments by researcher query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete assignments by researcher: %w", err)
	}

	return nil
}

// AssignedProperties lists a researcher's assignments with the property
// details embedded.
func (r *AssignmentRepository) AssignedProperties(ctx context.Context, caller types.Caller, researcherID string, params ListParams) (*types.Page[types.AssignedPropertyRow], error) {

	isAdmin := caller.IsAdmin()

	filters := sq.And{sq.Eq{"pr.researcher_id": researcherID}}
	if !isAdmin {
		filters = append(filters, sq.Expr("EXISTS (SELECT 1 FROM ecolabs.properties gp WHERE gp.id = pr.property_id AND gp.archived = false)"))
	}
	if params.Search != "" {
		filters = append(filters, sq.Expr("pr.property_id IN (SELECT sp.id FROM ecolabs.properties sp WHERE sp.property_name ILIKE ? OR sp.property_location ILIKE ?)", "%"+params.Search+"%", "%"+params.Search+"%"))
	}

	sel := psql().
		Select(
			"pr.property_id",
			propertyDetailsObject(isAdmin, "pr.property_id", "property"),
			"pr.researcher_id", "pr.assign_date", "pr.created_at",
		).
		From(assignmentTableName + " pr").
		Where(filters).
		OrderBy("pr.created_at DESC")

	count := psql().Select("COUNT(*)").From(assignmentTableName + " pr").Where(filters)

	page, err := fetchPage[types.AssignedPropertyRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("assigned property listing: %w", err)
	}

	return page, nil
}

// ResearchersToProperty lists the researchers assigned to one property,
// each merged with their assignment date and the property details.
func (r *AssignmentRepository) ResearchersToProperty(ctx context.Context, caller types.Caller, propertyID string, params ListParams) (*types.Page[types.ResearcherToPropertyRow], error) {

	isAdmin := caller.IsAdmin()

	filters := sq.And{sq.Eq{"pr.property_id": propertyID}}
	if !isAdmin {
		filters = append(filters, sq.Expr("EXISTS (SELECT 1 FROM ecolabs.properties gp WHERE gp.id = pr.property_id AND gp.archived = false)"))
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "u.name", "u.email"))
	}

	sel := psql().
		Select(
			"u.id", "u.name", "u.email", "u.phone", "u.status", "u.advisor",
			"u.university_name", "u.is_archived",
			"pr.assign_date",
			propertyDetailsObject(isAdmin, "pr.property_id", "property_details"),
		).
		From(assignmentTableName + " pr").
		Join(userTableName + " u ON u.id = pr.researcher_id").
		Where(filters).
		OrderBy("pr.created_at ASC")

	count := psql().
		Select("COUNT(*)").
		From(assignmentTableName + " pr").
		Join(userTableName + " u ON u.id = pr.researcher_id").
		Where(filters)

	page, err := fetchPage[types.ResearcherToPropertyRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("researchers-to-property listing: %w", err)
	}

	return page, nil
}
