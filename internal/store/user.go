package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const userTableName = "ecolabs.users"

var userColumns = utils.StructTagValues(types.User{})

// A landowner counts as assigned once any of their properties carries a
// baseline document with at least one file.
const landownerAssignedExpr = `EXISTS(SELECT 1 FROM ecolabs.properties ap JOIN ecolabs.reports ar ON ar.property_id = ap.id AND ar.kind = 'landowner_document' WHERE ap.landowner_id = u.id AND jsonb_array_length(ar.files) > 0)`

var userSortFields = map[string]string{
	"name":      "u.name",
	"email":     "u.email",
	"createdAt": "u.created_at",
}

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withDB(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.db, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Expr("LOWER(email) = LOWER(?)", strings.TrimSpace(email))).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user-by-email query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.db, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "a user with this email already exists", "failed to create user")
	}

	return nil
}

func (r *UserRepository) Update(ctx context.Context, userID string, user *types.User) error {
	user.ID = userID
	user.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(userTableName).
		SetMap(utils.StructToMap(user)).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return conflictOr(err, "a user with this email already exists", "failed to update user")
	}

	return nil
}

func (r *UserRepository) updateFields(ctx context.Context, userID string, fields map[string]any) error {
	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(userTableName).
		SetMap(fields).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user fields query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) SetArchived(ctx context.Context, userID string, archived bool) error {
	return r.updateFields(ctx, userID, map[string]any{"is_archived": archived})
}

// ClearUniversity detaches every researcher referencing a university
// account, ahead of deleting it.
func (r *UserRepository) ClearUniversity(ctx context.Context, universityID string) error {
	query, args, err := psql().
		Update(userTableName).
		Set("university_id", nil).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"university_id": universityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate clear university query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to clear university references: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.updateFields(ctx, userID, fields)
}

func (r *UserRepository) UpdateNote(ctx context.Context, userID string, note *string, updatedBy string) error {
	return r.updateFields(ctx, userID, map[string]any{"note": note, "note_updated_by": updatedBy})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.updateFields(ctx, userID, map[string]any{"password": passwordHash})
}

func (r *UserRepository) SetResearcherStatus(ctx context.Context, userID string, status types.ResearcherStatus) error {
	return r.updateFields(ctx, userID, map[string]any{"status": status})
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	query, args, err := psql().
		Delete(userTableName).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete user query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}

// Landowners lists landowner accounts with their properties embedded.
func (r *UserRepository) Landowners(ctx context.Context, caller types.Caller, params ListParams) (*types.Page[types.LandownerRow], error) {

	isAdmin := caller.IsAdmin()
	noteCol, noteByCol := noteExpr(isAdmin, "u")

	filters := sq.And{sq.Eq{"u.role": types.RoleLandowner}}
	if params.Archived != nil {
		filters = append(filters, sq.Eq{"u.is_archived": *params.Archived})
	}
	if params.Assigned != nil {
		if *params.Assigned {
			filters = append(filters, sq.Expr(landownerAssignedExpr))
		} else {
			filters = append(filters, sq.Expr("NOT "+landownerAssignedExpr))
		}
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "u.name", "u.email"))
	}

	sel := psql().
		Select(
			"u.id", "u.name", "u.email", "u.phone", "u.is_archived",
			noteCol, noteByCol,
			landownerAssignedExpr+" AS assigned",
			landownerPropertiesArray(isAdmin, "u.id"),
			"u.created_at",
		).
		From(userTableName + " u").
		Where(filters).
		OrderBy(parseSort(params.Sort, userSortFields, "u.created_at DESC"))

	count := psql().Select("COUNT(*)").From(userTableName + " u").Where(filters)

	page, err := fetchPage[types.LandownerRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("landowner listing: %w", err)
	}

	return page, nil
}

// Landowner fetches one landowner in the listing shape.
func (r *UserRepository) Landowner(ctx context.Context, caller types.Caller, landownerID string) (*types.LandownerRow, error) {

	isAdmin := caller.IsAdmin()
	noteCol, noteByCol := noteExpr(isAdmin, "u")

	query, args, err := psql().
		Select(
			"u.id", "u.name", "u.email", "u.phone", "u.is_archived",
			noteCol, noteByCol,
			landownerAssignedExpr+" AS assigned",
			landownerPropertiesArray(isAdmin, "u.id"),
			"u.created_at",
		).
		From(userTableName + " u").
		Where(sq.Eq{"u.id": landownerID, "u.role": types.RoleLandowner}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate landowner query: %w", err)
	}

	var row types.LandownerRow
	err = pgxscan.Get(ctx, r.db, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch landowner: %w", err)
	}

	return &row, nil
}

// Researchers lists researcher accounts with their assignment count and
// per-status bid counts. The order is fixed: pending applications
// first, alphabetical by name within each group.
func (r *UserRepository) Researchers(ctx context.Context, caller types.Caller, params ListParams) (*types.Page[types.ResearcherRow], error) {

	filters := sq.And{sq.Eq{"u.role": types.RoleResearcher}}
	if params.Archived != nil {
		filters = append(filters, sq.Eq{"u.is_archived": *params.Archived})
	}
	if params.Status != "" {
		filters = append(filters, sq.Eq{"u.status": params.Status})
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "u.name", "u.email", "u.phone"))
	}

	sel := psql().
		Select(researcherColumns()...).
		From(userTableName + " u").
		Where(filters).
		OrderBy("CASE WHEN u.status = 'pending' THEN 0 ELSE 1 END ASC", "u.name ASC")

	count := psql().Select("COUNT(*)").From(userTableName + " u").Where(filters)

	page, err := fetchPage[types.ResearcherRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("researcher listing: %w", err)
	}

	return page, nil
}

func researcherColumns() []string {
	return []string{
		"u.id", "u.name", "u.email", "u.phone", "u.advisor",
		"u.university_name", "u.is_archived", "u.status",
		`(SELECT COUNT(*) FROM ecolabs.property_researchers pr WHERE pr.researcher_id = u.id) AS assigned`,
		bidStatusCount("u.id", "pending", "pending"),
		bidStatusCount("u.id", "inprogress", "inprogress"),
		bidStatusCount("u.id", "approved", "completed"),
		bidStatusCount("u.id", "rejected", "rejected"),
	}
}

// Researcher fetches a single researcher with their university embedded.
func (r *UserRepository) Researcher(ctx context.Context, caller types.Caller, researcherID string) (*types.ResearcherDetail, error) {

	columns := append(researcherColumns(), userObject("u.university_id", "university"))

	query, args, err := psql().
		Select(columns...).
		From(userTableName + " u").
		Where(sq.Eq{"u.id": researcherID, "u.role": types.RoleResearcher}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate researcher query: %w", err)
	}

	var detail types.ResearcherDetail
	err = pgxscan.Get(ctx, r.db, &detail, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch researcher: %w", err)
	}

	return &detail, nil
}

// Universities lists university accounts with their researchers embedded.
func (r *UserRepository) Universities(ctx context.Context, caller types.Caller, params ListParams) (*types.Page[types.UniversityRow], error) {

	filters := sq.And{sq.Eq{"u.role": types.RoleUniversity}}
	if params.Archived != nil {
		filters = append(filters, sq.Eq{"u.is_archived": *params.Archived})
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "u.name", "u.email", "u.contact_name"))
	}

	sel := psql().
		Select(
			"u.id", "u.name", "u.email", "u.phone", "u.contact_name", "u.is_archived",
			universityResearchersArray("u.id"),
			"u.created_at",
		).
		From(userTableName + " u").
		Where(filters).
		OrderBy(parseSort(params.Sort, userSortFields, "u.created_at DESC"))

	count := psql().Select("COUNT(*)").From(userTableName + " u").Where(filters)

	page, err := fetchPage[types.UniversityRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("university listing: %w", err)
	}

	return page, nil
}

// University fetches one university in the listing shape.
func (r *UserRepository) University(ctx context.Context, caller types.Caller, universityID string) (*types.UniversityRow, error) {

	query, args, err := psql().
		Select(
			"u.id", "u.name", "u.email", "u.phone", "u.contact_name", "u.is_archived",
			universityResearchersArray("u.id"),
			"u.created_at",
		).
		From(userTableName + " u").
		Where(sq.Eq{"u.id": universityID, "u.role": types.RoleUniversity}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate university query: %w", err)
	}

	var row types.UniversityRow
	err = pgxscan.Get(ctx, r.db, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch university: %w", err)
	}

	return &row, nil
}

// UniversityResearchers pages through the researchers attached to one
// university, in the researcher listing shape.
func (r *UserRepository) UniversityResearchers(ctx context.Context, caller types.Caller, universityID string, params ListParams) (*types.Page[types.ResearcherRow], error) {

	filters := sq.And{
		sq.Eq{"u.role": types.RoleResearcher},
		sq.Eq{"u.university_id": universityID},
	}
	if params.Archived != nil {
		filters = append(filters, sq.Eq{"u.is_archived": *params.Archived})
	}
	if params.Status != "" {
		filters = append(filters, sq.Eq{"u.status": params.Status})
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "u.name", "u.email", "u.phone"))
	}

	sel := psql().
		Select(researcherColumns()...).
		From(userTableName + " u").
		Where(filters).
		OrderBy(parseSort(params.Sort, userSortFields, "u.created_at DESC"))

	count := psql().Select("COUNT(*)").From(userTableName + " u").Where(filters)

	page, err := fetchPage[types.ResearcherRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("university researcher listing: %w", err)
	}

	return page, nil
}

// UsersByRole is the flat admin listing behind user management and the
// CSV export path.
func (r *UserRepository) UsersByRole(ctx context.Context, caller types.Caller, role types.Role, params ListParams) (*types.Page[types.UserRow], error) {

	noteCol, noteByCol := noteExpr(caller.IsAdmin(), "u")

	filters := sq.And{sq.Eq{"u.role": role}}
	if params.Archived != nil {
		filters = append(filters, sq.Eq{"u.is_archived": *params.Archived})
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "u.name", "u.email"))
	}

	sel := psql().
		Select("u.id", "u.name", "u.email", "u.phone", noteCol, noteByCol, "u.created_at").
		From(userTableName + " u").
		Where(filters).
		OrderBy(parseSort(params.Sort, userSortFields, "u.created_at DESC"))

	count := psql().Select("COUNT(*)").From(userTableName + " u").Where(filters)

	page, err := fetchPage[types.UserRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("user listing: %w", err)
	}

	return page, nil
}
