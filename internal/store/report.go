package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const reportTableName = "ecolabs.reports"

var reportColumns = utils.StructTagValues(types.Report{})

type ReportRepository struct {
	db Querier
}

func NewReportRepository(db Querier) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) withDB(db Querier) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Report(ctx context.Context, reportID string) (*types.Report, error) {
	query, args, err := psql().
		Select(reportColumns...).
		From(reportTableName).
		Where(sq.Eq{"id": reportID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report query: %w", err)
	}

	var report types.Report
	err = pgxscan.Get(ctx, r.db, &report, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	return &report, nil
}

// LandownerDoc fetches the property's baseline document report, the one
// created when the landowner was added.
func (r *ReportRepository) LandownerDoc(ctx context.Context, propertyID string) (*types.Report, error) {
	query, args, err := psql().
		Select(reportColumns...).
		From(reportTableName).
		Where(sq.Eq{"property_id": propertyID, "kind": types.ReportKindLandownerDocument}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate landowner doc query: %w", err)
	}

	var report types.Report
	err = pgxscan.Get(ctx, r.db, &report, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch landowner doc: %w", err)
	}

	return &report, nil
}

func (r *ReportRepository) Create(ctx context.Context, report *types.Report) error {
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now
	if report.Files == nil {
		report.Files = []types.FileMeta{}
	}

	query, args, err := psql().
		Insert(reportTableName).
		SetMap(utils.StructToMap(report)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create report query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *ReportRepository) Update(ctx context.Context, reportID string, report *types.Report) error {
	report.ID = reportID
	report.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(reportTableName).
		SetMap(utils.StructToMap(report)).
		Where(sq.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update report query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	return nil
}

// AppendFiles concatenates new file metadata onto the report's file
// list without rewriting the rest of the row.
func (r *ReportRepository) AppendFiles(ctx context.Context, reportID string, files []types.FileMeta) error {
	if len(files) == 0 {
		return nil
	}

	encoded, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("failed to encode report files: %w", err)
	}

	query, args, err := psql().
		Update(reportTableName).
		Set("files", sq.Expr("files || ?::jsonb", string(encoded))).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate append report files query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to append report files: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrReportNotFound
	}

	return nil
}

// ReplaceFiles overwrites the report's file list, used when a single
// file is removed from a property's documents.
func (r *ReportRepository) ReplaceFiles(ctx context.Context, reportID string, files []types.FileMeta) error {
	if files == nil {
		files = []types.FileMeta{}
	}

	query, args, err := psql().
		Update(reportTableName).
		Set("files", files).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate replace report files query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to replace report files: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrReportNotFound
	}

	return nil
}

func (r *ReportRepository) SetArchived(ctx context.Context, reportID string, archived bool) error {
	query, args, err := psql().
		Update(reportTableName).
		Set("archived", archived).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate archive report query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrReportNotFound
	}

	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, reportID string) error {
	query, args, err := psql().
		Delete(reportTableName).
		Where(sq.Eq{"id": reportID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete report query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrReportNotFound
	}

	return nil
}

func (r *ReportRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	query, args, err := psql().
		Delete(reportTableName).
		Where(sq.Eq{"property_id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete reports by property query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete reports by property: %w", err)
	}

	return nil
}

func (r *ReportRepository) DeleteByResearcher(ctx context.Context, researcherID string) error {
	query, args, err := psql().
		Delete(reportTableName).
		Where(sq.Eq{"researcher_id": researcherID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete reports by researcher query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete reports by researcher: %w", err)
	}

	return nil
}

// FilesByProperty collects every file referenced by the property's
// reports, so the caller can clean up storage after a cascade delete
// commits.
func (r *ReportRepository) FilesByProperty(ctx context.Context, propertyID string) ([]types.FileMeta, error) {
	return r.filesWhere(ctx, sq.Eq{"property_id": propertyID})
}

// FilesByResearcher collects the files on a researcher's deliverables.
func (r *ReportRepository) FilesByResearcher(ctx context.Context, researcherID string) ([]types.FileMeta, error) {
	return r.filesWhere(ctx, sq.Eq{"researcher_id": researcherID})
}

func (r *ReportRepository) filesWhere(ctx context.Context, pred sq.Eq) ([]types.FileMeta, error) {

	query, args, err := psql().
		Select("files").
		From(reportTableName).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report files query: %w", err)
	}

	var fileLists [][]types.FileMeta
	err = pgxscan.Select(ctx, r.db, &fileLists, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report files: %w", err)
	}

	var files []types.FileMeta
	for _, list := range fileLists {
		files = append(files, list...)
	}

	return files, nil
}

// ResearcherReports lists the properties a researcher is assigned to,
// each carrying that researcher's deliverable reports.
func (r *ReportRepository) ResearcherReports(ctx context.Context, caller types.Caller, researcherID string, params ListParams) (*types.Page[types.ResearcherReportsRow], error) {

	isAdmin := caller.IsAdmin()
	noteCol, noteByCol := noteExpr(isAdmin, "p")

	reportsArray := fmt.Sprintf(`COALESCE((SELECT jsonb_agg(jsonb_build_object('id', rr.id, 'files', rr.files, 'name', rr.name, 'description', rr.description, 'archived', rr.archived, 'createdAt', rr.created_at, 'updatedAt', rr.updated_at) ORDER BY rr.created_at DESC) FROM ecolabs.reports rr WHERE rr.property_id = p.id AND rr.kind = 'researcher_deliverable' AND rr.researcher_id = pr.researcher_id%s), '[]'::jsonb)`, archivedGate(isAdmin, "rr"))

	researcherObject := fmt.Sprintf(`(SELECT jsonb_build_object('id', ru.id, 'name', ru.name, 'email', ru.email, 'phone', ru.phone, 'reports', %s) FROM ecolabs.users ru WHERE ru.id = pr.researcher_id) AS assigned_researchers`, reportsArray)

	filters := sq.And{sq.Eq{"pr.researcher_id": researcherID}}
	if !isAdmin {
		filters = append(filters, sq.Eq{"p.archived": false})
	}
	if params.Search != "" {
		filters = append(filters, searchCondition(params.Search, "p.property_name", "p.property_location"))
	}

	sel := psql().
		Select(
			"p.id", "p.property_name", "p.property_location", "p.property_size",
			"p.start_date", "p.landowner_id",
			noteCol, noteByCol,
			researcherObject,
			"p.created_at", "p.updated_at",
		).
		From("ecolabs.property_researchers pr").
		Join("ecolabs.properties p ON p.id = pr.property_id").
		Where(filters).
		OrderBy(parseSort(params.Sort, propertySortFields, "p.created_at DESC"))

	count := psql().
		Select("COUNT(*)").
		From("ecolabs.property_researchers pr").
		Join("ecolabs.properties p ON p.id = pr.property_id").
		Where(filters)

	page, err := fetchPage[types.ResearcherReportsRow](ctx, r.db, sel, count, params)
	if err != nil {
		return nil, fmt.Errorf("researcher reports listing: %w", err)
	}

	return page, nil
}
