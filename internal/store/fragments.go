package store

import "fmt"

// Correlated jsonb subqueries shared by the listing queries. Each one
// builds a nested object or array keyed the way the response models
// expect, so rows scan straight into the view structs through pgx's
// json codec. Admin-only note fields are projected as NULL for anyone
// else; the keys then drop out of the serialized response entirely.
// Fragments that touch an archivable table take the caller's admin
// flag and hide archived rows from everyone else, at every nesting
// level.

// archivedGate yields the predicate that hides archived rows from
// non-admin callers.
func archivedGate(isAdmin bool, tableAlias string) string {
	if isAdmin {
		return ""
	}
	return fmt.Sprintf(" AND %s.archived = false", tableAlias)
}

// noteExpr yields the note expression for a select column list.
func noteExpr(isAdmin bool, tableAlias string) (string, string) {
	if isAdmin {
		return tableAlias + ".note", tableAlias + ".note_updated_by AS note_updated_by"
	}
	return "NULL::text AS note", "NULL::text AS note_updated_by"
}

// noteJSONPairs yields the note entries for a jsonb_build_object call.
func noteJSONPairs(isAdmin bool, tableAlias string) string {
	if isAdmin {
		return fmt.Sprintf("'note', %s.note, 'noteUpdatedBy', %s.note_updated_by", tableAlias, tableAlias)
	}
	return "'note', NULL, 'noteUpdatedBy', NULL"
}

// userObject embeds a referenced user as a summary object.
func userObject(idExpr, alias string) string {
	return fmt.Sprintf(`(SELECT jsonb_build_object('id', uo.id, 'name', uo.name, 'email', uo.email, 'phone', uo.phone) FROM ecolabs.users uo WHERE uo.id = %s) AS %s`, idExpr, alias)
}

// propertyDocObject embeds the property's baseline document report.
func propertyDocObject(isAdmin bool, propertyIDExpr string) string {
	return fmt.Sprintf(`(SELECT jsonb_build_object('id', rd.id, 'files', rd.files, 'name', rd.name, 'description', rd.description, 'createdAt', rd.created_at, 'updatedAt', rd.updated_at) FROM ecolabs.reports rd WHERE rd.property_id = %s AND rd.kind = 'landowner_document'%s ORDER BY rd.created_at ASC LIMIT 1) AS docs`, propertyIDExpr, archivedGate(isAdmin, "rd"))
}

// propertyDocFiles yields just the files of the baseline document, used
// where the embedded shape is a bare file list.
func propertyDocFiles(isAdmin bool, propertyIDExpr string) string {
	return fmt.Sprintf(`COALESCE((SELECT rd.files FROM ecolabs.reports rd WHERE rd.property_id = %s AND rd.kind = 'landowner_document'%s ORDER BY rd.created_at ASC LIMIT 1), '[]'::jsonb)`, propertyIDExpr, archivedGate(isAdmin, "rd"))
}

// propertyBidsArray embeds every bid on a property, newest first, each
// carrying its researcher summary.
func propertyBidsArray(propertyIDExpr string) string {
	return fmt.Sprintf(`COALESCE((SELECT jsonb_agg(jsonb_build_object('id', b.id, 'researcher', (SELECT jsonb_build_object('id', ru.id, 'name', ru.name, 'email', ru.email, 'phone', ru.phone) FROM ecolabs.users ru WHERE ru.id = b.researcher_id), 'status', b.status, 'description', b.description, 'files', b.files, 'createdAt', b.created_at, 'updatedAt', b.updated_at) ORDER BY b.created_at DESC) FROM ecolabs.bids b WHERE b.property_id = %s), '[]'::jsonb) AS bids`, propertyIDExpr)
}

// assignedResearchersArray embeds a property's assigned researchers
// with their assignment dates, oldest assignment first.
func assignedResearchersArray(propertyIDExpr string) string {
	return fmt.Sprintf(`COALESCE((SELECT jsonb_agg(jsonb_build_object('id', au.id, 'name', au.name, 'email', au.email, 'phone', au.phone, 'assignDate', pr.assign_date) ORDER BY pr.created_at ASC) FROM ecolabs.property_researchers pr JOIN ecolabs.users au ON au.id = pr.researcher_id WHERE pr.property_id = %s), '[]'::jsonb) AS assigned_researchers`, propertyIDExpr)
}

// landownerPropertiesArray embeds a landowner's properties, each with
// its baseline document files.
func landownerPropertiesArray(isAdmin bool, landownerIDExpr string) string {
	return fmt.Sprintf(`COALESCE((SELECT jsonb_agg(jsonb_build_object('id', p.id, 'propertyName', p.property_name, 'propertyLocation', p.property_location, 'propertySize', p.property_size, 'startDate', p.start_date, %s, 'docs', %s) ORDER BY p.created_at DESC) FROM ecolabs.properties p WHERE p.landowner_id = %s%s), '[]'::jsonb) AS properties`,
		noteJSONPairs(isAdmin, "p"), propertyDocFiles(isAdmin, "p.id"), landownerIDExpr, archivedGate(isAdmin, "p"))
}

// universityResearchersArray embeds a university's researchers.
func universityResearchersArray(universityIDExpr string) string {
	return fmt.Sprintf(`COALESCE((SELECT jsonb_agg(jsonb_build_object('id', ru.id, 'name', ru.name, 'email', ru.email, 'status', ru.status, 'createdAt', ru.created_at) ORDER BY ru.created_at DESC) FROM ecolabs.users ru WHERE ru.role = 'researcher' AND ru.university_id = %s), '[]'::jsonb) AS researchers`, universityIDExpr)
}

// propertyDetailsObject embeds a property with its landowner summary,
// used by the assignment listings.
func propertyDetailsObject(isAdmin bool, propertyIDExpr, alias string) string {
	return fmt.Sprintf(`(SELECT jsonb_build_object('id', pd.id, 'propertyName', pd.property_name, 'propertyLocation', pd.property_location, 'propertySize', pd.property_size, 'startDate', pd.start_date, %s, 'landowner', (SELECT jsonb_build_object('id', lo.id, 'name', lo.name, 'email', lo.email, 'phone', lo.phone) FROM ecolabs.users lo WHERE lo.id = pd.landowner_id)) FROM ecolabs.properties pd WHERE pd.id = %s%s) AS %s`,
		noteJSONPairs(isAdmin, "pd"), propertyIDExpr, archivedGate(isAdmin, "pd"), alias)
}

// bidStatusCount counts a researcher's bids carrying one status.
func bidStatusCount(researcherIDExpr, status, alias string) string {
	return fmt.Sprintf(`(SELECT COUNT(*) FROM ecolabs.bids b WHERE b.researcher_id = %s AND b.status = '%s') AS %s`, researcherIDExpr, status, alias)
}
