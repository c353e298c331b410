package report

// Column maps a view column to its spreadsheet header.
type Column struct {
	Key   string
	Label string
}

// FixedColumns are always present, in this order, ahead of any dynamically
// discovered field columns.
var FixedColumns = []Column{
	{"received_at_et", "Received (ET)"},
	{"sender_email", "Sender"},
	{"clean_subject", "Subject"},
	{"subject", "Raw Subject"},
	{"package_type", "Package Type"},
	{"site_id", "Site ID"},
	{"site_name", "Site Name"},
	{"gc_name", "GC Name"},
	{"landlord", "Landlord"},
	{"project", "Project"},
	{"project_id", "Project ID"},
	{"market", "Market"},
	{"structure_type", "Structure Type"},
	{"cm_company", "CM Company"},
	{"cm_name", "CM Name"},
	{"project_manager", "Project Manager"},
	{"equipment_engineer", "Equipment Engineer"},
	{"construction_engineer", "Construction Engineer"},
	{"raw_files_received", "Raw Files Received"},
	{"cx_start", "CX Start"},
	{"cx_complete", "CX Complete"},
	{"cx_duration", "CX Duration"},
	{"live_review_complete", "Live Review Complete"},
	{"live_review_duration", "Live Review Duration"},
	{"revision_files_received", "Revision Files Received"},
	{"revision_complete", "Revision Complete"},
	{"cop_complete", "COP Complete"},
	{"cop_status", "COP Status"},
	{"cop_duration", "COP Duration"},
	{"cop_raw_file_duration", "COP Raw File Duration"},
	{"cutover_complete", "Cutover Complete"},
	{"hr48_raw_file_duration", "48Hr Raw File Duration"},
	{"hr48_package_duration", "48Hr Package Duration"},
	{"hr48_raw_files_received", "48Hr Raw Files Received"},
	{"hr48_package_complete", "48Hr Package Complete"},
	{"pmi_cop_complete", "PMI COP Complete"},
	{"smart_tool_project_num", "Smart Tool Project #"},
	{"mdg_location_id", "MDG Location ID"},
	{"landlord_site_name", "Landlord Site Name"},
	{"ll_cop_complete", "LL COP Complete"},
	{"open_items", "Open Items"},
	{"dropbox_url", "Dropbox URL"},
	{"swift_url", "Swift URL"},
}

// dateColumns are fixed columns whose string values should be coerced to
// real dates so the sheet sorts and filters correctly.
var dateColumns = map[string]struct{}{
	"raw_files_received":      {},
	"cx_start":                {},
	"cx_complete":             {},
	"live_review_complete":    {},
	"revision_files_received": {},
	"revision_complete":       {},
	"cop_complete":            {},
	"cutover_complete":        {},
	"hr48_raw_files_received": {},
	"hr48_package_complete":   {},
	"pmi_cop_complete":        {},
	"ll_cop_complete":         {},
}

// knownFieldKeys are extracted-field labels already normalized into the
// fixed columns by the warehouse view. Any other label becomes a dynamic
// column.
var knownFieldKeys = map[string]struct{}{
	"SITE ID": {}, "Site ID": {}, "Landlord Site ID": {},
	"SITE NAME": {}, "Site Name": {}, "Carrier Site Name": {},
	"GC NAME": {}, "GC Name": {},
	"LANDLORD": {}, "Landlord": {},
	"PROJECT": {}, "Project Type": {}, "Carrier Project Type": {},
	"PROJECT ID": {}, "Project ID": {}, "Carrier Project ID": {},
	"MARKET": {}, "Market-County": {}, "County": {},
	"STRUCTURE TYPE": {}, "Structure Type": {},
	"CM Company": {}, "CM Name": {},
	"Project Manager": {}, "Equipment Engineer": {},
	"Construction Engineer": {}, "A&E Company": {},
	"RAW FILES RECEIVED": {}, "COP Raw Files Received": {},
	"CX START": {}, "CX Start": {},
	"CX COMPLETE": {}, "CX Complete": {},
	"CX Duration":          {},
	"LIVE REVIEW COMPLETE": {}, "Live Review Complete": {},
	"Live Review Duration":    {},
	"REVISION FILES RECEIVED": {}, "REVISION COMPLETE": {},
	"Revision Files Received": {}, "Revision Complete": {},
	"COP COMPLETE": {}, "COP Complete": {},
	"COP Status": {}, "COP Duration": {}, "COP Raw File Duration": {},
	"Cutover Complete":       {},
	"48Hr Raw File Duration": {}, "48Hr Package Duration": {},
	"48Hr Raw Files Received": {}, "48Hr Package Complete": {},
	"PMI COP Complete":     {},
	"Smart Tool Project #": {}, "MDG Location ID": {},
	"Landlord Site Name": {},
	"LL COP Complete":    {}, "LL COP COMPLETE": {},
	"Open Items": {},
}
