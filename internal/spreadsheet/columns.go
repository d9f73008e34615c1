// Package spreadsheet implements the student import/export workbook logic:
// header validation, per-row validation with aggregated errors, and styled
// export/template generation.
package spreadsheet

// ImportHeaders is the fixed set of columns an import workbook must carry.
// Matching is exact and case-sensitive per column, but order-insensitive.
// These names come from the registrar's legacy enrolment sheets and cannot
// be normalized without breaking files already in circulation.
var ImportHeaders = []string{
	"STUDENT NUMBER",
	"LAST NAME",
	"GIVEN NAME",
	"MIDDLE NAME",
	"COURSE",
	"COLLEGE",
	"CAMPUS",
	"YEAR LEVEL",
	"GENDER",
	"DATE OF BIRTH",
	"PLACE OF BIRTH",
	"COMPLETE ADDRESS",
	"BARANGAY",
	"TOWN/CITY",
	"Province",
	"Email",
	"MobileNo.",
	"FatherName",
	"Father_Occupation",
	"MotherName",
	"Mother_Occupation",
	"Student_Status",
	"Last sem of enrolment for inactive",
	"Section",
	"Approved to share the information",
}

// optionalColumns may be blank on any data row.
var optionalColumns = map[string]bool{
	"MIDDLE NAME":                        true,
	"COMPLETE ADDRESS":                   true,
	"Last sem of enrolment for inactive": true,
}

// columnEnums constrains enumerated columns to their accepted values.
var columnEnums = map[string][]string{
	"GENDER":                            {"Male", "Female"},
	"Student_Status":                    {"Regular", "Irregular"},
	"Approved to share the information": {"Yes", "No", "Pending"},
}

// ExportHeaders is the column order of generated workbooks. It maps onto the
// same fields as ImportHeaders but groups identity, demographic and guardian
// columns the way the registrar's printed reports do.
var ExportHeaders = []string{
	"STUDENT NUMBER",
	"LAST NAME",
	"GIVEN NAME",
	"MIDDLE NAME",
	"GENDER",
	"DATE OF BIRTH",
	"PLACE OF BIRTH",
	"COURSE",
	"COLLEGE",
	"CAMPUS",
	"YEAR LEVEL",
	"Section",
	"Student_Status",
	"Last sem of enrolment for inactive",
	"COMPLETE ADDRESS",
	"BARANGAY",
	"TOWN/CITY",
	"Province",
	"Email",
	"MobileNo.",
	"FatherName",
	"Father_Occupation",
	"MotherName",
	"Mother_Occupation",
	"Approved to share the information",
}
