// Package importer loads leads from CSV and XLSX files. Header names are
// matched to lead fields case-, space- and punctuation-insensitively; bad
// rows are reported, not fatal.
package importer

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/model"
)

// columnAliases maps normalized header names onto lead fields. Normalization
// lowercases and strips spaces, underscores, dashes and dots, so "Company
// Website", "company_website" and "company-website" all land on one key.
var columnAliases = map[string]string{
	"company":         "company",
	"companyname":     "company",
	"name":            "company",
	"organization":    "company",
	"website":         "company_website",
	"companywebsite":  "company_website",
	"url":             "company_website",
	"domain":          "company_website",
	"category":        "category",
	"industry":        "industry",
	"employees":       "company_size_employees",
	"companysize":     "company_size_employees",
	"size":            "company_size_employees",
	"revenue":         "company_size_revenue",
	"contact":         "contact_name",
	"contactname":     "contact_name",
	"fullname":        "contact_name",
	"title":           "contact_role",
	"role":            "contact_role",
	"contactrole":     "contact_role",
	"contacttitle":    "contact_role",
	"email":           "contact_email",
	"contactemail":    "contact_email",
	"emailaddress":    "contact_email",
	"linkedin":        "contact_linkedin",
	"linkedinurl":     "contact_linkedin",
	"contactlinkedin": "contact_linkedin",
	"source":          "lead_source",
	"leadsource":      "lead_source",
	"notes":           "company_description",
	"description":     "company_description",
}

// Result summarizes one import run.
type Result struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// LeadWriter is the slice of the store the importer needs.
type LeadWriter interface {
	CreateLeads(ctx context.Context, leads []model.Lead) (int, error)
}

// Importer reads lead files into the store.
type Importer struct {
	store LeadWriter
}

func New(st LeadWriter) *Importer {
	return &Importer{store: st}
}

// ImportFile dispatches on file extension. Only .csv and .xlsx are accepted.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return im.importCSVFile(ctx, path)
	case ".xlsx":
		return im.ImportXLSX(ctx, path)
	default:
		return nil, eris.Errorf("importer: unsupported file type %q", filepath.Ext(path))
	}
}

// ImportCSV reads leads from CSV data. The first row must be a header.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read header")
	}
	cols := mapHeader(header)
	if _, ok := hasCompanyColumn(cols); !ok {
		return nil, eris.New("importer: no company column in header")
	}

	var rows [][]string
	line := 1
	res := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, eris.Wrapf(err, "row %d", line).Error())
			continue
		}
		rows = append(rows, record)
	}

	return im.insertRows(ctx, cols, rows, res)
}

func (im *Importer) importCSVFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open csv")
	}
	defer f.Close()
	return im.ImportCSV(ctx, f)
}

// ImportXLSX reads leads from the first sheet of an XLSX workbook.
func (im *Importer) ImportXLSX(ctx context.Context, path string) (*Result, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("importer: workbook has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("importer: sheet is empty")
	}

	cols := mapHeader(rowToStrings(sheet.Rows[0]))
	if _, ok := hasCompanyColumn(cols); !ok {
		return nil, eris.New("importer: no company column in header")
	}

	var rows [][]string
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowToStrings(row))
	}

	return im.insertRows(ctx, cols, rows, &Result{})
}

// insertRows builds leads from mapped rows and bulk-inserts the good ones.
func (im *Importer) insertRows(ctx context.Context, cols map[int]string, rows [][]string, res *Result) (*Result, error) {
	var leads []model.Lead
	for i, row := range rows {
		lead, err := rowToLead(cols, row)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, eris.Wrapf(err, "row %d", i+2).Error())
			continue
		}
		leads = append(leads, *lead)
	}

	if len(leads) > 0 {
		n, err := im.store.CreateLeads(ctx, leads)
		if err != nil {
			return nil, eris.Wrap(err, "importer: insert leads")
		}
		res.Imported = n
	}

	zap.L().Info("import complete",
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func rowToLead(cols map[int]string, row []string) (*model.Lead, error) {
	lead := model.Lead{Status: model.StatusNew}
	for idx, field := range cols {
		if idx >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[idx])
		if val == "" {
			continue
		}
		switch field {
		case "company":
			lead.Company = val
		case "company_website":
			lead.CompanyWebsite = val
		case "category":
			if model.ValidCategory(val) {
				lead.Category = val
			}
		case "industry":
			if model.ValidIndustry(val) {
				lead.Industry = val
			}
		case "company_size_employees":
			if model.ValidEmployeeBracket(val) {
				lead.SizeEmployees = val
			}
		case "company_size_revenue":
			if model.ValidRevenueBracket(val) {
				lead.SizeRevenue = val
			}
		case "contact_name":
			lead.ContactName = val
		case "contact_role":
			lead.ContactRole = val
		case "contact_email":
			lead.ContactEmail = val
		case "contact_linkedin":
			lead.ContactLinkedIn = val
		case "lead_source":
			lead.Source = model.LeadSource(val)
		case "company_description":
			lead.Description = val
		}
	}
	if lead.Company == "" {
		return nil, eris.New("missing company")
	}
	return &lead, nil
}

// mapHeader resolves each header cell to a lead field, skipping unknowns.
func mapHeader(header []string) map[int]string {
	cols := make(map[int]string, len(header))
	for i, h := range header {
		if field, ok := columnAliases[normalizeHeader(h)]; ok {
			cols[i] = field
		}
	}
	return cols
}

func hasCompanyColumn(cols map[int]string) (int, bool) {
	for i, f := range cols {
		if f == "company" {
			return i, true
		}
	}
	return 0, false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.', '/':
			return -1
		}
		return r
	}, h)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
