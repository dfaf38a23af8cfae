// Package resolve turns natural-key spreadsheet references into entities
// with explicit foreign keys, synthesizing contacts where the source
// data is inconsistent. Entities are created in a fixed order (the
// original build order) so id assignment is deterministic.
package resolve

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/basedata"
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/ident"
	"github.com/craftshop-erp/shopdata/pkg/report"
	"github.com/craftshop-erp/shopdata/pkg/sheet"
	"github.com/craftshop-erp/shopdata/pkg/types"
)

// Year used for sequence numbers when a row carries no usable date.
const fallbackYear = 2025

const unknownName = "(unknown)"

// Phone columns in the source regularly overflow the destination field.
const maxPhoneLen = 20

type Options struct {
	DefaultCountryCode   string
	JobNumberPrefix      string
	EstimateNumberPrefix string
	InvoiceNumberPrefix  string
	PONumberPrefix       string
	BillNumberPrefix     string
}

type contactKey struct {
	org  string
	name string
}

type taskKey struct {
	project string
	task    string
}

type Resolver struct {
	opts  Options
	arena *entity.Arena
	alloc *ident.Allocator
	base  *basedata.Base
	rep   *report.Report
	log   *logrus.Logger

	businessByOrg  map[string]*entity.Business   // exact organisation text
	businessByFold map[string][]*entity.Business // case-folded lookup
	defaultContact map[int]*entity.Contact       // business id -> default
	contactByKey   map[contactKey]*entity.Contact
	jobByProject   map[string]*entity.Job // folded project name
	workOrderByJob map[int]*entity.WorkOrder
	taskByKey      map[taskKey]*entity.Task
}

func New(opts Options, arena *entity.Arena, alloc *ident.Allocator, base *basedata.Base, rep *report.Report, log *logrus.Logger) *Resolver {
	return &Resolver{
		opts:  opts,
		arena: arena,
		alloc: alloc,
		base:  base,
		rep:   rep,
		log:   log,

		businessByOrg:  make(map[string]*entity.Business),
		businessByFold: make(map[string][]*entity.Business),
		defaultContact: make(map[int]*entity.Contact),
		contactByKey:   make(map[contactKey]*entity.Contact),
		jobByProject:   make(map[string]*entity.Job),
		workOrderByJob: make(map[int]*entity.WorkOrder),
		taskByKey:      make(map[taskKey]*entity.Task),
	}
}

// Run resolves the whole dataset. Errors are collected, not returned:
// the pipeline inspects the report afterwards.
func (r *Resolver) Run(ds *sheet.Dataset) {
	r.buildBusinesses(ds.Contacts)
	r.buildContacts(ds.Contacts)
	r.buildJobs(ds.Projects)
	r.buildPurchaseOrdersAndBills(ds.Bills)
	r.buildTasks(ds.Tasks)
	r.buildEstimates(ds.Estimates)
	r.buildInvoices(ds.Invoices)
	r.buildBleps(ds.Timeslips)
	r.buildPriceList(ds.PriceList)
}

// JobByProject exposes the project-name index for retention and rules.
func (r *Resolver) JobByProject(name string) (*entity.Job, bool) {
	j, ok := r.jobByProject[fold(name)]
	return j, ok
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (r *Resolver) add(e entity.Entity) {
	if err := r.arena.Add(e); err != nil {
		r.rep.Add(&report.IntegrityError{Msg: err.Error()})
	}
}

func (r *Resolver) parseDate(row sheet.Row, col string) types.Date {
	d, err := types.ParseDate(row.Get(col))
	if err != nil {
		r.rep.Add(&report.ParseError{Sheet: row.Sheet, Row: row.Line, Msg: col + ": " + err.Error()})
	}
	return d
}

func (r *Resolver) parseDecimal(row sheet.Row, col string, dflt decimal.Decimal) decimal.Decimal {
	v := row.Get(col)
	if v == "" {
		return dflt
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.rep.Add(&report.ParseError{Sheet: row.Sheet, Row: row.Line, Msg: col + ": invalid number " + v})
		return dflt
	}
	return d
}

func yearOf(d types.Date) int {
	if d.Valid {
		return d.Time.Year()
	}
	return fallbackYear
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func intPtr(v int) *int { return &v }

// buildBusinesses creates one Business per distinct organisation text in
// the Contacts sheet; the first row carrying the organisation supplies
// its address and phone.
func (r *Resolver) buildBusinesses(rows []sheet.Row) {
	for _, row := range rows {
		org := row.Get("Organisation")
		if org == "" {
			continue
		}
		if _, seen := r.businessByOrg[org]; seen {
			continue
		}
		b := &entity.Business{
			ID:                 r.alloc.NextID(entity.KindBusiness),
			BusinessName:       org,
			BusinessAddress:    row.Get("Address 1"),
			BusinessNumber:     row.Get("Phone Number"),
			TaxExemptionNumber: row.Get("Contact VAT Number"),
		}
		r.add(b)
		r.businessByOrg[org] = b
		r.businessByFold[fold(org)] = append(r.businessByFold[fold(org)], b)
	}
	r.log.WithField("businesses", len(r.businessByOrg)).Debug("businesses resolved")
}

func (r *Resolver) buildContacts(rows []sheet.Row) {
	for _, row := range rows {
		first := row.Get("First Name")
		last := row.Get("Last Name")
		org := row.Get("Organisation")

		if org != "" && first == "" && last == "" {
			first, last = unknownName, unknownName
		}
		if first == "" && last == "" {
			continue
		}

		c := &entity.Contact{
			ID:           r.alloc.NextID(entity.KindContact),
			Name:         strings.TrimSpace(first + " " + last),
			Email:        row.Get("Email"),
			WorkNumber:   truncate(row.Get("Phone Number"), maxPhoneLen),
			MobileNumber: truncate(row.Get("Mobile Phone Number"), maxPhoneLen),
			Addr1:        row.Get("Address 1"),
			Addr2:        row.Get("Address 2"),
			Addr3:        row.Get("Address 3"),
			City:         row.Get("Town"),
			Municipality: row.Get("Region"),
			PostalCode:   row.Get("Postcode"),
			CountryCode:  r.opts.DefaultCountryCode,
			FirstName:    first,
			LastName:     last,
		}

		if org != "" {
			b := r.businessByOrg[org]
			c.Business = intPtr(b.ID)
			if r.defaultContact[b.ID] == nil {
				c.IsDefault = true
				r.defaultContact[b.ID] = c
				b.DefaultContact = c.ID
			}
			r.contactByKey[contactKey{fold(org), fold(c.Name)}] = c
		}
		r.add(c)
	}
}

// findBusiness resolves organisation text with case-folded equality.
// No match and multiple matches are both reported; neither is guessed
// around.
func (r *Resolver) findBusiness(org string, sheetName string, line int) (*entity.Business, bool) {
	candidates := r.businessByFold[fold(org)]
	switch len(candidates) {
	case 1:
		return candidates[0], true
	case 0:
		r.rep.Add(&report.ReferenceResolutionError{
			Sheet: sheetName, Row: line, Ref: org,
			Msg: "organisation matches no known business",
		})
		return nil, false
	default:
		names := make([]string, len(candidates))
		for i, b := range candidates {
			names[i] = b.BusinessName
		}
		r.rep.Add(&report.AmbiguousReferenceError{
			Sheet: sheetName, Row: line, Ref: org, Candidates: names,
		})
		return nil, false
	}
}

// resolveContact maps (organisation, person name) to a contact id. When
// the organisation is known but the name does not match its default
// contact, a new contact is synthesized from the default's email and
// attached to the same business; the default is never changed.
func (r *Resolver) resolveContact(org, name, sheetName string, line int) (int, bool) {
	b, ok := r.findBusiness(org, sheetName, line)
	if !ok {
		return 0, false
	}

	key := contactKey{fold(org), fold(name)}
	if c, ok := r.contactByKey[key]; ok {
		return c.ID, true
	}

	def := r.defaultContact[b.ID]
	if def == nil {
		r.rep.Add(&report.ReferenceResolutionError{
			Sheet: sheetName, Row: line, Ref: name,
			Msg: "business " + b.BusinessName + " has no contacts",
		})
		return 0, false
	}
	if fold(name) == fold(def.Name) {
		r.contactByKey[key] = def
		return def.ID, true
	}

	first, last := splitName(name)
	c := &entity.Contact{
		ID:          r.alloc.NextID(entity.KindContact),
		Name:        strings.TrimSpace(name),
		Email:       def.Email,
		CountryCode: r.opts.DefaultCountryCode,
		Business:    intPtr(b.ID),
		FirstName:   first,
		LastName:    last,
	}
	r.add(c)
	r.contactByKey[key] = c
	r.log.WithFields(logrus.Fields{
		"business": b.BusinessName,
		"contact":  c.Name,
		"sheet":    sheetName,
		"row":      line,
	}).Info("synthesized contact for name mismatch")
	return c.ID, true
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
