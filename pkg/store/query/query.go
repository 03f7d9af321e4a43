package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sukryu/pSite/pkg/errors"
)

const (
	// DefaultLimit applies to any resource that does not set its own.
	DefaultLimit = 20
	// MaxLimit bounds an explicit limit so the page offset stays in range.
	MaxLimit = 1000

	ParamPage        = "page"
	ParamLimit       = "limit"
	ParamSearch      = "search"
	ParamWithDeleted = "with_deleted"
)

// Request is a parsed list request. Page is always >= 1 once parsed.
type Request struct {
	Page        int
	Limit       int
	LimitSet    bool
	Search      string
	Filters     map[string]bool
	Values      map[string]string
	WithDeleted bool
}

type Condition struct {
	SQL  string
	Args []interface{}
}

func Where(sql string, args ...interface{}) Condition {
	return Condition{SQL: sql, Args: args}
}

type OrderByClause struct {
	Column string
	Desc   bool
}

// ValueFilter turns a non-empty query parameter into a condition.
type ValueFilter func(value string) Condition

// Spec describes how one resource is listed. Column names come from code,
// never from the request.
type Spec struct {
	SearchColumns []string
	BoolFilters   map[string]string
	ValueFilters  map[string]ValueFilter
	Conditions    []Condition
	OrderBy       []OrderByClause
	DefaultLimit  int
	// Unbounded makes limit=0 mean "no limit" instead of "use the default".
	Unbounded bool
}

// WithConditions returns a copy of s with extra fixed conditions, used for
// the public views that only expose published rows.
func (s Spec) WithConditions(conds ...Condition) Spec {
	out := s
	out.Conditions = append(append([]Condition{}, s.Conditions...), conds...)
	return out
}

// ParseRequest reads page, limit, search, with_deleted and the spec's
// filters from values. Malformed numbers are rejected; page < 1 is clamped.
func ParseRequest(values url.Values, spec Spec) (Request, error) {
	req := Request{Page: 1}

	if raw := values.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, errors.ErrInvalidInput.WithReason("page must be an integer")
		}
		if page > 1 {
			req.Page = page
		}
	}

	if raw := values.Get(ParamLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return Request{}, errors.ErrInvalidInput.WithReason("limit must be a non-negative integer")
		}
		if limit > MaxLimit {
			return Request{}, errors.ErrInvalidInput.WithReason(fmt.Sprintf("limit must not exceed %d", MaxLimit))
		}
		req.Limit = limit
		req.LimitSet = true
	}

	req.Search = strings.TrimSpace(values.Get(ParamSearch))

	for param := range spec.BoolFilters {
		raw := values.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Request{}, errors.ErrInvalidInput.WithReason(fmt.Sprintf("%s must be a boolean", param))
		}
		if req.Filters == nil {
			req.Filters = make(map[string]bool)
		}
		req.Filters[param] = v
	}

	for param := range spec.ValueFilters {
		if raw := strings.TrimSpace(values.Get(param)); raw != "" {
			if req.Values == nil {
				req.Values = make(map[string]string)
			}
			req.Values[param] = raw
		}
	}

	if raw := values.Get(ParamWithDeleted); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Request{}, errors.ErrInvalidInput.WithReason("with_deleted must be a boolean")
		}
		req.WithDeleted = v
	}

	return req, nil
}

// Plan is the bounded, ordered and filtered query for one list call.
type Plan struct {
	Conditions     []Condition
	OrderBy        []OrderByClause
	Page           int
	Limit          int
	Offset         int
	IncludeDeleted bool
}

func Build(spec Spec, req Request) Plan {
	page := req.Page
	if page < 1 {
		page = 1
	}

	defaultLimit := spec.DefaultLimit
	if defaultLimit == 0 && !spec.Unbounded {
		defaultLimit = DefaultLimit
	}
	limit := defaultLimit
	if req.LimitSet {
		limit = req.Limit
		if limit == 0 && !spec.Unbounded {
			limit = defaultLimit
		}
	}

	plan := Plan{
		Page:           page,
		Limit:          limit,
		Offset:         offset(page, limit),
		IncludeDeleted: req.WithDeleted,
	}

	plan.Conditions = append(plan.Conditions, spec.Conditions...)

	if req.Search != "" && len(spec.SearchColumns) > 0 {
		plan.Conditions = append(plan.Conditions, searchCondition(spec.SearchColumns, req.Search))
	}

	for _, param := range sortedKeys(spec.BoolFilters) {
		if v, ok := req.Filters[param]; ok {
			plan.Conditions = append(plan.Conditions, Where(spec.BoolFilters[param]+" = ?", v))
		}
	}

	for _, param := range sortedKeys(spec.ValueFilters) {
		if v, ok := req.Values[param]; ok {
			plan.Conditions = append(plan.Conditions, spec.ValueFilters[param](v))
		}
	}

	hasID := false
	for _, o := range spec.OrderBy {
		plan.OrderBy = append(plan.OrderBy, o)
		if o.Column == "id" {
			hasID = true
		}
	}
	if !hasID {
		plan.OrderBy = append(plan.OrderBy, OrderByClause{Column: "id", Desc: true})
	}

	return plan
}

// offset is (page-1)*limit, saturating at MaxInt so a huge page reads past
// the last row instead of wrapping around to the first.
func offset(page, limit int) int {
	if limit > 0 && page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Filter applies the soft-delete scope and conditions only; it is what the
// total count is computed from.
func (p Plan) Filter(db *gorm.DB) *gorm.DB {
	if p.IncludeDeleted {
		db = db.Unscoped()
	}
	for _, c := range p.Conditions {
		db = db.Where(c.SQL, c.Args...)
	}
	return db
}

func (p Plan) Apply(db *gorm.DB) *gorm.DB {
	db = p.Filter(db)
	for _, o := range p.OrderBy {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit).Offset(p.Offset)
	}
	return db
}

// Result is the list envelope returned by every list endpoint.
type Result[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func searchCondition(columns []string, term string) Condition {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
		args[i] = pattern
	}
	return Condition{SQL: "(" + strings.Join(parts, " OR ") + ")", Args: args}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
