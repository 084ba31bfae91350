// Package querybuilder turns list-endpoint query parameters into search,
// filter, sort, pagination, projection and preload criteria, and executes
// them against a Collection.
package querybuilder

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sarkargroup/smd-backend/pkg/response"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Reserved query keys never treated as filters.
var Reserved = map[string]struct{}{
	"searchTerm": {},
	"sort":       {},
	"limit":      {},
	"page":       {},
	"fields":     {},
}

// Kind tells whether a field supports substring matching.
type Kind int

const (
	// Text columns are matched with case-insensitive contains.
	Text Kind = iota
	// Typed columns (numbers, dates, booleans) can be sorted and selected
	// but not substring-filtered.
	Typed
)

type Field struct {
	Column string
	Kind   Kind
}

// Relation describes a one-level association reachable with a dotted key.
// Predicates on it become
// root.LocalKey IN (SELECT Table.ForeignKey FROM Table WHERE ...).
type Relation struct {
	Preload    string
	Table      string
	LocalKey   string
	ForeignKey string
	Fields     map[string]Field
}

// Config is the per-entity allowlist. IncludeColumns restricts the
// columns loaded for an include path.
type Config struct {
	Table          string
	Fields         map[string]Field
	Relations      map[string]Relation
	DefaultOrder   []OrderBy
	IncludeColumns map[string][]string
}

// Condition is a single case-insensitive contains predicate.
type Condition struct {
	Relation string
	Column   string
	Value    string
}

type OrderBy struct {
	Column string
	Desc   bool
}

// Criteria is the accumulated, executable state of a Builder.
type Criteria struct {
	Search   []Condition
	Filters  []Condition
	Order    []OrderBy
	Skip     int
	Take     int
	Select   []string
	Nested   map[string][]string
	Includes []string
}

// Collection is the storage capability the builder runs against.
type Collection interface {
	FindMany(ctx context.Context, c *Criteria, dest any) error
	Count(ctx context.Context, c *Criteria) (int64, error)
}

// Meta is the pagination block returned next to list results.
type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// Builder composes criteria. Every step is a pure transformation until
// FindMany or MetaData runs. The first invalid step is reported by both.
type Builder struct {
	coll     Collection
	cfg      *Config
	query    url.Values
	criteria Criteria
	err      error
}

func New(coll Collection, cfg *Config, query url.Values) *Builder {
	if query == nil {
		query = url.Values{}
	}
	return &Builder{coll: coll, cfg: cfg, query: query}
}

func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = response.NewBadRequest(fmt.Sprintf(format, args...))
	}
}

// resolve maps an API key ("city" or "user.firstName") onto a column.
func (b *Builder) resolve(key string) (relation string, field Field, ok bool) {
	parts := strings.Split(key, ".")
	switch len(parts) {
	case 1:
		f, found := b.cfg.Fields[key]
		if !found {
			b.fail("unknown query field %q", key)
			return "", Field{}, false
		}
		return "", f, true
	case 2:
		rel, found := b.cfg.Relations[parts[0]]
		if !found {
			b.fail("unknown relation %q", parts[0])
			return "", Field{}, false
		}
		f, found := rel.Fields[parts[1]]
		if !found {
			b.fail("unknown query field %q", key)
			return "", Field{}, false
		}
		return parts[0], f, true
	default:
		b.fail("query field %q nests deeper than one relation", key)
		return "", Field{}, false
	}
}

// Search ORs a contains predicate per field when searchTerm is present.
func (b *Builder) Search(fields ...string) *Builder {
	term := strings.TrimSpace(b.query.Get("searchTerm"))
	if term == "" {
		return b
	}

	conds := make([]Condition, 0, len(fields))
	for _, key := range fields {
		rel, f, ok := b.resolve(key)
		if !ok {
			return b
		}
		if f.Kind != Text {
			b.fail("field %q is not searchable", key)
			return b
		}
		conds = append(conds, Condition{Relation: rel, Column: f.Column, Value: term})
	}
	b.criteria.Search = conds
	return b
}

// Filter ANDs a contains predicate for every non-reserved query key.
func (b *Builder) Filter() *Builder {
	keys := make([]string, 0, len(b.query))
	for key := range b.query {
		if _, reserved := Reserved[key]; reserved {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, key := range keys {
		value := b.query.Get(key)
		if value == "" {
			continue
		}
		rel, f, ok := b.resolve(key)
		if !ok {
			return b
		}
		if f.Kind != Text {
			b.fail("field %q does not support substring filtering", key)
			return b
		}
		conds = append(conds, Condition{Relation: rel, Column: f.Column, Value: value})
	}
	b.criteria.Filters = conds
	return b
}

// Sort parses "field dir, field dir". Direction defaults to ascending.
func (b *Builder) Sort() *Builder {
	raw := b.query.Get("sort")
	if strings.TrimSpace(raw) == "" {
		return b
	}

	var order []OrderBy
	for _, token := range strings.Split(raw, ",") {
		parts := strings.Fields(token)
		if len(parts) == 0 {
			continue
		}
		if len(parts) > 2 {
			b.fail("invalid sort expression %q", strings.TrimSpace(token))
			return b
		}
		f, found := b.cfg.Fields[parts[0]]
		if !found {
			b.fail("cannot sort by %q", parts[0])
			return b
		}
		desc := false
		if len(parts) == 2 {
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				b.fail("invalid sort direction %q", parts[1])
				return b
			}
		}
		order = append(order, OrderBy{Column: f.Column, Desc: desc})
	}
	b.criteria.Order = order
	return b
}

// Paginate derives skip and take from page and limit.
func (b *Builder) Paginate() *Builder {
	page, limit := b.pageLimit()
	b.criteria.Skip = (page - 1) * limit
	b.criteria.Take = limit
	return b
}

func (b *Builder) pageLimit() (int, int) {
	page := positiveOr(b.query.Get("page"), DefaultPage)
	limit := min(positiveOr(b.query.Get("limit"), DefaultLimit), MaxLimit)
	// (page-1)*limit must fit in an int.
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, limit
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Fields restricts the projection. Dotted names select columns of a
// relation and preload it.
func (b *Builder) Fields(fields ...string) *Builder {
	if len(fields) == 0 {
		return b
	}

	selected := []string{"id"}
	nested := map[string][]string{}
	seen := map[string]bool{"id": true}
	add := func(col string) {
		if !seen[col] {
			seen[col] = true
			selected = append(selected, col)
		}
	}

	for _, key := range fields {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		rel, f, ok := b.resolve(key)
		if !ok {
			return b
		}
		if rel == "" {
			add(f.Column)
			continue
		}
		r := b.cfg.Relations[rel]
		if r.Preload == "" {
			b.fail("relation %q cannot be projected", rel)
			return b
		}
		add(r.LocalKey)
		if _, started := nested[rel]; !started {
			nested[rel] = []string{r.ForeignKey}
		}
		if f.Column != r.ForeignKey {
			nested[rel] = append(nested[rel], f.Column)
		}
	}

	b.criteria.Select = selected
	if len(nested) > 0 {
		b.criteria.Nested = nested
	}
	return b
}

// FieldsFromQuery applies the comma separated "fields" parameter.
func (b *Builder) FieldsFromQuery() *Builder {
	raw := b.query.Get("fields")
	if raw == "" {
		return b
	}
	return b.Fields(strings.Split(raw, ",")...)
}

// IncludeRelations sets the fixed preload paths.
func (b *Builder) IncludeRelations(paths ...string) *Builder {
	b.criteria.Includes = append([]string(nil), paths...)
	return b
}

// Criteria returns a copy of the accumulated state.
func (b *Builder) Criteria() Criteria {
	c := b.criteria
	c.Search = append([]Condition(nil), b.criteria.Search...)
	c.Filters = append([]Condition(nil), b.criteria.Filters...)
	c.Order = append([]OrderBy(nil), b.criteria.Order...)
	return c
}

// Err returns the first composition error.
func (b *Builder) Err() error { return b.err }

// FindMany executes the accumulated criteria into dest.
func (b *Builder) FindMany(ctx context.Context, dest any) error {
	if b.err != nil {
		return b.err
	}
	c := b.criteria
	if len(c.Order) == 0 {
		c.Order = b.cfg.DefaultOrder
	}
	return b.coll.FindMany(ctx, &c, dest)
}

// MetaData counts with the same predicates, ignoring sort, paging and
// projection.
func (b *Builder) MetaData(ctx context.Context) (*Meta, error) {
	if b.err != nil {
		return nil, b.err
	}
	where := Criteria{Search: b.criteria.Search, Filters: b.criteria.Filters}
	total, err := b.coll.Count(ctx, &where)
	if err != nil {
		return nil, err
	}

	page, limit := b.pageLimit()
	return &Meta{
		Page:      page,
		Limit:     limit,
		Total:     total,
		TotalPage: TotalPages(total, limit),
	}, nil
}

// Execute runs FindMany and MetaData.
func (b *Builder) Execute(ctx context.Context, dest any) (*Meta, error) {
	if err := b.FindMany(ctx, dest); err != nil {
		return nil, err
	}
	return b.MetaData(ctx)
}

// TotalPages is ceil(total/limit); zero when there is nothing to page.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
