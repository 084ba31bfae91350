package querybuilder

import (
	"context"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscape is portable across sqlite, mysql and postgres string literals.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// GormCollection runs criteria against one gorm model.
type GormCollection struct {
	db    *gorm.DB
	model any
	cfg   *Config
}

func NewGormCollection(db *gorm.DB, model any, cfg *Config) *GormCollection {
	return &GormCollection{db: db, model: model, cfg: cfg}
}

func containsPattern(value string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(value)) + "%"
}

func (g *GormCollection) predicate(c Condition) (string, any) {
	if c.Relation == "" {
		return "LOWER(" + g.cfg.Table + "." + c.Column + ") LIKE ? ESCAPE '" + likeEscape + "'", containsPattern(c.Value)
	}
	rel := g.cfg.Relations[c.Relation]
	return g.cfg.Table + "." + rel.LocalKey + " IN (SELECT " + rel.Table + "." + rel.ForeignKey +
			" FROM " + rel.Table + " WHERE LOWER(" + rel.Table + "." + c.Column + ") LIKE ? ESCAPE '" + likeEscape + "')",
		containsPattern(c.Value)
}

// where applies (search OR ...) AND filter AND ... to q.
func (g *GormCollection) where(q *gorm.DB, c *Criteria) *gorm.DB {
	if len(c.Search) > 0 {
		exprs := make([]string, 0, len(c.Search))
		args := make([]any, 0, len(c.Search))
		for _, cond := range c.Search {
			sql, arg := g.predicate(cond)
			exprs = append(exprs, sql)
			args = append(args, arg)
		}
		q = q.Where("("+strings.Join(exprs, " OR ")+")", args...)
	}
	for _, cond := range c.Filters {
		sql, arg := g.predicate(cond)
		q = q.Where(sql, arg)
	}
	return q
}

func (g *GormCollection) FindMany(ctx context.Context, c *Criteria, dest any) error {
	q := g.where(g.db.WithContext(ctx).Model(g.model), c)

	for _, o := range c.Order {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: g.cfg.Table, Name: o.Column},
			Desc:   o.Desc,
		})
	}
	if c.Take > 0 {
		q = q.Offset(c.Skip).Limit(c.Take)
	}
	if len(c.Select) > 0 {
		q = q.Select(g.selectWithKeys(c))
	}

	for rel, cols := range c.Nested {
		path := g.cfg.Relations[rel].Preload
		if g.includedBelow(c, path) {
			// deeper includes need the relation's own keys
			q = q.Preload(path)
			continue
		}
		cols := cols
		q = q.Preload(path, func(db *gorm.DB) *gorm.DB {
			return db.Select(cols)
		})
	}
	includes := make([]string, 0, len(c.Includes))
	for _, path := range c.Includes {
		if !g.nestedCovers(c, path) {
			includes = append(includes, path)
		}
	}

	return Preload(q, g.cfg, includes...).Find(dest).Error
}

// Preload applies include paths to db, restricting the columns of paths
// listed in cfg.IncludeColumns.
func Preload(db *gorm.DB, cfg *Config, paths ...string) *gorm.DB {
	for _, path := range paths {
		cols, ok := cfg.IncludeColumns[path]
		if !ok {
			db = db.Preload(path)
			continue
		}
		db = db.Preload(path, func(tx *gorm.DB) *gorm.DB {
			return tx.Select(cols)
		})
	}
	return db
}

// selectWithKeys extends a projection with the local keys of included
// relations, so the preloads can still be matched to their rows.
func (g *GormCollection) selectWithKeys(c *Criteria) []string {
	cols := slices.Clone(c.Select)
	for _, path := range c.Includes {
		head, _, _ := strings.Cut(path, ".")
		for _, r := range g.cfg.Relations {
			if r.Preload == head && r.LocalKey != "" && !slices.Contains(cols, r.LocalKey) {
				cols = append(cols, r.LocalKey)
			}
		}
	}
	return cols
}

// includedBelow reports whether an include path goes through preload.
func (g *GormCollection) includedBelow(c *Criteria, preload string) bool {
	for _, path := range c.Includes {
		if strings.HasPrefix(path, preload+".") {
			return true
		}
	}
	return false
}

// nestedCovers reports whether a projected relation already preloads path.
func (g *GormCollection) nestedCovers(c *Criteria, path string) bool {
	for rel := range c.Nested {
		if g.cfg.Relations[rel].Preload == path {
			return true
		}
	}
	return false
}

func (g *GormCollection) Count(ctx context.Context, c *Criteria) (int64, error) {
	var total int64
	err := g.where(g.db.WithContext(ctx).Model(g.model), c).Count(&total).Error
	return total, err
}
