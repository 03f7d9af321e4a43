// Package resources wires the generic store and list engine to each table of
// the site: which columns are searched, filtered, ordered and updated.
package resources

import (
	"gorm.io/gorm"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
	"github.com/sukryu/pSite/pkg/store/sqlstore"
)

const (
	TableRoles      = "roles"
	TableUsers      = "users"
	TableCategories = "post_categories"
	TablePosts      = "posts"
	TableTechs      = "techs"
	TableProjects   = "projects"
	TableHobbies    = "hobbies"
	TableSettings   = "settings"
	TableContacts   = "contacts"
)

var newestFirst = []query.OrderByClause{{Column: "id", Desc: true}}

var (
	RoleSpec = query.Spec{
		SearchColumns: []string{"name", "level"},
		OrderBy:       newestFirst,
	}

	UserSpec = query.Spec{
		SearchColumns: []string{"name", "email"},
		OrderBy:       []query.OrderByClause{{Column: "created_at", Desc: true}},
	}

	// CategorySpec lists every category unless a limit is asked for.
	CategorySpec = query.Spec{
		SearchColumns: []string{"name", "description"},
		BoolFilters:   map[string]string{"published": "published"},
		OrderBy:       newestFirst,
		Unbounded:     true,
	}

	PostSpec = query.Spec{
		SearchColumns: []string{"title", "subtitle", "tags"},
		BoolFilters:   map[string]string{"published": "published"},
		ValueFilters:  map[string]query.ValueFilter{"cat": postsInCategory},
		OrderBy:       newestFirst,
	}

	TechSpec = query.Spec{
		SearchColumns: []string{"title"},
		OrderBy:       newestFirst,
	}

	ProjectSpec = query.Spec{
		SearchColumns: []string{"title", "content"},
		BoolFilters: map[string]string{
			"rlv":       "relevant",
			"published": "published",
		},
		OrderBy: newestFirst,
	}

	HobbySpec = query.Spec{
		SearchColumns: []string{"title", "content"},
		BoolFilters: map[string]string{
			"published": "published",
			"active":    "active",
		},
		OrderBy: []query.OrderByClause{{Column: "sort_order", Desc: true}},
	}

	SettingSpec = query.Spec{
		SearchColumns: []string{"param", "note"},
		OrderBy:       newestFirst,
	}

	ContactSpec = query.Spec{
		SearchColumns: []string{"subject", "name", "email"},
		OrderBy:       newestFirst,
	}
)

// Public views only ever show published rows, and posts only when both their
// category and author are still live.
var (
	PublicPostSpec = PostSpec.WithConditions(
		query.Where("published = ?", true),
		query.Where("category_id IN (SELECT id FROM post_categories WHERE deleted_at IS NULL)"),
		query.Where("author_id IN (SELECT id FROM users WHERE deleted_at IS NULL)"),
	)

	PublicProjectSpec = ProjectSpec.WithConditions(query.Where("published = ?", true))

	PublicHobbySpec = HobbySpec.WithConditions(
		query.Where("active = ?", true),
		query.Where("published = ?", true),
	)
)

func postsInCategory(slug string) query.Condition {
	return query.Where("category_id IN (SELECT id FROM post_categories WHERE slug = ? AND deleted_at IS NULL)", slug)
}

// Columns written by updates. Identity, timestamps and the soft-delete
// marker are never among them.
var (
	RoleColumns     = []string{"name", "level", "can_modify_user", "can_edit", "can_view", "is_guest"}
	UserColumns     = []string{"name", "email", "password", "phone", "birth_date", "github", "linkedin", "role_id"}
	CategoryColumns = []string{"name", "slug", "description", "published"}
	PostColumns     = []string{"title", "subtitle", "slug", "content", "tags", "author_id", "category_id", "published"}
	TechColumns     = []string{"title", "icon"}
	ProjectColumns  = []string{"title", "content", "source", "url", "demo", "relevant", "published", "sort_order"}
	HobbyColumns    = []string{"title", "content", "image", "item_order", "active", "published", "sort_order"}
	SettingColumns  = []string{"value", "note"}
)

type Stores struct {
	Roles      base.Store[v1alpha1.Role]
	Users      base.Store[v1alpha1.User]
	Categories base.Store[v1alpha1.PostCategory]
	Posts      base.Store[v1alpha1.Post]
	Techs      base.Store[v1alpha1.Tech]
	Projects   base.Store[v1alpha1.Project]
	Hobbies    base.Store[v1alpha1.Hobby]
	Settings   base.Store[v1alpha1.Setting]
	Contacts   base.Store[v1alpha1.Contact]
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Roles:      sqlstore.NewSQLStore[v1alpha1.Role](db, TableRoles),
		Users:      sqlstore.NewSQLStore[v1alpha1.User](db, TableUsers, sqlstore.WithPreload("Role")),
		Categories: sqlstore.NewSQLStore[v1alpha1.PostCategory](db, TableCategories),
		Posts:      sqlstore.NewSQLStore[v1alpha1.Post](db, TablePosts, sqlstore.WithPreload("Author", "Category")),
		Techs:      sqlstore.NewSQLStore[v1alpha1.Tech](db, TableTechs),
		Projects:   sqlstore.NewSQLStore[v1alpha1.Project](db, TableProjects, sqlstore.WithPreload("Techs")),
		Hobbies:    sqlstore.NewSQLStore[v1alpha1.Hobby](db, TableHobbies),
		Settings:   sqlstore.NewSQLStore[v1alpha1.Setting](db, TableSettings),
		Contacts:   sqlstore.NewSQLStore[v1alpha1.Contact](db, TableContacts),
	}
}
