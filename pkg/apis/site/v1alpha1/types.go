package v1alpha1

import (
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model carries the columns every soft-deletable resource shares. A non-null
// DeletedAt marks the row as logically deleted.
type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// Role permission flags are stored and served but not enforced anywhere.
type Role struct {
	Model
	Name          string `gorm:"size:255;not null" json:"name"`
	Level         string `gorm:"size:255" json:"level"`
	CanModifyUser bool   `json:"can_modify_user"`
	CanEdit       bool   `json:"can_edit"`
	CanView       bool   `json:"can_view"`
	IsGuest       bool   `json:"is_guest"`
}

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Phone     string         `gorm:"size:32" json:"phone"`
	BirthDate string         `gorm:"size:10" json:"birth_date"`
	Github    string         `gorm:"size:255" json:"github"`
	Linkedin  string         `gorm:"size:255" json:"linkedin"`
	RoleID    uint           `gorm:"not null" json:"role_id"`
	Role      *Role          `json:"role,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type PostCategory struct {
	Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Slug        string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Published   bool   `json:"published"`

	slugGiven bool
}

// UpdateColumns leaves the stored slug alone unless the request named one.
func (c *PostCategory) UpdateColumns(columns []string) []string {
	if c.slugGiven {
		return columns
	}
	return withoutColumn(columns, "slug")
}

type Post struct {
	Model
	Title      string        `gorm:"size:255;not null" json:"title"`
	Subtitle   string        `gorm:"size:255" json:"subtitle"`
	Slug       string        `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	Tags       string        `gorm:"type:text" json:"tags"`
	AuthorID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     *User         `json:"author,omitempty"`
	CategoryID uint          `gorm:"not null;index" json:"category_id"`
	Category   *PostCategory `json:"category,omitempty"`
	Published  bool          `json:"published"`

	slugGiven bool
}

// UpdateColumns keeps a post's public URL stable across retitles.
func (p *Post) UpdateColumns(columns []string) []string {
	if p.slugGiven {
		return columns
	}
	return withoutColumn(columns, "slug")
}

func withoutColumn(columns []string, column string) []string {
	return slices.DeleteFunc(slices.Clone(columns), func(c string) bool {
		return c == column
	})
}

type Tech struct {
	Model
	Title string `gorm:"size:255;not null" json:"title"`
	Icon  string `gorm:"size:255" json:"icon"`
}

type Project struct {
	Model
	Title     string `gorm:"size:255;not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Source    string `gorm:"size:255" json:"source"`
	URL       string `gorm:"column:url;size:255" json:"url"`
	Demo      string `gorm:"size:255" json:"demo"`
	Relevant  bool   `json:"relevant"`
	Published bool   `json:"published"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	Techs     []Tech `gorm:"many2many:projects_techs" json:"techs"`
}

type Hobby struct {
	Model
	Title     string `gorm:"size:255;not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Image     string `gorm:"size:255" json:"image"`
	ItemOrder int    `gorm:"not null;default:0" json:"item_order"`
	Active    bool   `json:"active"`
	Published bool   `json:"published"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"order"`
}

// BeforeCreate places a new hobby after every existing one, deleted rows
// included, so a restored hobby never shares a position.
func (h *Hobby) BeforeCreate(tx *gorm.DB) error {
	var max sql.NullInt64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Hobby{}).
		Unscoped().
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return err
	}
	h.SortOrder = int(max.Int64) + 1
	return nil
}

type Setting struct {
	Model
	Param string `gorm:"size:255;not null;uniqueIndex" json:"param"`
	Value string `gorm:"type:text" json:"value"`
	Note  string `gorm:"type:text" json:"note"`
}

// Contact is an inbound contact-form submission. It is append-only and has no
// soft-delete column.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// Image describes a stored upload; it lives on disk, not in the database.
type Image struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// AllModels lists every table managed by migrations, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&PostCategory{},
		&Post{},
		&Tech{},
		&Project{},
		&Hobby{},
		&Setting{},
		&Contact{},
	}
}

// Table names are fixed so raw conditions and qualified keys can name them.
func (Role) TableName() string         { return "roles" }
func (User) TableName() string         { return "users" }
func (PostCategory) TableName() string { return "post_categories" }
func (Post) TableName() string         { return "posts" }
func (Tech) TableName() string         { return "techs" }
func (Project) TableName() string      { return "projects" }
func (Hobby) TableName() string        { return "hobbies" }
func (Setting) TableName() string      { return "settings" }
func (Contact) TableName() string      { return "contacts" }
