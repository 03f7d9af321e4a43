package v1alpha1

import (
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/utils/slug"
)

// DefaultPhoneRegion is used for numbers given without a country code.
var DefaultPhoneRegion = "ID"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type RoleRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Level         string `json:"level" binding:"max=255"`
	CanModifyUser bool   `json:"can_modify_user"`
	CanEdit       bool   `json:"can_edit"`
	CanView       bool   `json:"can_view"`
	IsGuest       bool   `json:"is_guest"`
}

func (r *RoleRequest) ToModel() (*Role, error) {
	return &Role{
		Name:          r.Name,
		Level:         r.Level,
		CanModifyUser: r.CanModifyUser,
		CanEdit:       r.CanEdit,
		CanView:       r.CanView,
		IsGuest:       r.IsGuest,
	}, nil
}

// UserRequest carries a plaintext password; it is hashed before storage and
// may be left empty on update to keep the current one.
type UserRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"omitempty,min=8,max=72"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Github    string `json:"github" binding:"omitempty,max=255"`
	Linkedin  string `json:"linkedin" binding:"omitempty,max=255"`
	RoleID    uint   `json:"role_id" binding:"required"`
}

func (r *UserRequest) ToModel() (*User, error) {
	phone, err := NormalizePhone(r.Phone)
	if err != nil {
		return nil, err
	}
	return &User{
		Name:      r.Name,
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Password:  r.Password,
		Phone:     phone,
		BirthDate: r.BirthDate,
		Github:    r.Github,
		Linkedin:  r.Linkedin,
		RoleID:    r.RoleID,
	}, nil
}

// NormalizePhone formats a phone number as E.164. Empty stays empty.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", errors.ErrInvalidInput.WithReason("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"max=255"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

func (r *CategoryRequest) ToModel() (*PostCategory, error) {
	s, err := slugOrTitle(r.Slug, r.Name)
	if err != nil {
		return nil, err
	}
	return &PostCategory{
		Name:        r.Name,
		Slug:        s,
		Description: r.Description,
		Published:   r.Published,
		slugGiven:   r.Slug != "",
	}, nil
}

type PostRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	Subtitle   string `json:"subtitle" binding:"max=255"`
	Slug       string `json:"slug" binding:"max=255"`
	Content    string `json:"content" binding:"required"`
	Tags       string `json:"tags"`
	AuthorID   string `json:"author_id" binding:"required,uuid"`
	CategoryID uint   `json:"category_id" binding:"required"`
	Published  bool   `json:"published"`
}

func (r *PostRequest) ToModel() (*Post, error) {
	author, err := uuid.Parse(r.AuthorID)
	if err != nil {
		return nil, errors.ErrInvalidInput.WithReason("author_id must be a UUID")
	}
	s, err := slugOrTitle(r.Slug, r.Title)
	if err != nil {
		return nil, err
	}
	return &Post{
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		Slug:       s,
		Content:    r.Content,
		Tags:       r.Tags,
		AuthorID:   author,
		CategoryID: r.CategoryID,
		Published:  r.Published,
		slugGiven:  r.Slug != "",
	}, nil
}

type TechRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Icon  string `json:"icon" binding:"max=255"`
}

func (r *TechRequest) ToModel() (*Tech, error) {
	return &Tech{Title: r.Title, Icon: r.Icon}, nil
}

type ProjectRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Content   string `json:"content" binding:"required"`
	Source    string `json:"source" binding:"omitempty,max=255"`
	URL       string `json:"url" binding:"omitempty,max=255"`
	Demo      string `json:"demo" binding:"omitempty,max=255"`
	Relevant  bool   `json:"relevant"`
	Published bool   `json:"published"`
	Order     int    `json:"order"`
	TechIDs   []uint `json:"techs" binding:"dive,gt=0"`
}

func (r *ProjectRequest) ToModel() (*Project, error) {
	p := &Project{
		Title:     r.Title,
		Content:   r.Content,
		Source:    r.Source,
		URL:       r.URL,
		Demo:      r.Demo,
		Relevant:  r.Relevant,
		Published: r.Published,
		SortOrder: r.Order,
		Techs:     make([]Tech, 0, len(r.TechIDs)),
	}
	for _, id := range r.TechIDs {
		p.Techs = append(p.Techs, Tech{Model: Model{ID: id}})
	}
	return p, nil
}

type HobbyRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Content   string `json:"content" binding:"required"`
	Image     string `json:"image" binding:"max=255"`
	ItemOrder int    `json:"item_order"`
	Active    bool   `json:"active"`
	Published bool   `json:"published"`
	Order     int    `json:"order"`
}

func (r *HobbyRequest) ToModel() (*Hobby, error) {
	return &Hobby{
		Title:     r.Title,
		Content:   r.Content,
		Image:     r.Image,
		ItemOrder: r.ItemOrder,
		Active:    r.Active,
		Published: r.Published,
		SortOrder: r.Order,
	}, nil
}

type SettingRequest struct {
	Param string `json:"param" binding:"required,max=255"`
	Value string `json:"value"`
	Note  string `json:"note"`
}

func (r *SettingRequest) ToModel() (*Setting, error) {
	return &Setting{Param: r.Param, Value: r.Value, Note: r.Note}, nil
}

type ContactRequest struct {
	Subject string `json:"subject" binding:"required,max=255"`
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Content string `json:"content" binding:"required,max=10000"`
}

func (r *ContactRequest) ToModel() (*Contact, error) {
	return &Contact{
		Subject: strings.TrimSpace(r.Subject),
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Content: r.Content,
	}, nil
}

func slugOrTitle(explicit, title string) (string, error) {
	s := slug.Make(explicit)
	if explicit == "" {
		s = slug.Make(title)
	}
	if s == "" {
		return "", errors.ErrInvalidInput.WithReason("slug cannot be empty")
	}
	return s, nil
}
