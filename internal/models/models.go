package models

// Blocked is stored as the legacy "y"/"n" strings for data parity with
// existing rows, but code only ever compares against these constants.
type Blocked string

const (
	BlockedYes Blocked = "y"
	BlockedNo  Blocked = "n"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type Product struct {
	ID              int    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name            string `gorm:"size:100;not null"         json:"name"`
	Slug            string `gorm:"size:100;index;not null"   json:"slug"`
	Description     string `gorm:"not null"                  json:"description"`
	Image           string `gorm:"size:100;not null"         json:"image"`
	Quantity        int    `gorm:"not null"                  json:"quantity"`
	RegularPrice    int    `json:"regular_price"`
	DiscountedPrice int    `json:"discounted_price"`
}

// ProductPatch enumerates the fields an admin update may touch. Nil means
// "leave alone"; application is explicit field assignment, never
// reflection over arbitrary keys.
type ProductPatch struct {
	Name            *string
	Slug            *string
	Description     *string
	Image           *string
	Quantity        *int
	RegularPrice    *int
	DiscountedPrice *int
}

// Apply copies the set fields onto p and reports how many changed.
func (patch ProductPatch) Apply(p *Product) int {
	fields := 0
	if patch.Name != nil {
		p.Name = *patch.Name
		fields++
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
		fields++
	}
	if patch.Description != nil {
		p.Description = *patch.Description
		fields++
	}
	if patch.Image != nil {
		p.Image = *patch.Image
		fields++
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
		fields++
	}
	if patch.RegularPrice != nil {
		p.RegularPrice = *patch.RegularPrice
		fields++
	}
	if patch.DiscountedPrice != nil {
		p.DiscountedPrice = *patch.DiscountedPrice
		fields++
	}
	return fields
}

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"        json:"id"`
	Username     string  `gorm:"size:64;uniqueIndex;not null"    json:"username"`
	Nickname     string  `gorm:"size:126;index;default:''"       json:"nickname"`
	Email        string  `gorm:"size:126;index;default:''"       json:"email"`
	PasswordHash string  `gorm:"size:128;not null"               json:"-"`
	Blocked      Blocked `gorm:"size:1;not null;default:n"       json:"-"`
	Role         Role    `gorm:"size:10;not null;default:member" json:"role"`
}

func (u *User) IsBlocked() bool {
	return u.Blocked == BlockedYes
}

// Option is a site-wide key/value setting edited from the dashboard.
type Option struct {
	Name        string `gorm:"column:option_name;size:64;primaryKey"   json:"name"`
	Value       string `gorm:"column:option_value"                     json:"value"`
	Description string `gorm:"column:option_desc;size:128;default:''" json:"description"`
}

func (Option) TableName() string { return "options" }
