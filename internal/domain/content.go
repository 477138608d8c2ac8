package domain

import (
	"strings"
	"time"
)

// ============================================================
// Flat content records
// ============================================================

// Meta is the identity and timestamps every stored record carries.
type Meta struct {
	ID        string    `json:"id" bson:"_id" yaml:"-"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Base exposes the embedded metadata to generic stores.
func (m *Meta) Base() *Meta { return m }

// Record is implemented by pointers to every flat content type.
type Record interface {
	Base() *Meta
	Validate() error
}

// Service is an offering shown on the services grid.
type Service struct {
	Meta     `bson:",inline" yaml:",inline"`
	Title    string `json:"title" bson:"title" yaml:"title"`
	Desc     string `json:"desc" bson:"desc" yaml:"desc"`
	Icon     string `json:"icon" bson:"icon" yaml:"icon"`
	Color    string `json:"color" bson:"color" yaml:"color"`
	Gradient string `json:"gradient" bson:"gradient" yaml:"gradient"`
	Order    int    `json:"order" bson:"order" yaml:"order"`
}

func (s *Service) Validate() error { return required("title", s.Title) }

// TeamMember is a person on the team page.
type TeamMember struct {
	Meta  `bson:",inline" yaml:",inline"`
	Name  string `json:"name" bson:"name" yaml:"name"`
	Role  string `json:"role" bson:"role" yaml:"role"`
	Image string `json:"image" bson:"image" yaml:"image"`
	Desc  string `json:"desc" bson:"desc" yaml:"desc"`
}

func (t *TeamMember) Validate() error { return required("name", t.Name) }

// Project is a portfolio entry.
type Project struct {
	Meta     `bson:",inline" yaml:",inline"`
	Title    string   `json:"title" bson:"title" yaml:"title"`
	Category string   `json:"category" bson:"category" yaml:"category"`
	Image    string   `json:"image" bson:"image" yaml:"image"`
	Tech     []string `json:"tech" bson:"tech" yaml:"tech"`
	Link     string   `json:"link" bson:"link" yaml:"link"`
}

func (p *Project) Validate() error { return required("title", p.Title) }

// PricingPlan is one column of the pricing table.
type PricingPlan struct {
	Meta         `bson:",inline" yaml:",inline"`
	Name         string   `json:"name" bson:"name" yaml:"name"`
	Desc         string   `json:"desc" bson:"desc" yaml:"desc"`
	PriceMonthly float64  `json:"priceMonthly" bson:"priceMonthly" yaml:"priceMonthly"`
	PriceYearly  float64  `json:"priceYearly" bson:"priceYearly" yaml:"priceYearly"`
	Features     []string `json:"features" bson:"features" yaml:"features"`
	Missing      []string `json:"missing" bson:"missing" yaml:"missing"`
	Popular      bool     `json:"popular" bson:"popular" yaml:"popular"`
}

func (p *PricingPlan) Validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if p.PriceMonthly < 0 || p.PriceYearly < 0 {
		return &ErrValidation{Field: "price", Message: "must not be negative"}
	}
	return nil
}

// Review is a client testimonial.
type Review struct {
	Meta   `bson:",inline" yaml:",inline"`
	Name   string `json:"name" bson:"name" yaml:"name"`
	Role   string `json:"role" bson:"role" yaml:"role"`
	Image  string `json:"image" bson:"image" yaml:"image"`
	Text   string `json:"text" bson:"text" yaml:"text"`
	Rating int    `json:"rating" bson:"rating" yaml:"rating"`
}

func (r *Review) Validate() error {
	if err := required("name", r.Name); err != nil {
		return err
	}
	if r.Rating < 1 || r.Rating > 5 {
		return &ErrValidation{Field: "rating", Message: "must be between 1 and 5"}
	}
	return nil
}

// BlogPost links to an article or social post.
type BlogPost struct {
	Meta     `bson:",inline" yaml:",inline"`
	Title    string `json:"title" bson:"title" yaml:"title"`
	Desc     string `json:"desc" bson:"desc" yaml:"desc"`
	Image    string `json:"image" bson:"image" yaml:"image"`
	Link     string `json:"link" bson:"link" yaml:"link"`
	Platform string `json:"platform" bson:"platform" yaml:"platform"`
}

func (b *BlogPost) Validate() error { return required("title", b.Title) }

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ErrValidation{Field: field, Message: "is required"}
	}
	return nil
}
