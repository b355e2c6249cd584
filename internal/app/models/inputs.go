package models

import "time"

// NoticeInput creates a notice
type NoticeInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    NoticeCategory `json:"category"`
}

// NoticePatch updates a notice; nil fields are left unchanged
type NoticePatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *NoticeCategory `json:"category,omitempty"`
}

// Apply merges the patch into n
func (p NoticePatch) Apply(n *Notice) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
}

// TopicInput creates a topic
type TopicInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TopicPatch updates a topic
type TopicPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the patch into t
func (p TopicPatch) Apply(t *Topic) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}

// ResourceInput creates a resource
type ResourceInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link,omitempty"`
	FileName    string   `json:"fileName,omitempty"`
	Tags        []string `json:"tags"`
}

// EventInput creates an event
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Organizer   string    `json:"organizer"`
}

// EventPatch updates an event
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Organizer   *string    `json:"organizer,omitempty"`
}

// Apply merges the patch into e
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Organizer != nil {
		e.Organizer = *p.Organizer
	}
}

// MarketItemInput creates a marketplace listing
type MarketItemInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// PlacementInput creates a placement drive
type PlacementInput struct {
	CompanyName   string `json:"companyName"`
	Role          string `json:"role"`
	SalaryPackage string `json:"salaryPackage"`
	Eligibility   string `json:"eligibility"`
}

// PlacementPatch updates a placement
type PlacementPatch struct {
	CompanyName   *string `json:"companyName,omitempty"`
	Role          *string `json:"role,omitempty"`
	SalaryPackage *string `json:"salaryPackage,omitempty"`
	Eligibility   *string `json:"eligibility,omitempty"`
}

// Apply merges the patch into p
func (pp PlacementPatch) Apply(p *Placement) {
	if pp.CompanyName != nil {
		p.CompanyName = *pp.CompanyName
	}
	if pp.Role != nil {
		p.Role = *pp.Role
	}
	if pp.SalaryPackage != nil {
		p.SalaryPackage = *pp.SalaryPackage
	}
	if pp.Eligibility != nil {
		p.Eligibility = *pp.Eligibility
	}
}
