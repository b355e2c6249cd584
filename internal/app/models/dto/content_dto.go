package dto

import (
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
)

// CreateNoticeRequest posts a notice
type CreateNoticeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=Exam Event General Scholarship Club"`
}

// ToInput converts the request into the service input
func (r CreateNoticeRequest) ToInput() models.NoticeInput {
	return models.NoticeInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    models.NoticeCategory(r.Category),
	}
}

// CreateTopicRequest opens a forum topic
type CreateTopicRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ToInput converts the request into the service input
func (r CreateTopicRequest) ToInput() models.TopicInput {
	return models.TopicInput{Title: r.Title, Description: r.Description}
}

// CreateReplyRequest answers a topic
type CreateReplyRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// VoteRequest casts an upvote or a downvote
type VoteRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// CreateResourceRequest shares study material
type CreateResourceRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Link        string   `json:"link,omitempty" binding:"omitempty,url"`
	FileName    string   `json:"fileName,omitempty"`
	Tags        []string `json:"tags"`
}

// ToInput converts the request into the service input
func (r CreateResourceRequest) ToInput() models.ResourceInput {
	return models.ResourceInput{
		Title:       r.Title,
		Description: r.Description,
		Link:        r.Link,
		FileName:    r.FileName,
		Tags:        r.Tags,
	}
}

// CreateEventRequest schedules an event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	Organizer   string    `json:"organizer" binding:"required"`
}

// ToInput converts the request into the service input
func (r CreateEventRequest) ToInput() models.EventInput {
	return models.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Organizer:   r.Organizer,
	}
}

// CreateMarketItemRequest lists an item for sale
type CreateMarketItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// ToInput converts the request into the service input
func (r CreateMarketItemRequest) ToInput() models.MarketItemInput {
	return models.MarketItemInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
	}
}

// CreatePlacementRequest announces a recruitment drive
type CreatePlacementRequest struct {
	CompanyName   string `json:"companyName" binding:"required"`
	Role          string `json:"role" binding:"required"`
	SalaryPackage string `json:"salaryPackage"`
	Eligibility   string `json:"eligibility"`
}

// ToInput converts the request into the service input
func (r CreatePlacementRequest) ToInput() models.PlacementInput {
	return models.PlacementInput{
		CompanyName:   r.CompanyName,
		Role:          r.Role,
		SalaryPackage: r.SalaryPackage,
		Eligibility:   r.Eligibility,
	}
}
