package models

import "time"

// NoticeCategory classifies a notice
type NoticeCategory string

const (
	NoticeExam        NoticeCategory = "Exam"
	NoticeEvent       NoticeCategory = "Event"
	NoticeGeneral     NoticeCategory = "General"
	NoticeScholarship NoticeCategory = "Scholarship"
	NoticeClub        NoticeCategory = "Club"
)

// Valid reports whether c is a known category
func (c NoticeCategory) Valid() bool {
	switch c {
	case NoticeExam, NoticeEvent, NoticeGeneral, NoticeScholarship, NoticeClub:
		return true
	}
	return false
}

// Notice is an announcement on the notice board
type Notice struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    NoticeCategory `json:"category"`
	Date        time.Time      `json:"date"`
	PostedBy    string         `json:"postedBy"`
}

func (n Notice) EntityID() string { return n.ID }

// Reply is an answer inside a forum topic
type Reply struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Author    AuthorSnapshot `json:"author"`
	Timestamp time.Time      `json:"timestamp"`
	Upvotes   int            `json:"upvotes"`
	Downvotes int            `json:"downvotes"`
}

func (r Reply) EntityID() string { return r.ID }

// Topic is a forum thread
type Topic struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Author      AuthorSnapshot `json:"author"`
	Timestamp   time.Time      `json:"timestamp"`
	Replies     []Reply        `json:"replies"`
	Likes       []string       `json:"likes"`
	Upvotes     int            `json:"upvotes"`
	Downvotes   int            `json:"downvotes"`
}

func (t Topic) EntityID() string { return t.ID }

// Resource is shared study material
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	Tags        []string  `json:"tags"`
	UploadedBy  string    `json:"uploadedBy"`
	UploadDate  time.Time `json:"uploadDate"`
}

func (r Resource) EntityID() string { return r.ID }

// Event is a campus event users can RSVP to
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Organizer   string    `json:"organizer"`
	RSVPs       []string  `json:"rsvps"`
}

func (e Event) EntityID() string { return e.ID }

// MarketItem is a marketplace listing
type MarketItem struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       *float64       `json:"price,omitempty"`
	Seller      SellerSnapshot `json:"seller"`
	ImageURL    string         `json:"imageUrl,omitempty"`
}

func (m MarketItem) EntityID() string { return m.ID }

// Placement is a recruitment drive
type Placement struct {
	ID            string   `json:"id"`
	CompanyName   string   `json:"companyName"`
	Role          string   `json:"role"`
	SalaryPackage string   `json:"salaryPackage"`
	Eligibility   string   `json:"eligibility"`
	Interested    []string `json:"interested"`
}

func (p Placement) EntityID() string { return p.ID }

// VoteDirection selects an upvote or a downvote
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether d is up or down
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}
