package api

import "time"

type Skill struct {
	ID    *int64 `json:"id"`
	Title string `json:"title" binding:"required_without=ID"`
}

// Training is the wire form of a training. Skills is omitted by listings that
// do not load relationships.
type Training struct {
	ID          *int64     `json:"id"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description,omitempty"`
	Contact     string     `json:"contact,omitempty"`
	Link        string     `json:"link,omitempty" binding:"omitempty,url"`
	ValidUntil  *time.Time `json:"validUntil"`
	IsOfficial  *bool      `json:"isOfficial" binding:"required"`
	SuggestedBy string     `json:"suggestedBy,omitempty"`
	Skills      []Skill    `json:"skills,omitempty" binding:"dive"`
}
