package api

import "time"

// Image is the wire form of an image. Variant blobs travel as base64 strings;
// an absent variant and its content type are both null.
type Image struct {
	ID                *int64     `json:"id"`
	Name              string     `json:"name" binding:"required"`
	Small             []byte     `json:"small"`
	SmallContentType  *string    `json:"smallContentType"`
	Medium            []byte     `json:"medium"`
	MediumContentType *string    `json:"mediumContentType"`
	Large             []byte     `json:"large"`
	LargeContentType  *string    `json:"largeContentType"`
	Hash              *string    `json:"hash"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}
