// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PhotoTable represents the 'photos' table
type PhotoTable struct {
	Table      string
	ID         string
	PersonID   string
	FileURL    string
	ThumbURL   string
	Caption    string
	SortOrder  string
	UploadedAt string
}

// Photo is the schema definition for photos
var Photo = PhotoTable{
	Table:      "photos",
	ID:         "id",
	PersonID:   "person_id",
	FileURL:    "file_url",
	ThumbURL:   "thumb_url",
	Caption:    "caption",
	SortOrder:  "sort_order",
	UploadedAt: "uploaded_at",
}

func (t PhotoTable) Columns() []string {
	return []string{t.ID, t.PersonID, t.FileURL, t.ThumbURL, t.Caption, t.SortOrder, t.UploadedAt}
}

// DocumentTable represents the 'documents' table
type DocumentTable struct {
	Table      string
	ID         string
	PersonID   string
	FileURL    string
	FileName   string
	FileType   string
	UploadedAt string
}

// Document is the schema definition for documents
var Document = DocumentTable{
	Table:      "documents",
	ID:         "id",
	PersonID:   "person_id",
	FileURL:    "file_url",
	FileName:   "file_name",
	FileType:   "file_type",
	UploadedAt: "uploaded_at",
}

func (t DocumentTable) Columns() []string {
	return []string{t.ID, t.PersonID, t.FileURL, t.FileName, t.FileType, t.UploadedAt}
}

// SectionTable represents the 'person_sections' table
type SectionTable struct {
	Table       string
	ID          string
	PersonID    string
	Title       string
	ContentHTML string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// Section is the schema definition for person_sections
var Section = SectionTable{
	Table:       "person_sections",
	ID:          "id",
	PersonID:    "person_id",
	Title:       "title",
	ContentHTML: "content_html",
	SortOrder:   "sort_order",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t SectionTable) Columns() []string {
	return []string{t.ID, t.PersonID, t.Title, t.ContentHTML, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}

// InvitationTable represents the 'invitations' table
type InvitationTable struct {
	Table          string
	ID             string
	Token          string
	CreatedBy      string
	TargetPersonID string
	ExpiresAt      string
	MaxUses        string
	UsedCount      string
	CreatedAt      string
}

// Invitation is the schema definition for invitations
var Invitation = InvitationTable{
	Table:          "invitations",
	ID:             "id",
	Token:          "token",
	CreatedBy:      "created_by",
	TargetPersonID: "target_person_id",
	ExpiresAt:      "expires_at",
	MaxUses:        "max_uses",
	UsedCount:      "used_count",
	CreatedAt:      "created_at",
}

func (t InvitationTable) Columns() []string {
	return []string{t.ID, t.Token, t.CreatedBy, t.TargetPersonID, t.ExpiresAt, t.MaxUses, t.UsedCount, t.CreatedAt}
}
