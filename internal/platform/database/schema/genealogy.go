// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TreeTable represents the 'trees' table
type TreeTable struct {
	Table     string
	ID        string
	OwnerID   string
	Name      string
	CreatedAt string
}

// Tree is the schema definition for trees
var Tree = TreeTable{
	Table:     "trees",
	ID:        "id",
	OwnerID:   "owner_id",
	Name:      "name",
	CreatedAt: "created_at",
}

func (t TreeTable) Columns() []string {
	return []string{t.ID, t.OwnerID, t.Name, t.CreatedAt}
}

// PersonTable represents the 'persons' table
type PersonTable struct {
	Table          string
	ID             string
	TreeID         string
	FirstName      string
	LastName       string
	Patronymic     string
	MaidenName     string
	Gender         string
	BirthDate      string
	BirthPlace     string
	DeathDate      string
	DeathPlace     string
	BurialPlace    string
	Residence      string
	AvatarURL      string
	AvatarThumbURL string
	CreatedAt      string
	UpdatedAt      string
}

// Person is the schema definition for persons
var Person = PersonTable{
	Table:          "persons",
	ID:             "id",
	TreeID:         "tree_id",
	FirstName:      "first_name",
	LastName:       "last_name",
	Patronymic:     "patronymic",
	MaidenName:     "maiden_name",
	Gender:         "gender",
	BirthDate:      "birth_date",
	BirthPlace:     "birth_place",
	DeathDate:      "death_date",
	DeathPlace:     "death_place",
	BurialPlace:    "burial_place",
	Residence:      "residence",
	AvatarURL:      "avatar_url",
	AvatarThumbURL: "avatar_thumb_url",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

// Columns returns all standard column names in scan order
func (t PersonTable) Columns() []string {
	return []string{
		t.ID, t.TreeID, t.FirstName, t.LastName, t.Patronymic, t.MaidenName, t.Gender,
		t.BirthDate, t.BirthPlace, t.DeathDate, t.DeathPlace, t.BurialPlace, t.Residence,
		t.AvatarURL, t.AvatarThumbURL, t.CreatedAt, t.UpdatedAt,
	}
}

// RelationshipTable represents the 'relationships' table
type RelationshipTable struct {
	Table           string
	ID              string
	TreeID          string
	PersonID        string
	RelatedPersonID string
	Type            string
	CreatedAt       string
}

// Relationship is the schema definition for relationships
var Relationship = RelationshipTable{
	Table:           "relationships",
	ID:              "id",
	TreeID:          "tree_id",
	PersonID:        "person_id",
	RelatedPersonID: "related_person_id",
	Type:            "relationship_type",
	CreatedAt:       "created_at",
}

func (t RelationshipTable) Columns() []string {
	return []string{t.ID, t.TreeID, t.PersonID, t.RelatedPersonID, t.Type, t.CreatedAt}
}

// EditProposalTable represents the 'edit_proposals' table
type EditProposalTable struct {
	Table          string
	ID             string
	ProposedBy     string
	TargetPersonID string
	FieldChanges   string
	Status         string
	ReviewedBy     string
	Comment        string
	CreatedAt      string
	ReviewedAt     string
}

// EditProposal is the schema definition for edit_proposals
var EditProposal = EditProposalTable{
	Table:          "edit_proposals",
	ID:             "id",
	ProposedBy:     "proposed_by",
	TargetPersonID: "target_person_id",
	FieldChanges:   "field_changes",
	Status:         "status",
	ReviewedBy:     "reviewed_by",
	Comment:        "comment",
	CreatedAt:      "created_at",
	ReviewedAt:     "reviewed_at",
}

func (t EditProposalTable) Columns() []string {
	return []string{
		t.ID, t.ProposedBy, t.TargetPersonID, t.FieldChanges, t.Status,
		t.ReviewedBy, t.Comment, t.CreatedAt, t.ReviewedAt,
	}
}
