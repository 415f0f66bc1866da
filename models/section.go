package models

// Section is a named grouping of books. Deleting a section deletes every book
// that belongs to it.
type Section struct {
	SectionID   int64  `json:"section_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TableName returns the name of the database table
// associated with the Section model.
func (s Section) TableName() string {
	return "sections"
}

// SectionInput holds the editable fields of a section as submitted by a form.
type SectionInput struct {
	Name        string
	Description string
}
