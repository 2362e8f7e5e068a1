package authors

type ListAuthorsQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

// CreateAuthorPayload creates an author. author_name may be omitted or null.
type CreateAuthorPayload struct {
	AuthorName *string `json:"author_name"`
}

// UpdateAuthorPayload changes author_name when present. An empty string
// clears the name.
type UpdateAuthorPayload struct {
	AuthorName *string `json:"author_name,omitempty"`
}
