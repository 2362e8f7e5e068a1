package books

type ListBooksQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Title string `json:"title" mod:"trim" validate:"required,max=500"`
}

type UpdateBookPayload struct {
	Title *string `json:"title,omitempty" mod:"trim" validate:"omitempty,max=500"`
}
