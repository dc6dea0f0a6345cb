package domain

// Page is the paginated envelope shape shared by every list endpoint.
// Pages are zero-indexed.
type Page[T any] struct {
	Content          []T  `json:"content"`
	Page             int  `json:"page"`
	Size             int  `json:"size"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
}

// PageOf builds an envelope for one page of an already-filtered slice.
func PageOf[T any](all []T, page, size int) Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	totalPages := (len(all) + size - 1) / size
	start := page * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	content := all[start:end]
	return Page[T]{
		Content:          content,
		Page:             page,
		Size:             size,
		TotalElements:    len(all),
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            page == 0,
		Last:             totalPages == 0 || page >= totalPages-1,
	}
}
