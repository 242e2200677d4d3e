package web

// ArtistSummary is a registered artist as listed by /get_data and /login.
type ArtistSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// PixelArtSummary is one published work.
type PixelArtSummary struct {
	ID           uint   `json:"id"`
	Canvas       []int  `json:"canvas"`
	Username     string `json:"username"`
	CreationDate string `json:"creation_date"`
	CreatedAt    string `json:"created_at"`
}

type PaginationData struct {
	BasePath   string `json:"-"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	PrevPage   int    `json:"prev_page,omitempty"`
	NextPage   int    `json:"next_page,omitempty"`
}

// Offset is the number of works before the first one on this page.
func (p PaginationData) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

type GalleryData struct {
	Artists    []ArtistSummary
	PixelArts  []PixelArtSummary
	Pagination PaginationData
	Registered bool
	Username   string
}
