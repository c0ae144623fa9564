package model

type Review struct {
	Base
	AuthorID uint   `gorm:"uniqueIndex:idx_review_author_beer" json:"author_id"`
	BeerID   uint   `gorm:"uniqueIndex:idx_review_author_beer" json:"beer_id"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`

	Photos []ReviewPhoto `gorm:"foreignKey:ReviewID" json:"photos"`
	Author User          `gorm:"foreignKey:AuthorID" json:"-"`
	Beer   Beer          `gorm:"foreignKey:BeerID" json:"-"`
}

func (Review) TableName() string {
	return "beer_reviews"
}

// Position is unique per review and stays in [0,3]; slots freed by a
// deleted photo are reused by the allocator.
type ReviewPhoto struct {
	Base
	ReviewID uint   `gorm:"uniqueIndex:idx_photo_review_position" json:"review_id"`
	UserID   uint   `json:"user_id"`
	PhotoURL string `json:"photo_url"`
	Position int    `gorm:"uniqueIndex:idx_photo_review_position" json:"position"`
}

// OccupiedPositions returns the slots held by the given photos.
func OccupiedPositions(photos []ReviewPhoto) []int {
	occupied := make([]int, 0, len(photos))
	for _, photo := range photos {
		occupied = append(occupied, photo.Position)
	}

	return occupied
}
