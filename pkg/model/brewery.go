package model

type Brewery struct {
	Base
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	DateOfFounding string  `json:"date_of_founding"`
	AuthorID       uint    `json:"author_id"`
	CoverImage     *string `json:"cover_image"`
	Verified       bool    `json:"verified"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}
