package model

type Store struct {
	Base
	Name           string `json:"name"`
	Location       string `json:"location"`
	DateOfFounding string `json:"date_of_founding"`
	AuthorID       uint   `json:"author_id"`
	Owner          string `json:"owner"`
	Verified       bool   `json:"verified"`

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

type StoreMenu struct {
	Base
	StoreID  uint    `json:"store_id"`
	BeerID   uint    `json:"beer_id"`
	AuthorID uint    `json:"author_id"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`

	Store Store `gorm:"foreignKey:StoreID" json:"-"`
	Beer  Beer  `gorm:"foreignKey:BeerID" json:"-"`
}
