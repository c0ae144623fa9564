package model

import (
	"encoding/json"
	"math"
)

// ABV is stored as an integer number of tenths of a percent (5.3% -> 53)
// to keep the column free of floating point drift. On the wire it is a
// plain decimal number.
type ABV int64

func (a ABV) Float() float64 {
	return float64(a) / 10
}

func ABVFromFloat(f float64) ABV {
	return ABV(math.Round(f * 10))
}

func (a ABV) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Float())
}

func (a *ABV) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*a = ABVFromFloat(f)

	return nil
}

type Beer struct {
	Base
	Name        string  `json:"name"`
	BreweryID   uint    `json:"brewery_id"`
	Description string  `json:"description"`
	Style       string  `json:"style"`
	IBU         int     `json:"ibu"`
	ABV         ABV     `json:"abv"`
	Color       string  `json:"color"`
	AuthorID    uint    `json:"author_id"`
	CoverImage  *string `json:"cover_image"`

	Brewery Brewery `gorm:"foreignKey:BreweryID" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"-"`
}
