package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/auth"
)

type FavoriteHandlerSuite struct {
	ServerSuite
}

func TestFavoriteHandlerSuite(t *testing.T) {
	suite.Run(t, new(FavoriteHandlerSuite))
}

func (suite *FavoriteHandlerSuite) expectBeerLookup(beerID uint) {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beers" LEFT JOIN "breweries" (.+)`).
		WithArgs(beerID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(beerID, "Sour Flower"))
}

func (suite *FavoriteHandlerSuite) TestAddFavorite_SecondCallSucceedsWithoutNewRow() {
	suite.expectBeerLookup(7)
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beers_favorites" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(11)))
	suite.mock.ExpectCommit()

	payload := map[string]interface{}{"table": "beers", "target_id": 7}

	recorder := suite.performAs(auth.Principal{UserID: 3}, suite.server.AddFavorite,
		jsonRequest(http.MethodPost, "/favorites", payload), nil)
	suite.Equal(http.StatusCreated, recorder.Code)

	suite.expectBeerLookup(7)
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beers_favorites" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	suite.mock.ExpectCommit()

	recorder = suite.performAs(auth.Principal{UserID: 3}, suite.server.AddFavorite,
		jsonRequest(http.MethodPost, "/favorites", payload), nil)
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Equal("already a favorite", decodeBody(&suite.ServerSuite, recorder)["data"])
}

func (suite *FavoriteHandlerSuite) TestAddFavorite_UnknownTableRejected() {
	payload := map[string]interface{}{"table": "users", "target_id": 7}

	recorder := suite.performAs(auth.Principal{UserID: 3}, suite.server.AddFavorite,
		jsonRequest(http.MethodPost, "/favorites", payload), nil)

	suite.Equal(http.StatusBadRequest, recorder.Code)
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *FavoriteHandlerSuite) TestRemoveFavorite_MissingRowReturnsNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beers_favorites" (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)
	suite.mock.ExpectRollback()

	recorder := suite.performAs(auth.Principal{UserID: 3}, suite.server.RemoveFavorite,
		httptestDelete("/favorites/beers/11"),
		gin.Params{{Key: "table", Value: "beers"}, {Key: "id", Value: "11"}})

	suite.Equal(http.StatusNotFound, recorder.Code)
}

func (suite *FavoriteHandlerSuite) TestRemoveFavorite_ForeignRowForbidden() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beers_favorites" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "beer_id"}).
			AddRow(uint(11), uint(99), uint(7)))
	suite.mock.ExpectRollback()

	recorder := suite.performAs(auth.Principal{UserID: 3}, suite.server.RemoveFavorite,
		httptestDelete("/favorites/beers/11"),
		gin.Params{{Key: "table", Value: "beers"}, {Key: "id", Value: "11"}})

	suite.Equal(http.StatusForbidden, recorder.Code)
}

func (suite *FavoriteHandlerSuite) TestFavoriteExists_ReportsBool() {
	suite.mock.ExpectQuery(`^SELECT EXISTS (.+)`).
		WithArgs(uint(3), uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	recorder := suite.performAs(auth.Principal{UserID: 3}, suite.server.FavoriteExists,
		httptest.NewRequest(http.MethodGet, "/favorites/beers/7", nil),
		gin.Params{{Key: "table", Value: "beers"}, {Key: "id", Value: "7"}})

	suite.Equal(http.StatusOK, recorder.Code)
	suite.Equal(true, decodeBody(&suite.ServerSuite, recorder)["data"])
}
