package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"beercomi.dev/BeerComi/configs"
	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/model"
)

type stubUserLookup struct {
	user *model.User
	err  error
}

func (s *stubUserLookup) GetUserByID(_ context.Context, _ uint) (*model.User, error) {
	return s.user, s.err
}

type AuthTestSuite struct {
	suite.Suite
	conf    *configs.Config
	manager *auth.Manager
	user    *model.User
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}

func (suite *AuthTestSuite) SetupTest() {
	suite.conf = &configs.Config{Auth: configs.Auth{SecretKey: "test-secret", TokenExpiry: time.Hour}}
	suite.user = &model.User{Base: model.Base{ID: 42}, DisplayName: "hophead", Role: model.RoleAdmin}
	suite.manager = auth.NewManager(suite.conf, &stubUserLookup{user: suite.user}, zaptest.NewLogger(suite.T()))
}

func (suite *AuthTestSuite) request(header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	return req
}

func (suite *AuthTestSuite) TestIssueToken_RoundTrips() {
	token, err := suite.manager.IssueToken(suite.user)
	suite.Require().NoError(err)

	principal, err := suite.manager.Authenticate(suite.request("Bearer " + token))
	suite.Require().NoError(err)
	suite.Equal(uint(42), principal.UserID)
	suite.Equal(model.RoleAdmin, principal.Role)
	suite.True(principal.IsAdmin())
}

func (suite *AuthTestSuite) TestAuthenticate_MissingHeader() {
	principal, err := suite.manager.Authenticate(suite.request(""))
	suite.Require().ErrorIs(err, auth.ErrUnauthenticated)
	suite.Nil(principal)
}

func (suite *AuthTestSuite) TestAuthenticate_NotBearer() {
	principal, err := suite.manager.Authenticate(suite.request("Basic dXNlcjpwYXNz"))
	suite.Require().ErrorIs(err, auth.ErrUnauthenticated)
	suite.Nil(principal)
}

func (suite *AuthTestSuite) TestAuthenticate_GarbageToken() {
	principal, err := suite.manager.Authenticate(suite.request("Bearer not.a.token"))
	suite.Require().ErrorIs(err, auth.ErrUnauthenticated)
	suite.Nil(principal)
}

func (suite *AuthTestSuite) TestAuthenticate_WrongSecret() {
	other := auth.NewManager(&configs.Config{Auth: configs.Auth{SecretKey: "other", TokenExpiry: time.Hour}},
		&stubUserLookup{user: suite.user}, zaptest.NewLogger(suite.T()))

	token, err := other.IssueToken(suite.user)
	suite.Require().NoError(err)

	principal, err := suite.manager.Authenticate(suite.request("Bearer " + token))
	suite.Require().ErrorIs(err, auth.ErrUnauthenticated)
	suite.Nil(principal)
}

func (suite *AuthTestSuite) TestAuthenticate_ExpiredToken() {
	expired := auth.NewManager(&configs.Config{Auth: configs.Auth{SecretKey: "test-secret", TokenExpiry: -time.Minute}},
		&stubUserLookup{user: suite.user}, zaptest.NewLogger(suite.T()))

	token, err := expired.IssueToken(suite.user)
	suite.Require().NoError(err)

	principal, err := suite.manager.Authenticate(suite.request("Bearer " + token))
	suite.Require().ErrorIs(err, auth.ErrUnauthenticated)
	suite.Nil(principal)
}

func (suite *AuthTestSuite) TestPassword_RoundTrips() {
	hash, err := auth.HashPassword("correct horse battery staple")
	suite.Require().NoError(err)
	suite.NotEqual("correct horse battery staple", hash)
	suite.True(auth.CheckPassword(hash, "correct horse battery staple"))
	suite.False(auth.CheckPassword(hash, "wrong"))
}
