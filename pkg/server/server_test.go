package server_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"beercomi.dev/BeerComi/configs"
	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/feed"
	"beercomi.dev/BeerComi/pkg/repository"
	"beercomi.dev/BeerComi/pkg/server"
	"beercomi.dev/BeerComi/pkg/storage"
)

type ServerSuite struct {
	suite.Suite
	mock         sqlmock.Sqlmock
	repository   *repository.Repository
	authManager  *auth.Manager
	server       *server.Server
	conf         *configs.Config
	observedLogs *observer.ObservedLogs
}

func (suite *ServerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var (
		db              *sql.DB
		err             error
		observedZapCore zapcore.Core
	)

	observedZapCore, suite.observedLogs = observer.New(zap.InfoLevel)
	observedLogger := zap.New(observedZapCore)

	db, suite.mock, err = sqlmock.New()
	suite.Require().NoError(err)

	gormLogger := zapgorm2.New(observedLogger)
	gormLogger.SetAsDefault()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{Logger: gormLogger, TranslateError: true})
	suite.Require().NoError(err)

	suite.repository = &repository.Repository{DB: gormDB, Logger: observedLogger}

	suite.conf = &configs.Config{
		Auth:    configs.Auth{SecretKey: "test-secret", TokenExpiry: time.Hour},
		Uploads: configs.Uploads{Dir: suite.T().TempDir(), MaxFileSize: 1_000_000},
	}

	uploads, err := storage.NewStore(suite.conf.Uploads.Dir, observedLogger)
	suite.Require().NoError(err)

	suite.authManager = auth.NewManager(suite.conf, suite.repository, observedLogger)
	aggregator := feed.NewAggregator(observedLogger, suite.repository.FeedSources()...)

	suite.server = server.New(suite.conf, suite.repository, suite.authManager, uploads, aggregator, observedLogger)
}

// performAs invokes a handler directly with an injected principal,
// bypassing the token middleware.
func (suite *ServerSuite) performAs(principal auth.Principal, handler gin.HandlerFunc,
	request *http.Request, params gin.Params,
) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(recorder)
	c.Request = request
	c.Params = params
	auth.SetPrincipal(c, principal)

	handler(c)

	return recorder
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)

	request := httptest.NewRequest(method, target, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	return request
}

// multipartRequest builds a form with string fields and a number of
// junk "photos" parts. The photo bytes are not decodable images on
// purpose: the tests that use them fail before decoding.
func multipartRequest(method, target string, fields map[string]string, photoCount int) *http.Request {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}

	for i := 0; i < photoCount; i++ {
		part, _ := writer.CreateFormFile("photos", "photo.jpg")
		_, _ = io.WriteString(part, "not an image")
	}

	_ = writer.Close()

	request := httptest.NewRequest(method, target, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())

	return request
}

func httptestDelete(target string) *http.Request {
	return httptest.NewRequest(http.MethodDelete, target, nil)
}

func decodeBody(suite *ServerSuite, recorder *httptest.ResponseRecorder) map[string]interface{} {
	var decoded map[string]interface{}

	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &decoded))

	return decoded
}
