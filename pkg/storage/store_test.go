package storage_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"beercomi.dev/BeerComi/pkg/storage"
)

type StorageTestSuite struct {
	suite.Suite
	root  string
	store *storage.Store
}

func TestStorageTestSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (suite *StorageTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()

	store, err := storage.NewStore(suite.root, zaptest.NewLogger(suite.T()))
	suite.Require().NoError(err)
	suite.store = store
}

func testImage(suite *StorageTestSuite) *bytes.Buffer {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}

	buffer := &bytes.Buffer{}
	suite.Require().NoError(png.Encode(buffer, img))

	return buffer
}

func (suite *StorageTestSuite) TestStageImage_NotVisibleUntilPromoted() {
	final := storage.ReviewPhotoPath("Mikkeller", "Beer Geek", 12, 0)

	staged, err := suite.store.StageImage(testImage(suite), final)
	suite.Require().NoError(err)
	suite.Equal(final, staged.FinalPath())

	_, err = os.Stat(filepath.Join(suite.root, filepath.FromSlash(final)))
	suite.True(os.IsNotExist(err))

	suite.Require().NoError(staged.Promote())

	info, err := os.Stat(filepath.Join(suite.root, filepath.FromSlash(final)))
	suite.Require().NoError(err)
	suite.Positive(info.Size())
}

func (suite *StorageTestSuite) TestStageImage_DiscardRemovesStagedFile() {
	staged, err := suite.store.StageImage(testImage(suite), storage.ReviewPhotoPath("b", "b", 1, 0))
	suite.Require().NoError(err)

	suite.Require().NoError(staged.Discard())

	// The final path never appears and discarding twice is harmless.
	suite.NoError(staged.Discard())
	_, err = os.Stat(filepath.Join(suite.root, "b", "b", "1-0.webp"))
	suite.True(os.IsNotExist(err))
}

func (suite *StorageTestSuite) TestStageImage_RejectsGarbage() {
	staged, err := suite.store.StageImage(bytes.NewBufferString("not an image"), "x.webp")
	suite.Require().Error(err)
	suite.Nil(staged)
}

func (suite *StorageTestSuite) TestRemove_MissingFileIsNotAnError() {
	suite.NoError(suite.store.Remove("nope/missing.webp"))
	suite.NoError(suite.store.Remove(""))
}

func (suite *StorageTestSuite) TestReviewPhotoPath_Layout() {
	suite.Equal("Mikkeller/Beer Geek/12-3.webp", storage.ReviewPhotoPath("Mikkeller", "Beer Geek", 12, 3))
}

func (suite *StorageTestSuite) TestReviewPhotoPath_SanitizesSeparators() {
	path := storage.ReviewPhotoPath("Brew/Dog", "Punk\\IPA", 3, 1)
	suite.Equal("Brew-Dog/Punk-IPA/3-1.webp", path)
}

func (suite *StorageTestSuite) TestBeerCoverPath_Layout() {
	now := time.UnixMilli(1700000000000)
	suite.Equal("Mikkeller/Beer Geek/Beer Geek-CoverImage-1700000000000.webp", storage.BeerCoverPath("Mikkeller", "Beer Geek", now))
}

func (suite *StorageTestSuite) TestFlatImagePath_Layout() {
	suite.Equal("1700000000000.webp", storage.FlatImagePath(time.UnixMilli(1700000000000)))
}
