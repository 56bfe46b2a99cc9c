package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questboard/backend/internal/models"
	"questboard/backend/internal/services"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type CatalogTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (suite *CatalogTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	suite.Require().NoError(db.AutoMigrate(&models.CatalogEntry{}))
	suite.db = db
}

func (suite *CatalogTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM catalog_entries")
}

func (suite *CatalogTestSuite) TestAddEntryAndRandomTask() {
	service := services.NewCatalogService("", time.Second)

	entry, err := service.AddEntry(suite.db, "Take a photo of a sunset", "recreational")
	suite.Require().NoError(err)
	suite.Equal("Take a photo of a sunset", entry.Description)

	task, err := service.RandomTask(context.Background(), suite.db)
	suite.Require().NoError(err)
	suite.Equal("Take a photo of a sunset", task.Description)
	suite.Equal("recreational", task.Category)
}

func (suite *CatalogTestSuite) TestAddEntryRejectsEmptyDescription() {
	service := services.NewCatalogService("", time.Second)

	_, err := service.AddEntry(suite.db, "", "sport")
	suite.ErrorIs(err, services.ErrEmptyDescription)
}

func (suite *CatalogTestSuite) TestRandomTaskDrawsFromStoredEntries() {
	service := services.NewCatalogService("", time.Second)

	descriptions := map[string]bool{}
	for _, d := range []string{"one", "two", "three"} {
		_, err := service.AddEntry(suite.db, d, "busywork")
		suite.Require().NoError(err)
		descriptions[d] = true
	}

	for i := 0; i < 10; i++ {
		task, err := service.RandomTask(context.Background(), suite.db)
		suite.Require().NoError(err)
		suite.True(descriptions[task.Description], "unexpected task %q", task.Description)
	}
}

func (suite *CatalogTestSuite) TestEmptyCatalogFallsBackToGenerator() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"activity": "Learn calligraphy", "type": "education"}`))
	}))
	defer server.Close()

	service := services.NewCatalogService(server.URL, time.Second)

	task, err := service.RandomTask(context.Background(), suite.db)
	suite.Require().NoError(err)
	suite.Equal("Learn calligraphy", task.Description)
	suite.Equal("education", task.Category)
}

func (suite *CatalogTestSuite) TestGeneratorErrorSurfaces() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	service := services.NewCatalogService(server.URL, time.Second)

	_, err := service.RandomTask(context.Background(), suite.db)
	suite.Error(err)
}

func (suite *CatalogTestSuite) TestEmptyCatalogWithoutGenerator() {
	service := services.NewCatalogService("", time.Second)

	_, err := service.RandomTask(context.Background(), suite.db)
	suite.ErrorIs(err, services.ErrCatalogEmpty)
}

func (suite *CatalogTestSuite) TestSeedDefaults() {
	service := services.NewCatalogService("", time.Second)

	suite.Require().NoError(service.SeedDefaults(suite.db))

	var count int64
	suite.db.Model(&models.CatalogEntry{}).Count(&count)
	suite.Positive(count)

	// Seeding again must not duplicate entries.
	suite.Require().NoError(service.SeedDefaults(suite.db))

	var after int64
	suite.db.Model(&models.CatalogEntry{}).Count(&after)
	suite.Equal(count, after)
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
