package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrCatalogEmpty = errors.New("task catalog is empty and no generator is configured")

// CatalogTask is one template handed out by the catalog, whichever
// source produced it.
type CatalogTask struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type CatalogService interface {
	RandomTask(ctx context.Context, db *gorm.DB) (CatalogTask, error)
	AddEntry(db *gorm.DB, description, category string) (models.CatalogEntry, error)
	SeedDefaults(db *gorm.DB) error
}

type CatalogServiceImpl struct {
	generatorURL string
	client       *http.Client
}

func NewCatalogService(generatorURL string, timeout time.Duration) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		generatorURL: generatorURL,
		client:       &http.Client{Timeout: timeout},
	}
}

// RandomTask picks one entry from the stored catalog. When the catalog
// has nothing to offer it asks the external activity generator instead.
func (s *CatalogServiceImpl) RandomTask(ctx context.Context, db *gorm.DB) (CatalogTask, error) {
	var count int64
	if err := db.Model(&models.CatalogEntry{}).Count(&count).Error; err != nil {
		return CatalogTask{}, err
	}

	if count == 0 {
		return s.generateRemote(ctx)
	}

	var entry models.CatalogEntry
	err := db.Offset(rand.Intn(int(count))).Limit(1).Find(&entry).Error
	if err != nil {
		return CatalogTask{}, err
	}

	return CatalogTask{Description: entry.Description, Category: entry.Category}, nil
}

func (s *CatalogServiceImpl) AddEntry(db *gorm.DB, description, category string) (models.CatalogEntry, error) {
	if description == "" {
		return models.CatalogEntry{}, ErrEmptyDescription
	}

	entry := models.CatalogEntry{
		ID:          uuid.Must(uuid.NewV4()),
		Description: description,
		Category:    category,
	}
	if err := db.Create(&entry).Error; err != nil {
		return models.CatalogEntry{}, err
	}
	return entry, nil
}

// SeedDefaults fills an empty catalog with the built-in task list.
func (s *CatalogServiceImpl) SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.CatalogEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, seed := range defaultCatalog {
		entry := models.CatalogEntry{
			ID:          uuid.Must(uuid.NewV4()),
			Description: seed.Description,
			Category:    seed.Category,
		}
		if err := db.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// generateRemote maps the activity generator's {activity, type}
// response onto a catalog task.
func (s *CatalogServiceImpl) generateRemote(ctx context.Context) (CatalogTask, error) {
	if s.generatorURL == "" {
		return CatalogTask{}, ErrCatalogEmpty
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.generatorURL, nil)
	if err != nil {
		return CatalogTask{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return CatalogTask{}, fmt.Errorf("activity generator unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CatalogTask{}, fmt.Errorf("activity generator returned status %d", resp.StatusCode)
	}

	var payload struct {
		Activity string `json:"activity"`
		Type     string `json:"type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return CatalogTask{}, fmt.Errorf("failed to decode generator response: %w", err)
	}

	return CatalogTask{Description: payload.Activity, Category: payload.Type}, nil
}

var defaultCatalog = []CatalogTask{
	{Description: "Take a photo of a sunset", Category: "recreational"},
	{Description: "Learn to fold an origami crane", Category: "education"},
	{Description: "Cook a dish you have never made before", Category: "cooking"},
	{Description: "Go for a 5km run", Category: "sport"},
	{Description: "Call a friend you have not spoken to in a month", Category: "social"},
	{Description: "Sketch the view from your window", Category: "art"},
	{Description: "Declutter one drawer", Category: "busywork"},
	{Description: "Memorize a short poem", Category: "education"},
	{Description: "Try a 10 minute meditation", Category: "relaxation"},
	{Description: "Plant something in a pot", Category: "recreational"},
}
