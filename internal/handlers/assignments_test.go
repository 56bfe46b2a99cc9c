package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"questboard/backend/internal/handlers"
	"questboard/backend/internal/models"
	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockAssignmentService struct {
	shouldReturnError error
	assignments       []models.Assignment
	lastSubmission    services.SubmissionInput
}

func (m *MockAssignmentService) CreateAssignment(db *gorm.DB, input services.CreateAssignmentInput) (models.Assignment, error) {
	if m.shouldReturnError != nil {
		return models.Assignment{}, m.shouldReturnError
	}
	assignment := models.Assignment{
		ID:              uuid.Must(uuid.NewV4()),
		TaskDescription: input.TaskDescription,
		Difficulty:      input.Difficulty,
		Status:          models.StatusPending,
		AssignedBy:      input.AssignedBy,
		AssignedTo:      input.AssignedTo,
		Points:          models.PointsForDifficulty(input.Difficulty),
	}
	m.assignments = append(m.assignments, assignment)
	return assignment, nil
}

func (m *MockAssignmentService) SubmitAssignment(db *gorm.DB, id, actor uuid.UUID, input services.SubmissionInput) (models.Assignment, error) {
	if m.shouldReturnError != nil {
		return models.Assignment{}, m.shouldReturnError
	}
	m.lastSubmission = input
	return models.Assignment{ID: id, Status: models.StatusSubmitted, ProofURL: input.ProofURL}, nil
}

func (m *MockAssignmentService) ApproveAssignment(db *gorm.DB, id, actor uuid.UUID, reviewComment string) (models.Assignment, error) {
	if m.shouldReturnError != nil {
		return models.Assignment{}, m.shouldReturnError
	}
	return models.Assignment{ID: id, Status: models.StatusCompleted, ReviewComment: reviewComment}, nil
}

func (m *MockAssignmentService) DeclineAssignment(db *gorm.DB, id, actor uuid.UUID, reviewComment string) (models.Assignment, error) {
	if m.shouldReturnError != nil {
		return models.Assignment{}, m.shouldReturnError
	}
	return models.Assignment{ID: id, Status: models.StatusDeclined, ReviewComment: reviewComment}, nil
}

func (m *MockAssignmentService) GetAssignmentByID(db *gorm.DB, id uuid.UUID) (models.Assignment, error) {
	if m.shouldReturnError != nil {
		return models.Assignment{}, m.shouldReturnError
	}
	return models.Assignment{ID: id, Status: models.StatusPending}, nil
}

func (m *MockAssignmentService) GetAssignmentsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Assignment, error) {
	if m.shouldReturnError != nil {
		return nil, m.shouldReturnError
	}
	return m.assignments, nil
}

type MockStorageService struct {
	shouldReturnError error
	uploadedFilename  string
}

func (m *MockStorageService) UploadProof(ctx context.Context, taskID uuid.UUID, filename string, body io.Reader) (string, error) {
	if m.shouldReturnError != nil {
		return "", m.shouldReturnError
	}
	m.uploadedFilename = filename
	return "http://storage/task-proofs/" + taskID.String() + "/" + filename, nil
}

func (m *MockStorageService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, body io.Reader) (string, error) {
	if m.shouldReturnError != nil {
		return "", m.shouldReturnError
	}
	return "http://storage/profile-pictures/" + userID.String() + "/" + filename, nil
}

func setupAssignmentHandler() (*MockAssignmentService, *MockStorageService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockAssignmentService{}
	mockStorage := &MockStorageService{}
	handler := handlers.NewAssignmentHandler(nil, mockService, mockStorage)
	router := gin.New()

	// Mock authentication middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.Must(uuid.NewV4()))
		c.Next()
	})

	router.POST("/assignments", handler.CreateAssignment)
	router.GET("/assignments", handler.GetAssignments)
	router.GET("/assignments/:id", handler.GetAssignmentByID)
	router.POST("/assignments/:id/submit", handler.SubmitAssignment)
	router.POST("/assignments/:id/approve", handler.ApproveAssignment)
	router.POST("/assignments/:id/decline", handler.DeclineAssignment)

	return mockService, mockStorage, router
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write([]byte("fake image bytes"))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestCreateAssignment(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	payload := map[string]string{
		"task_description": "Wash the dishes",
		"difficulty":       "medium",
		"assigned_to":      uuid.Must(uuid.NewV4()).String(),
	}
	payloadJSON, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer(payloadJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var created models.Assignment
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if created.Points != 50 {
		t.Errorf("Expected 50 points for medium, got %d", created.Points)
	}
}

func TestCreateAssignmentInvalidDifficulty(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	payload := map[string]string{
		"task_description": "Wash the dishes",
		"difficulty":       "impossible",
		"assigned_to":      uuid.Must(uuid.NewV4()).String(),
	}
	payloadJSON, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer(payloadJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateAssignmentSelfAssignment(t *testing.T) {
	mockService, _, router := setupAssignmentHandler()
	mockService.shouldReturnError = services.ErrSelfAssignment

	payload := map[string]string{
		"task_description": "Wash the dishes",
		"difficulty":       "easy",
		"assigned_to":      uuid.Must(uuid.NewV4()).String(),
	}
	payloadJSON, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/assignments", bytes.NewBuffer(payloadJSON))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetAssignments(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	req, _ := http.NewRequest("GET", "/assignments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestGetAssignmentByIDInvalidUUID(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	req, _ := http.NewRequest("GET", "/assignments/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetAssignmentByIDNotFound(t *testing.T) {
	mockService, _, router := setupAssignmentHandler()
	mockService.shouldReturnError = gorm.ErrRecordNotFound

	req, _ := http.NewRequest("GET", "/assignments/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestSubmitAssignmentWithProof(t *testing.T) {
	mockService, mockStorage, router := setupAssignmentHandler()

	body, contentType := multipartBody(t, map[string]string{
		"comment": "all done",
	}, "proof", "proof.jpg")

	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/submit", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if mockStorage.uploadedFilename != "proof.jpg" {
		t.Errorf("Expected proof.jpg to be uploaded, got %q", mockStorage.uploadedFilename)
	}
	if mockService.lastSubmission.ProofURL == "" {
		t.Error("Expected the uploaded proof URL to reach the service")
	}
	if mockService.lastSubmission.Comment != "all done" {
		t.Errorf("Expected comment to pass through, got %q", mockService.lastSubmission.Comment)
	}
}

func TestSubmitAssignmentWithoutProof(t *testing.T) {
	mockService, _, router := setupAssignmentHandler()

	body, contentType := multipartBody(t, map[string]string{
		"comment":             "no photo",
		"resubmission_reason": "camera broke",
	}, "", "")

	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/submit", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if mockService.lastSubmission.ProofURL != "" {
		t.Errorf("Expected no proof URL, got %q", mockService.lastSubmission.ProofURL)
	}
	if mockService.lastSubmission.ResubmissionReason != "camera broke" {
		t.Errorf("Expected resubmission reason to pass through, got %q", mockService.lastSubmission.ResubmissionReason)
	}
}

func TestSubmitAssignmentStorageFailure(t *testing.T) {
	mockService, mockStorage, router := setupAssignmentHandler()
	mockStorage.shouldReturnError = errors.New("bucket unavailable")

	body, contentType := multipartBody(t, nil, "proof", "proof.jpg")

	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/submit", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status %d, got %d", http.StatusBadGateway, w.Code)
	}
	if mockService.lastSubmission.ProofURL != "" || mockService.lastSubmission.Comment != "" {
		t.Error("Expected no submission to reach the service after a failed upload")
	}
}

func TestSubmitAssignmentInvalidState(t *testing.T) {
	mockService, _, router := setupAssignmentHandler()
	mockService.shouldReturnError = services.ErrInvalidTransition

	body, contentType := multipartBody(t, nil, "", "")

	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/submit", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestApproveAssignment(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	payload, _ := json.Marshal(map[string]string{"review_comment": "well done"})
	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/approve", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var approved models.Assignment
	if err := json.Unmarshal(w.Body.Bytes(), &approved); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if approved.Status != models.StatusCompleted {
		t.Errorf("Expected completed status, got %q", approved.Status)
	}
	if approved.ReviewComment != "well done" {
		t.Errorf("Expected review comment to pass through, got %q", approved.ReviewComment)
	}
}

func TestApproveAssignmentEmptyBody(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/approve", bytes.NewBuffer(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d for an empty body, got %d", http.StatusOK, w.Code)
	}
}

func TestApproveAssignmentNotReviewer(t *testing.T) {
	mockService, _, router := setupAssignmentHandler()
	mockService.shouldReturnError = services.ErrNotReviewer

	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/approve", bytes.NewBuffer(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestDeclineAssignment(t *testing.T) {
	_, _, router := setupAssignmentHandler()

	payload, _ := json.Marshal(map[string]string{"review_comment": "try again"})
	id := uuid.Must(uuid.NewV4()).String()
	req, _ := http.NewRequest("POST", "/assignments/"+id+"/decline", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var declined models.Assignment
	if err := json.Unmarshal(w.Body.Bytes(), &declined); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if declined.Status != models.StatusDeclined {
		t.Errorf("Expected declined status, got %q", declined.Status)
	}
}

func TestAssignmentEndpointsRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewAssignmentHandler(nil, &MockAssignmentService{}, &MockStorageService{})
	router := gin.New()
	router.GET("/assignments", handler.GetAssignments)

	req, _ := http.NewRequest("GET", "/assignments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
