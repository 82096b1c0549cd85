package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ImportRequest carries a workshop document to import
// @Description Workshop document import request
type ImportRequest struct {
	// Text is the transcribed workshop document
	Text string `json:"text" example:"step 1\nCosa faccio: Controllo le fatture"`

	// Name optionally overrides the process name declared in the document
	Name string `json:"name,omitempty" example:"Fatturazione"`
}

// ImportResponse summarizes a completed import
// @Description Import result summary
type ImportResponse struct {
	Process       *domain.Process `json:"process"`
	StepCount     int             `json:"step_count" example:"4"`
	SkippedBlocks int             `json:"skipped_blocks" example:"1"`
}

// TaskResponse reports the status of a background import
// @Description Background task status
type TaskResponse struct {
	TaskID    string `json:"task_id"`
	Status    string `json:"status" example:"pending"`
	Error     string `json:"error,omitempty"`
	ProcessID string `json:"process_id,omitempty"`
}

// SetupRequest creates the initial admin account
// @Description Initial admin account details
type SetupRequest struct {
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"s3cure-password"`
	Name     string `json:"name" example:"Admin"`
}

// PreviewRequest carries a document for stateless diagram rendering
// @Description Diagram preview request
type PreviewRequest struct {
	Text string `json:"text"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and cache connections)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backend is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      User login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials or account disabled"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case domain.ErrUnauthorized:
			writeError(w, http.StatusUnauthorized, "account disabled")
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "email and password are required")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogout godoc
// @Summary      Logout user
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token != "" {
		_ = s.authService.Logout(r.Context(), token)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSetup godoc
// @Summary      Initial setup
// @Description  Create the initial admin user. This endpoint can only be called once when no users exist.
// @Tags         Setup
// @Accept       json
// @Produce      json
// @Param        request  body      SetupRequest  true  "Admin user details"
// @Success      201      {object}  domain.UserSummary
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      403      {object}  ErrorResponse  "Setup already complete"
// @Failure      500      {object}  ErrorResponse  "Setup failed"
// @Router       /setup [post]
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := s.authService.Setup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			writeError(w, http.StatusBadRequest, "valid email and a password of at least 8 characters are required")
		case domain.ErrAlreadyExists:
			writeError(w, http.StatusForbidden, "setup already complete")
		default:
			writeError(w, http.StatusInternalServerError, "setup failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// Import endpoints

// handleImport godoc
// @Summary      Import a workshop document
// @Description  Parse a transcribed workshop document into step records and store them as a new process
// @Tags         Import
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ImportRequest  true  "Document to import"
// @Success      201      {object}  ImportResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      422      {object}  ErrorResponse  "No step markers or no valid steps in document"
// @Failure      500      {object}  ErrorResponse  "Import failed"
// @Router       /processes/import [post]
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := s.importService.ImportText(r.Context(), authCtx.UserID, req.Text, req.Name)
	if err != nil {
		writeImportError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ImportResponse{
		Process:       result.Process,
		StepCount:     len(result.Steps),
		SkippedBlocks: result.SkippedBlocks,
	})
}

// handleImportAsync godoc
// @Summary      Import a workshop document in the background
// @Description  Enqueue the document for background import and return a task id for status polling
// @Tags         Import
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ImportRequest  true  "Document to import"
// @Success      202      {object}  TaskResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      500      {object}  ErrorResponse  "Enqueue failed"
// @Router       /processes/import/async [post]
func (s *Server) handleImportAsync(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task, err := s.importService.EnqueueImport(r.Context(), authCtx.UserID, req.Text, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to enqueue import")
		return
	}

	writeJSON(w, http.StatusAccepted, taskResponse(task))
}

// handleGetTask godoc
// @Summary      Get task status
// @Description  Returns the status of a background import task
// @Tags         Import
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Router       /tasks/{id} [get]
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.importService.GetTask(r.Context(), r.PathValue("id"))
	if err != nil || task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, taskResponse(task))
}

// Process endpoints

// handleListProcesses godoc
// @Summary      List processes
// @Description  Returns stored processes, most recently updated first
// @Tags         Processes
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Maximum results (default 50)"
// @Param        offset  query     int  false  "Results to skip"
// @Success      200     {array}   domain.Process
// @Failure      500     {object}  ErrorResponse  "Internal server error"
// @Router       /processes [get]
func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	processes, err := s.processService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list processes")
		return
	}
	if processes == nil {
		processes = []*domain.Process{}
	}
	writeJSON(w, http.StatusOK, processes)
}

// handleGetProcess godoc
// @Summary      Get a process
// @Description  Returns a process with its steps in document order
// @Tags         Processes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {object}  domain.ProcessWithSteps
// @Failure      404  {object}  ErrorResponse  "Process not found"
// @Router       /processes/{id} [get]
func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	result, err := s.processService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "process not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get process")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDeleteProcess godoc
// @Summary      Delete a process
// @Description  Removes a process, its steps and any cached diagram (admin only)
// @Tags         Processes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {object}  StatusResponse
// @Failure      403  {object}  ErrorResponse  "Admin access required"
// @Failure      404  {object}  ErrorResponse  "Process not found"
// @Router       /processes/{id} [delete]
func (s *Server) handleDeleteProcess(w http.ResponseWriter, r *http.Request) {
	err := s.processService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "process not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete process")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGetProcessSteps godoc
// @Summary      Get process steps
// @Description  Returns the step records of a process in document order
// @Tags         Processes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {array}   domain.ProcessStep
// @Failure      404  {object}  ErrorResponse  "Process not found"
// @Router       /processes/{id}/steps [get]
func (s *Server) handleGetProcessSteps(w http.ResponseWriter, r *http.Request) {
	result, err := s.processService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "process not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get process steps")
		return
	}
	steps := result.Steps
	if steps == nil {
		steps = []*domain.ProcessStep{}
	}
	writeJSON(w, http.StatusOK, steps)
}

// Diagram endpoints

// handleDownloadDiagram godoc
// @Summary      Download BPMN diagram
// @Description  Compiles the stored process into a BPMN 2.0 document, served as an attachment
// @Tags         Diagrams
// @Produce      xml
// @Security     BearerAuth
// @Param        id   path      string  true  "Process ID"
// @Success      200  {string}  string  "BPMN 2.0 XML"
// @Failure      404  {object}  ErrorResponse  "Process not found"
// @Router       /processes/{id}/diagram [get]
func (s *Server) handleDownloadDiagram(w http.ResponseWriter, r *http.Request) {
	processID := r.PathValue("id")

	result, err := s.processService.Get(r.Context(), processID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "process not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get process")
		return
	}

	xml, err := s.diagramService.Export(r.Context(), processID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compile diagram")
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.bpmn"`, diagramFilename(result.Process.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml))
}

// handlePreviewDiagram godoc
// @Summary      Preview a diagram
// @Description  Compiles a document text into BPMN 2.0 XML without persisting anything
// @Tags         Diagrams
// @Accept       json
// @Produce      xml
// @Security     BearerAuth
// @Param        request  body      PreviewRequest  true  "Document to render"
// @Success      200      {string}  string  "BPMN 2.0 XML"
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      422      {object}  ErrorResponse  "No step markers or no valid steps in document"
// @Router       /diagram/preview [post]
func (s *Server) handlePreviewDiagram(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	xml, err := s.diagramService.Preview(r.Context(), req.Text)
	if err != nil {
		writeImportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml))
}

// Helpers

// writeImportError maps the parse failure taxonomy onto status codes:
// structurally unusable documents are 422, bad requests 400.
func writeImportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoStepsFound):
		writeError(w, http.StatusUnprocessableEntity, "no step markers found in document")
	case errors.Is(err, domain.ErrEmptyImport):
		writeError(w, http.StatusUnprocessableEntity, "no valid steps extracted from document")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "text is required")
	default:
		writeError(w, http.StatusInternalServerError, "import failed")
	}
}

func taskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		Error:     task.Error,
		ProcessID: task.ProcessID,
	}
}

// diagramFilename derives a safe attachment filename from the process
// name. Quotes and path separators would break the header or the saved
// file, so everything outside a conservative alphabet is dropped.
func diagramFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == ' ':
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "process"
	}
	return strings.ReplaceAll(out, " ", "_")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
