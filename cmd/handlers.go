package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskmanager/internal/accounts"
	"taskmanager/internal/mailer"
	"taskmanager/internal/registration"
	"taskmanager/internal/resettoken"
	"taskmanager/internal/tasks"
)

// server wires the HTTP endpoints to the core components. Each endpoint maps
// to exactly one component method.
type server struct {
	accounts accounts.Store
	flow     *registration.Flow
	reset    *resettoken.Service
	engine   *tasks.Engine
	catalog  *tasks.Catalog
}

func (s *server) routes(router *mux.Router) {
	router.HandleFunc("/api/register", s.registerHandler).Methods("POST")
	router.HandleFunc("/api/register/confirm", s.confirmHandler).Methods("POST")
	router.HandleFunc("/api/login", s.loginHandler).Methods("POST")
	router.HandleFunc("/api/forgot", s.forgotPasswordHandler).Methods("POST")
	router.HandleFunc("/api/reset", s.resetPasswordHandler).Methods("POST")

	router.HandleFunc("/api/tasks", s.addTaskHandler).Methods("POST")
	router.HandleFunc("/api/tasks/reorder", s.reorderHandler).Methods("POST")
	router.HandleFunc("/api/tasks/{category}", s.getTasksHandler).Methods("GET")
	router.HandleFunc("/api/tasks/{id}/toggle", s.toggleTaskHandler).Methods("POST")
	router.HandleFunc("/api/tasks/{id}/important", s.toggleImportantHandler).Methods("POST")
	router.HandleFunc("/api/tasks/{id}/delete", s.deleteTaskHandler).Methods("POST")

	router.HandleFunc("/api/lists", s.addListHandler).Methods("POST")
	router.HandleFunc("/api/lists", s.getListsHandler).Methods("GET")
	router.HandleFunc("/api/lists/delete", s.deleteListHandler).Methods("POST")
}

// writeJSONError is a helper that writes an error response in JSON.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	writeJSONError(w, status, message)
}

// errorStatus maps each outcome kind to a stable status and message.
func errorStatus(err error) (int, string) {
	var delivery *mailer.DeliveryError
	switch {
	case errors.Is(err, registration.ErrValidation),
		errors.Is(err, resettoken.ErrValidation),
		errors.Is(err, tasks.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, registration.ErrCodeMismatch):
		return http.StatusUnauthorized, "Incorrect OTP! Please try again."
	case errors.Is(err, registration.ErrExpired):
		return http.StatusGone, "OTP has expired! Please request a new one."
	case errors.Is(err, registration.ErrNotFound):
		return http.StatusNotFound, "Session expired or invalid data. Please start over."
	case errors.Is(err, accounts.ErrEmailTaken):
		return http.StatusConflict, "Email already registered!"
	case errors.Is(err, accounts.ErrBadCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, accounts.ErrNotFound):
		return http.StatusNotFound, "No account found with that email!"
	case errors.Is(err, resettoken.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid or expired reset link!"
	case errors.Is(err, tasks.ErrNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, tasks.ErrListNotFound):
		return http.StatusNotFound, "List not found"
	case errors.Is(err, tasks.ErrDuplicateList):
		return http.StatusConflict, "List already exists"
	case errors.As(err, &delivery):
		return http.StatusBadGateway, "Failed to send email. Please try again."
	}
	return http.StatusInternalServerError, err.Error()
}

// registrationSession identifies the caller's in-flight registration. The
// pending registration is keyed by this cookie, not by any account.
func registrationSession(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("register_session"); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "register_session",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// requireUser returns the owner id established by the fronting auth layer.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		writeJSONError(w, http.StatusUnauthorized, "Not logged in")
		return "", false
	}
	return id, true
}

func taskIDVar(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	session := registrationSession(w, r)
	if err := s.flow.Register(r.Context(), session, req.Username, req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("OTP sent to %s", req.Email),
	})
}

func (s *server) confirmHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OTP string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	session := registrationSession(w, r)
	if err := s.flow.Confirm(r.Context(), session, req.OTP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"message": "Registration successful! Please log in.",
	})
}

func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "All fields are required!")
		return
	}
	user, err := accounts.Authenticate(r.Context(), s.accounts, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	// Session issuance is the fronting auth layer's job; the caller gets the
	// account to build one from.
	writeJSON(w, user)
}

func (s *server) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.reset.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"message": fmt.Sprintf("Sent a password reset link to %s", req.Email),
	})
}

func (s *server) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.reset.Reset(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"message": "Password reset successful! You can now log in.",
	})
}

func (s *server) addTaskHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		DueDate  string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	var due *time.Time
	if req.DueDate != "" {
		d, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		due = &d
	}
	task, err := s.engine.Add(r.Context(), owner, req.Title, req.Category, due)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, task)
}

func (s *server) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := s.engine.List(r.Context(), owner, mux.Vars(r)["category"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (s *server) toggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := taskIDVar(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	task, err := s.engine.ToggleCompleted(r.Context(), owner, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, task)
}

func (s *server) toggleImportantHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := taskIDVar(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	task, err := s.engine.ToggleImportant(r.Context(), owner, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, task)
}

func (s *server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := taskIDVar(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	if err := s.engine.Delete(r.Context(), owner, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Task deleted successfully"})
}

func (s *server) reorderHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		TaskOrder []string `json:"task_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	order := make([]primitive.ObjectID, 0, len(req.TaskOrder))
	for _, raw := range req.TaskOrder {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid task id")
			return
		}
		order = append(order, id)
	}
	if err := s.engine.Reorder(r.Context(), owner, order); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Task order updated successfully"})
}

func (s *server) addListHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		ListName string `json:"list_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.catalog.Create(r.Context(), owner, req.ListName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Custom list added successfully"})
}

func (s *server) getListsHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	names, err := s.catalog.Names(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, names)
}

func (s *server) deleteListHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		ListName string `json:"list_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.catalog.Delete(r.Context(), owner, req.ListName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Custom list and all its tasks deleted"})
}
