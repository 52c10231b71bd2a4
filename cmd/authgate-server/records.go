package main

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mvickers07/authgate"
)

// recordHandlers serves the intelligence-record CRUD the platform demo is
// built around. Every route is gated through the auth service: all roles
// read, analysts and admins create, only admins delete.
type recordHandlers struct {
	db   *sql.DB
	auth *authHandlers
	log  *logrus.Logger
}

const recordSchema = `
CREATE TABLE IF NOT EXISTS cyber_incidents (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	severity    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'open',
	description TEXT NOT NULL DEFAULT '',
	detected_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS datasets_metadata (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	source       TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0,
	updated_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS it_tickets (
	id         TEXT PRIMARY KEY,
	subject    TEXT NOT NULL,
	priority   TEXT NOT NULL DEFAULT 'medium',
	status     TEXT NOT NULL DEFAULT 'open',
	opened_by  TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

func (h *recordHandlers) migrate() error {
	_, err := h.db.Exec(recordSchema)
	return err
}

func (h *recordHandlers) registerRoutes(r *mux.Router) {
	r.HandleFunc("/api/incidents", h.listIncidents).Methods("GET")
	r.HandleFunc("/api/incidents", h.createIncident).Methods("POST")
	r.HandleFunc("/api/incidents/{id}", h.deleteIncident).Methods("DELETE")

	r.HandleFunc("/api/datasets", h.listDatasets).Methods("GET")
	r.HandleFunc("/api/datasets", h.createDataset).Methods("POST")
	r.HandleFunc("/api/datasets/{id}", h.deleteDataset).Methods("DELETE")

	r.HandleFunc("/api/tickets", h.listTickets).Methods("GET")
	r.HandleFunc("/api/tickets", h.createTicket).Methods("POST")
	r.HandleFunc("/api/tickets/{id}", h.deleteTicket).Methods("DELETE")
}

type incident struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	DetectedAt  time.Time `json:"detected_at"`
}

func (h *recordHandlers) listIncidents(w http.ResponseWriter, r *http.Request) {
	if !h.auth.requireRole(w, r, authgate.AnyRole) {
		return
	}
	rows, err := h.db.QueryContext(r.Context(),
		`SELECT id, title, severity, status, description, detected_at
		 FROM cyber_incidents ORDER BY detected_at DESC`)
	if err != nil {
		h.internalError(w, err)
		return
	}
	defer rows.Close()

	incidents := []incident{}
	for rows.Next() {
		var in incident
		if err := rows.Scan(&in.ID, &in.Title, &in.Severity, &in.Status, &in.Description, &in.DetectedAt); err != nil {
			h.internalError(w, err)
			return
		}
		incidents = append(incidents, in)
	}
	if err := rows.Err(); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, incidents)
}

func (h *recordHandlers) createIncident(w http.ResponseWriter, r *http.Request) {
	if !h.auth.requireRole(w, r, authgate.AnalystOrAdmin) {
		return
	}
	var req struct {
		Title       string `json:"title"`
		Severity    string `json:"severity"`
		Description string `json:"description"`
	}
	if !parseJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.Severity == "" {
		writeError(w, http.StatusBadRequest, errors.New("title and severity are required"))
		return
	}

	in := incident{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Severity:    req.Severity,
		Status:      "open",
		Description: req.Description,
		DetectedAt:  time.Now().UTC(),
	}
	_, err := h.db.ExecContext(r.Context(),
		`INSERT INTO cyber_incidents (id, title, severity, status, description, detected_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Severity, in.Status, in.Description, in.DetectedAt)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (h *recordHandlers) deleteIncident(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "cyber_incidents")
}

type dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	RecordCount int64     `json:"record_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *recordHandlers) listDatasets(w http.ResponseWriter, r *http.Request) {
	if !h.auth.requireRole(w, r, authgate.AnyRole) {
		return
	}
	rows, err := h.db.QueryContext(r.Context(),
		`SELECT id, name, source, record_count, updated_at
		 FROM datasets_metadata ORDER BY updated_at DESC`)
	if err != nil {
		h.internalError(w, err)
		return
	}
	defer rows.Close()

	datasets := []dataset{}
	for rows.Next() {
		var d dataset
		if err := rows.Scan(&d.ID, &d.Name, &d.Source, &d.RecordCount, &d.UpdatedAt); err != nil {
			h.internalError(w, err)
			return
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, datasets)
}

func (h *recordHandlers) createDataset(w http.ResponseWriter, r *http.Request) {
	if !h.auth.requireRole(w, r, authgate.AnalystOrAdmin) {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Source      string `json:"source"`
		RecordCount int64  `json:"record_count"`
	}
	if !parseJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Source == "" {
		writeError(w, http.StatusBadRequest, errors.New("name and source are required"))
		return
	}

	d := dataset{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Source:      req.Source,
		RecordCount: req.RecordCount,
		UpdatedAt:   time.Now().UTC(),
	}
	_, err := h.db.ExecContext(r.Context(),
		`INSERT INTO datasets_metadata (id, name, source, record_count, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Source, d.RecordCount, d.UpdatedAt)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *recordHandlers) deleteDataset(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "datasets_metadata")
}

type ticket struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	OpenedBy  string    `json:"opened_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *recordHandlers) listTickets(w http.ResponseWriter, r *http.Request) {
	if !h.auth.requireRole(w, r, authgate.AnyRole) {
		return
	}
	rows, err := h.db.QueryContext(r.Context(),
		`SELECT id, subject, priority, status, opened_by, created_at
		 FROM it_tickets ORDER BY created_at DESC`)
	if err != nil {
		h.internalError(w, err)
		return
	}
	defer rows.Close()

	tickets := []ticket{}
	for rows.Next() {
		var t ticket
		if err := rows.Scan(&t.ID, &t.Subject, &t.Priority, &t.Status, &t.OpenedBy, &t.CreatedAt); err != nil {
			h.internalError(w, err)
			return
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *recordHandlers) createTicket(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
		return
	}
	// Any authenticated user can open a ticket; the opener is taken from
	// the session, not the request body.
	id, err := h.auth.svc.Authorize(r.Context(), token, authgate.AnyRole)
	if err != nil {
		h.auth.writeAuthError(w, err)
		return
	}

	var req struct {
		Subject  string `json:"subject"`
		Priority string `json:"priority"`
	}
	if !parseJSON(w, r, &req) {
		return
	}
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, errors.New("subject is required"))
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}

	t := ticket{
		ID:        uuid.NewString(),
		Subject:   req.Subject,
		Priority:  req.Priority,
		Status:    "open",
		OpenedBy:  id.Username,
		CreatedAt: time.Now().UTC(),
	}
	_, err = h.db.ExecContext(r.Context(),
		`INSERT INTO it_tickets (id, subject, priority, status, opened_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Subject, t.Priority, t.Status, t.OpenedBy, t.CreatedAt)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *recordHandlers) deleteTicket(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, "it_tickets")
}

func (h *recordHandlers) deleteByID(w http.ResponseWriter, r *http.Request, table string) {
	if !h.auth.requireRole(w, r, authgate.AdminOnly) {
		return
	}
	id := mux.Vars(r)["id"]

	res, err := h.db.ExecContext(r.Context(), `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		h.internalError(w, err)
		return
	}
	n, err := res.RowsAffected()
	if err != nil {
		h.internalError(w, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, errors.New("record not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *recordHandlers) internalError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("record store error")
	writeError(w, http.StatusInternalServerError, errors.New("internal error"))
}
