package handler

import "net/http"

// NoteRequest is the body of PUT and PATCH /notes/{date}.
type NoteRequest struct {
	Content string `json:"content"`
}

// GetNote handles GET /notes/{date}. A date without a note returns empty content.
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	d, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	n, err := s.svc.Notes.Get(r.Context(), d)
	if err != nil {
		s.fail(w, r, msgLoadNote, "note", err)
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(n))
}

// SaveNote handles PUT /notes/{date}: an immediate, last-writer-wins save.
func (s *Server) SaveNote(w http.ResponseWriter, r *http.Request) {
	d, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}
	var body NoteRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	n, err := s.svc.Notes.Save(r.Context(), d, body.Content, agent)
	if err != nil {
		s.fail(w, r, msgSaveNote, "note", err)
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(n))
}

// DraftNote handles PATCH /notes/{date}: keystroke-level edits. Only the last
// text within the autosave pause is written, so the response is 202.
func (s *Server) DraftNote(w http.ResponseWriter, r *http.Request) {
	d, ok := s.pathDate(w, r)
	if !ok {
		return
	}
	agent, ok := requireAgent(w, r)
	if !ok {
		return
	}
	var body NoteRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	s.svc.Drafts.Edit(d, body.Content, agent)
	w.WriteHeader(http.StatusAccepted)
}
