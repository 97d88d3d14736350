package handler

import (
	"net/http"
	"time"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
	"github.com/DPR2204/atiexg-sub001/internal/repo"
)

// Boat is the wire form of a domain.Boat.
type Boat struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Capacity  int               `json:"capacity"`
	Status    domain.BoatStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// BoatRequest is the body of POST /boats and PUT /boats/{id}.
type BoatRequest struct {
	Name     string            `json:"name"`
	Capacity int               `json:"capacity"`
	Status   domain.BoatStatus `json:"status"`
}

// Staff is the wire form of a domain.Staff.
type Staff struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Role      domain.StaffRole `json:"role"`
	Phone     string           `json:"phone,omitempty"`
	Active    bool             `json:"active"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// StaffRequest is the body of POST /staff and PUT /staff/{id}.
type StaffRequest struct {
	Name   string           `json:"name"`
	Role   domain.StaffRole `json:"role"`
	Phone  string           `json:"phone"`
	Active *bool            `json:"active"`
	Notes  string           `json:"notes"`
}

// Supplier is the wire form of a domain.Supplier.
type Supplier struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Category  domain.SupplierCategory `json:"category"`
	Phone     string                  `json:"phone,omitempty"`
	Email     string                  `json:"email,omitempty"`
	Website   string                  `json:"website,omitempty"`
	Instagram string                  `json:"instagram,omitempty"`
	Notes     string                  `json:"notes,omitempty"`
	Active    bool                    `json:"active"`
	CreatedAt time.Time               `json:"created_at"`
}

// SupplierRequest is the body of POST /suppliers and PUT /suppliers/{id}.
type SupplierRequest struct {
	Name      string                  `json:"name"`
	Category  domain.SupplierCategory `json:"category"`
	Phone     string                  `json:"phone"`
	Email     string                  `json:"email"`
	Website   string                  `json:"website"`
	Instagram string                  `json:"instagram"`
	Notes     string                  `json:"notes"`
	Active    *bool                   `json:"active"`
}

// SupplierPage is returned by GET /suppliers.
type SupplierPage struct {
	Data       []Supplier `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// --- boats ------------------------------------------------------------------

// ListBoats handles GET /boats. ?status= narrows the list.
func (s *Server) ListBoats(w http.ResponseWriter, r *http.Request) {
	boats, err := s.svc.Boats.List(r.Context(), domain.BoatStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.fail(w, r, msgLoadBoats, "boat", err)
		return
	}
	data := make([]Boat, len(boats))
	for i, b := range boats {
		data[i] = boatToResponse(b)
	}
	writeJSON(w, http.StatusOK, data)
}

// CreateBoat handles POST /boats.
func (s *Server) CreateBoat(w http.ResponseWriter, r *http.Request) {
	var body BoatRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	created, err := s.svc.Boats.Create(r.Context(), domain.Boat{Name: body.Name, Capacity: body.Capacity, Status: body.Status})
	if err != nil {
		s.fail(w, r, msgSaveBoat, "boat", err)
		return
	}
	writeJSON(w, http.StatusCreated, boatToResponse(created))
}

// GetBoat handles GET /boats/{id}.
func (s *Server) GetBoat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := s.svc.Boats.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, msgLoadBoats, "boat", err)
		return
	}
	writeJSON(w, http.StatusOK, boatToResponse(b))
}

// UpdateBoat handles PUT /boats/{id}.
func (s *Server) UpdateBoat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body BoatRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.svc.Boats.Update(r.Context(), domain.Boat{ID: id, Name: body.Name, Capacity: body.Capacity, Status: body.Status})
	if err != nil {
		s.fail(w, r, msgSaveBoat, "boat", err)
		return
	}
	writeJSON(w, http.StatusOK, boatToResponse(updated))
}

// DeleteBoat handles DELETE /boats/{id}.
func (s *Server) DeleteBoat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Boats.Delete(r.Context(), id); err != nil {
		s.fail(w, r, msgSaveBoat, "boat", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- staff ------------------------------------------------------------------

// ListStaff handles GET /staff. Supports ?role= and ?active_only=.
func (s *Server) ListStaff(w http.ResponseWriter, r *http.Request) {
	activeOnly, ok := queryBool(w, r, "active_only")
	if !ok {
		return
	}
	f := repo.StaffFilter{Role: domain.StaffRole(r.URL.Query().Get("role")), ActiveOnly: activeOnly}
	staff, err := s.svc.Staff.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, msgLoadStaff, "staff", err)
		return
	}
	data := make([]Staff, len(staff))
	for i, st := range staff {
		data[i] = staffToResponse(st)
	}
	writeJSON(w, http.StatusOK, data)
}

// CreateStaff handles POST /staff.
func (s *Server) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var body StaffRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	created, err := s.svc.Staff.Create(r.Context(), requestToStaff(0, body))
	if err != nil {
		s.fail(w, r, msgSaveStaff, "staff member", err)
		return
	}
	writeJSON(w, http.StatusCreated, staffToResponse(created))
}

// GetStaff handles GET /staff/{id}.
func (s *Server) GetStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Staff.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, msgLoadStaff, "staff member", err)
		return
	}
	writeJSON(w, http.StatusOK, staffToResponse(st))
}

// UpdateStaff handles PUT /staff/{id}.
func (s *Server) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body StaffRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.svc.Staff.Update(r.Context(), requestToStaff(id, body))
	if err != nil {
		s.fail(w, r, msgSaveStaff, "staff member", err)
		return
	}
	writeJSON(w, http.StatusOK, staffToResponse(updated))
}

// DeactivateStaff handles DELETE /staff/{id}. Staff are never hard-deleted.
func (s *Server) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Staff.Deactivate(r.Context(), id); err != nil {
		s.fail(w, r, msgSaveStaff, "staff member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- suppliers --------------------------------------------------------------

// ListSuppliers handles GET /suppliers.
// Supports ?category=, ?active_only=, ?page= and ?limit=.
func (s *Server) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	activeOnly, ok := queryBool(w, r, "active_only")
	if !ok {
		return
	}
	params, ok := pagination(w, r)
	if !ok {
		return
	}
	f := repo.SupplierFilter{Category: domain.SupplierCategory(r.URL.Query().Get("category")), ActiveOnly: activeOnly}

	suppliers, total, err := s.svc.Suppliers.ListPaged(r.Context(), f, params)
	if err != nil {
		s.fail(w, r, msgLoadSuppliers, "supplier", err)
		return
	}
	data := make([]Supplier, len(suppliers))
	for i, sp := range suppliers {
		data[i] = supplierToResponse(sp)
	}
	writeJSON(w, http.StatusOK, SupplierPage{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// CreateSupplier handles POST /suppliers.
func (s *Server) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var body SupplierRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	created, err := s.svc.Suppliers.Create(r.Context(), requestToSupplier(0, body))
	if err != nil {
		s.fail(w, r, msgSaveSupplier, "supplier", err)
		return
	}
	writeJSON(w, http.StatusCreated, supplierToResponse(created))
}

// GetSupplier handles GET /suppliers/{id}.
func (s *Server) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sp, err := s.svc.Suppliers.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, msgLoadSuppliers, "supplier", err)
		return
	}
	writeJSON(w, http.StatusOK, supplierToResponse(sp))
}

// UpdateSupplier handles PUT /suppliers/{id}.
func (s *Server) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body SupplierRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.svc.Suppliers.Update(r.Context(), requestToSupplier(id, body))
	if err != nil {
		s.fail(w, r, msgSaveSupplier, "supplier", err)
		return
	}
	writeJSON(w, http.StatusOK, supplierToResponse(updated))
}

// DeleteSupplier handles DELETE /suppliers/{id}.
func (s *Server) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Suppliers.Delete(r.Context(), id); err != nil {
		s.fail(w, r, msgSaveSupplier, "supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func boatToResponse(b domain.Boat) Boat {
	return Boat{ID: b.ID, Name: b.Name, Capacity: b.Capacity, Status: b.Status, CreatedAt: b.CreatedAt}
}

// requestToStaff builds a domain.Staff. Active defaults to true when omitted.
func requestToStaff(id int64, body StaffRequest) domain.Staff {
	active := true
	if body.Active != nil {
		active = *body.Active
	}
	return domain.Staff{ID: id, Name: body.Name, Role: body.Role, Phone: body.Phone, Active: active, Notes: body.Notes}
}

func staffToResponse(st domain.Staff) Staff {
	return Staff{
		ID:        st.ID,
		Name:      st.Name,
		Role:      st.Role,
		Phone:     st.Phone,
		Active:    st.Active,
		Notes:     st.Notes,
		CreatedAt: st.CreatedAt,
	}
}

// requestToSupplier builds a domain.Supplier. Active defaults to true when omitted.
func requestToSupplier(id int64, body SupplierRequest) domain.Supplier {
	active := true
	if body.Active != nil {
		active = *body.Active
	}
	return domain.Supplier{
		ID:        id,
		Name:      body.Name,
		Category:  body.Category,
		Phone:     body.Phone,
		Email:     body.Email,
		Website:   body.Website,
		Instagram: body.Instagram,
		Notes:     body.Notes,
		Active:    active,
	}
}

func supplierToResponse(sp domain.Supplier) Supplier {
	return Supplier(sp)
}
