package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlluizdevtech/linkhub/internal/auth"
	"github.com/mlluizdevtech/linkhub/internal/links"
)

// linksAPIHandler provides REST handlers for the caller's links. The owner
// id always comes from the authenticated principal.
type linksAPIHandler struct {
	svc  *links.Service
	errs errorWriter
}

// owner returns the principal id, or writes a 401 and returns false.
func (h *linksAPIHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.errs.write(w, r, auth.ErrMissingToken)
		return "", false
	}
	return p.ID, true
}

// List returns the caller's links in creation order.
// GET /links
//
// @Summary      List links
// @Tags         Links
// @Produce      json
// @Success      200  {object}  LinkListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links [get]
func (h *linksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	ls, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkListResponse{Links: toLinkResponses(ls)})
}

// Create adds a link owned by the caller.
// POST /links
//
// @Summary      Create a link
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        body  body      LinkRequest  true  "Link to create"
// @Success      201   {object}  LinkEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links [post]
func (h *linksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req LinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	l, err := h.svc.Create(r.Context(), ownerID, req.Title, req.URL)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, LinkEnvelope{Link: toLinkResponse(l)})
}

// Get returns one of the caller's links.
// GET /links/{id}
//
// @Summary      Get a link
// @Tags         Links
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  LinkEnvelope
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/{id} [get]
func (h *linksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	l, err := h.svc.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkEnvelope{Link: toLinkResponse(l)})
}

// Update replaces the title and URL of one of the caller's links. Both
// fields are required.
// PUT /links/{id}
//
// @Summary      Update a link
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Link ID"
// @Param        body  body      LinkRequest  true  "New title and URL"
// @Success      200   {object}  LinkMessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/{id} [put]
func (h *linksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req LinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	l, err := h.svc.Update(r.Context(), ownerID, chi.URLParam(r, "id"), req.Title, req.URL)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkMessageResponse{Message: "link updated", Link: toLinkResponse(l)})
}

// Delete removes one of the caller's links.
// DELETE /links/{id}
//
// @Summary      Delete a link
// @Tags         Links
// @Produce      json
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  LinkMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/{id} [delete]
func (h *linksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	l, err := h.svc.Delete(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkMessageResponse{Message: "link deleted", Link: toLinkResponse(l)})
}

// Backup exports the caller's links as title/url pairs.
// GET /links/backup
//
// @Summary      Back up links
// @Tags         Links
// @Produce      json
// @Success      200  {object}  BackupResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/backup [get]
func (h *linksAPIHandler) Backup(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	entries, err := h.svc.Export(r.Context(), ownerID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BackupResponse{Links: fromEntries(entries)})
}

// Restore imports title/url pairs. Invalid entries are skipped.
// POST /links/restore
//
// @Summary      Restore links
// @Description  Imports up to 1000 links. Entries that fail validation are dropped; the response counts the ones inserted.
// @Tags         Links
// @Accept       json
// @Produce      json
// @Param        body  body      RestoreRequest  true  "Links to import"
// @Success      201   {object}  RestoreResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /links/restore [post]
func (h *linksAPIHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req RestoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}
	created, err := h.svc.Import(r.Context(), ownerID, toEntries(req.Links))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RestoreResponse{
		Message: "links restored",
		Count:   len(created),
		Links:   toLinkResponses(created),
	})
}
