package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"registration-service/internal/domain"
	"registration-service/internal/logger"
	"registration-service/internal/service"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 64 << 10

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type submitRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Message  string `json:"message"`
}

type reviewRequest struct {
	Status string `json:"status"`
}

type registrationRequestResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Fullname    string `json:"fullname"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	CreatedDate int64  `json:"created_date"`
}

type listResponse struct {
	Requests []registrationRequestResponse `json:"requests"`
}

// Submit handles POST /registration-request. Accepts a form or a JSON body.
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in submitRequest
	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, r, fmt.Errorf("%w: malformed form body", domain.ErrValidation))
			return
		}
		in = submitRequest{
			Email:    r.PostFormValue("email"),
			Fullname: r.PostFormValue("fullname"),
			Message:  r.PostFormValue("message"),
		}
	}

	if _, err := h.svc.SubmitRequest(r.Context(), in.Email, in.Fullname, in.Message); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// List handles GET /registration-request. With ?email= it returns only the
// latest request for that address.
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		req, err := h.svc.LatestRequestForEmail(r.Context(), email)
		if errors.Is(err, domain.ErrUnknownRequest) {
			writeJSON(w, http.StatusOK, listResponse{Requests: []registrationRequestResponse{}})
			return
		}
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Requests: []registrationRequestResponse{toResponse(*req)}})
		return
	}

	reqs, err := h.svc.ListRequests(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := listResponse{Requests: make([]registrationRequestResponse, 0, len(reqs))}
	for _, req := range reqs {
		out.Requests = append(out.Requests, toResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /registration-request/{id}.
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.GetRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(*req))
}

// Review handles PUT /registration-request/{id}.
func (h *RegistrationHandler) Review(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in reviewRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	status, err := domain.ParseRequestStatus(in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reviewer := ""
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		reviewer = claims.Username
	}

	switch status {
	case domain.RequestStatusAccepted:
		password, err := h.svc.AcceptRequest(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		logger.InfoContext(r.Context(), "Registration request accepted", "request_id", id, "reviewer", reviewer)
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Password: password})
	case domain.RequestStatusRejected:
		if err := h.svc.RejectRequest(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		logger.InfoContext(r.Context(), "Registration request rejected", "request_id", id, "reviewer", reviewer)
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	default:
		writeError(w, r, fmt.Errorf("%w: status must be accepted or rejected", domain.ErrValidation))
	}
}

func toResponse(req domain.RegistrationRequest) registrationRequestResponse {
	return registrationRequestResponse{
		ID:          req.ID,
		Email:       req.Email,
		Fullname:    req.Fullname,
		Message:     req.Message,
		Status:      string(req.Status),
		CreatedDate: req.CreatedDate.UnixMilli(),
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
		}
		return fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	return nil
}
