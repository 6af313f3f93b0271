package book

import (
	"errors"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"bulkybook/internal/httpx"
)

const defaultMaxFormMemory = 8 << 20

type HTTPHandler struct {
	service       *Service
	maxFormMemory int64
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service, maxFormMemory: defaultMaxFormMemory}
}

// Create handles POST /books
// @Summary Create a book
// @Description Create a book from a multipart form, resolving its category by name and uploading an optional image
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Param categoryName formData string true "Category name"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param publisher formData string true "Publisher"
// @Param price formData number true "Sale price"
// @Param cost formData number true "Unit cost"
// @Param units formData int false "Units in stock" default(0)
// @Param image formData file false "Cover image"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, image, details, err := h.parseCreateForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Malformed form body", nil)
		return
	}
	if image != nil {
		defer image.Close()
	}
	if len(details) > 0 {
		var verr *ValidationError
		if errors.As(ValidateCreateRequest(req), &verr) {
			details = mergeDetails(details, toDetails(verr.Fields))
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book request", details)
		return
	}

	b, err := h.service.Create(r.Context(), req)
	outcome := OutcomeOf(err)
	if outcome != OutcomeCreated {
		log.Printf("book create outcome=%s request_id=%s title=%q publisher=%q error=%v",
			outcome, httpx.RequestIDFrom(r), req.Title, req.Publisher, err)
	}

	switch outcome {
	case OutcomeCreated:
		httpx.JSONCreated(w, r, b)
	case OutcomeValidationFailed:
		var verr *ValidationError
		errors.As(err, &verr)
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book request", toDetails(verr.Fields))
	case OutcomeAlreadyExists:
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "A book with this title and publisher already exists", nil)
	case OutcomeImageFailed:
		httpx.JSONErrorWithData(w, r, http.StatusBadGateway, "IMAGE_UPLOAD_FAILED", "Book was created but its image could not be stored", b)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// parseCreateForm reads the form into a CreateRequest. Field-level parse
// problems come back as details; err is set only for an unreadable body.
func (h *HTTPHandler) parseCreateForm(r *http.Request) (CreateRequest, multipart.File, []httpx.ErrorDetail, error) {
	var req CreateRequest

	if err := r.ParseMultipartForm(h.maxFormMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return req, nil, nil, err
		}
		if err := r.ParseForm(); err != nil {
			return req, nil, nil, err
		}
	}

	req.CategoryName = strings.TrimSpace(r.FormValue("categoryName"))
	req.Title = strings.TrimSpace(r.FormValue("title"))
	req.Description = strings.TrimSpace(r.FormValue("description"))
	req.Publisher = strings.TrimSpace(r.FormValue("publisher"))

	var details []httpx.ErrorDetail
	parseMoney := func(field string) *float64 {
		raw := strings.TrimSpace(r.FormValue(field))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			details = append(details, httpx.ErrorDetail{Field: field, Message: field + " must be a number"})
			return nil
		}
		return &v
	}
	req.Price = parseMoney("price")
	req.Cost = parseMoney("cost")

	if raw := strings.TrimSpace(r.FormValue("units")); raw != "" {
		units, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "units", Message: "units must be an integer"})
		}
		req.Units = units
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		req.Image = &Image{Filename: header.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return req, nil, nil, err
	}

	return req, file, details, nil
}

// mergeDetails appends rule violations for fields that parsed cleanly. A field
// that could not be parsed keeps only its parse message.
func mergeDetails(parsed, rules []httpx.ErrorDetail) []httpx.ErrorDetail {
	seen := make(map[string]bool, len(parsed))
	for _, d := range parsed {
		seen[d.Field] = true
	}
	for _, d := range rules {
		if !seen[d.Field] {
			parsed = append(parsed, d)
		}
	}
	return parsed
}

func toDetails(fields []FieldError) []httpx.ErrorDetail {
	out := make([]httpx.ErrorDetail, len(fields))
	for i, f := range fields {
		out[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
	}
	return out
}
