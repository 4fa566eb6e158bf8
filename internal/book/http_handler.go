package book

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bookclub/internal/apperr"
	"bookclub/internal/httpx"
	"bookclub/internal/platform/googlebooks"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// ListAll handles GET /books/all/{startIndex}
func (h *HTTPHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	startIndex, err := parseStartIndex(r.PathValue("startIndex"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	books, err := h.service.ListLive(r.Context(), startIndex)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"books": emptyIfNil(books)})
}

type searchRequest struct {
	Search    string `validate:"required"`
	Title     string
	Author    string
	Publisher string
	Subject   string
}

// Search handles GET /books/search/{startIndex}
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	startIndex, err := parseStartIndex(r.PathValue("startIndex"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	query := r.URL.Query()
	req := searchRequest{
		Search:    query.Get("search"),
		Title:     query.Get("terms[title]"),
		Author:    query.Get("terms[author]"),
		Publisher: query.Get("terms[publisher]"),
		Subject:   query.Get("terms[subject]"),
	}

	if err := validateSearchTermKeys(query); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	terms := googlebooks.SearchTerms{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Subject:   req.Subject,
	}
	books, err := h.service.SearchLive(r.Context(), req.Search, terms, startIndex)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"books": emptyIfNil(books)})
}

// GetByID handles GET /books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b, err := h.service.GetLive(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"book": b})
}

// ListStored handles GET /books/all-db/{limit}
func (h *HTTPHandler) ListStored(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.PathValue("limit"))
	if err != nil || limit <= 0 {
		httpx.Error(w, r, apperr.Validation("limit must be a positive integer"))
		return
	}

	query := r.URL.Query()
	filters := Filters{
		Title:       query.Get("title"),
		Author:      query.Get("author"),
		Publisher:   query.Get("publisher"),
		Description: query.Get("description"),
		Category:    query.Get("category"),
	}

	books, err := h.service.ListStored(r.Context(), limit, filters)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"books": emptyIfNil(books)})
}

type likeRequest struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Cover       string `json:"cover" validate:"omitempty,url"`
}

// Like handles POST /books/{id}/users/{username}
func (h *HTTPHandler) Like(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, r, apperr.Validation("invalid JSON body"))
		return
	}
	if err := validateStruct(req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	payload := Book{
		ExternalID:  req.ID,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Description: req.Description,
		Category:    req.Category,
		Cover:       req.Cover,
	}

	likedID, err := h.service.Like(r.Context(), payload, username)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{"likedBook": likedID})
}

// Unlike handles DELETE /books/{id}/users/{username}
func (h *HTTPHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	username := r.PathValue("username")

	unlikedID, err := h.service.Unlike(r.Context(), id, username)
	if err != nil {
		// Unliking a book that was never liked is benign: nothing to
		// remove, nothing to report.
		if apperr.IsKind(err, apperr.KindNoActiveLike) {
			httpx.JSON(w, http.StatusOK, map[string]any{"unlikedBook": id})
			return
		}
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"unlikedBook": unlikedID})
}

func parseStartIndex(raw string) (int, error) {
	startIndex, err := strconv.Atoi(raw)
	if err != nil || startIndex < 0 {
		return 0, apperr.Validation("startIndex must be a non-negative integer")
	}
	return startIndex, nil
}

var allowedTermKeys = map[string]bool{
	"title":     true,
	"author":    true,
	"publisher": true,
	"subject":   true,
}

// validateSearchTermKeys rejects terms[...] keys outside the supported set.
func validateSearchTermKeys(query map[string][]string) error {
	for key := range query {
		if !strings.HasPrefix(key, "terms[") || !strings.HasSuffix(key, "]") {
			continue
		}
		inner := key[len("terms[") : len(key)-1]
		if !allowedTermKeys[inner] {
			return apperr.Validation(fmt.Sprintf("unknown search term %q", inner))
		}
	}
	return nil
}

// emptyIfNil keeps the wire shape an array even with no results.
func emptyIfNil(books []Book) []Book {
	if books == nil {
		return []Book{}
	}
	return books
}
