package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/listing/usecase"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxBodyBytes    = 1 << 20
	maxImageBytes   = 2 << 20
	maxImagesPerReq = 6
)

// ListingService is the set of use cases the HTTP layer exposes.
type ListingService interface {
	CreateListing(ctx context.Context, ownerID string, in usecase.CreateListingInput) (*domain.Listing, error)
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	ListListings(ctx context.Context, raw usecase.RawQuery) ([]*domain.Listing, error)
	UpdateListing(ctx context.Context, id, callerID string, patch domain.ListingPatch) (*domain.Listing, error)
	DeleteListing(ctx context.Context, id, callerID string) error
	ListOwnerListings(ctx context.Context, ownerID, callerID string) ([]*domain.Listing, error)
	GetOwnerContact(ctx context.Context, ownerID string) (*domain.UserContact, error)
}

type ListingHandler struct {
	service ListingService
	storage domain.Storage
	logger  *logger.Logger
}

// NewListingHandler builds the handler. storage may be nil, in which case image uploads answer 503.
func NewListingHandler(service ListingService, storage domain.Storage, log *logger.Logger) *ListingHandler {
	return &ListingHandler{service: service, storage: storage, logger: log.Named("ListingHandler")}
}

type createListingRequest struct {
	usecase.CreateListingInput
	UserRef string `json:"userRef"`
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.UserIDFromContext(r.Context())

	var req createListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserRef != "" && req.UserRef != callerID {
		h.logger.Warn("Create listing for another user rejected", zap.String("caller_id", callerID), zap.String("user_ref", req.UserRef))
		writeError(w, fmt.Errorf("%w: you can only create listings for your own account", domain.ErrUnauthorized))
		return
	}

	listing, err := h.service.CreateListing(r.Context(), callerID, req.CreateListingInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "listing", listing)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "listing", listing)
}

func (h *ListingHandler) HandleGetListings(w http.ResponseWriter, r *http.Request) {
	raw := usecase.RawQuery{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	listings, err := h.service.ListListings(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "listings", listings)
}

func (h *ListingHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.UserIDFromContext(r.Context())

	var patch domain.ListingPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	listing, err := h.service.UpdateListing(r.Context(), chi.URLParam(r, "id"), callerID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "updatedListing", listing)
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.UserIDFromContext(r.Context())

	if err := h.service.DeleteListing(r.Context(), chi.URLParam(r, "id"), callerID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "message", "Listing deleted successfully")
}

func (h *ListingHandler) HandleGetUserListings(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.UserIDFromContext(r.Context())

	listings, err := h.service.ListOwnerListings(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "listings", listings)
}

func (h *ListingHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	contact, err := h.service.GetOwnerContact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "user", contact)
}

// HandleUploadImages accepts a multipart form with up to six "images" parts and
// answers with the public URL of each stored image.
func (h *ListingHandler) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, errStorageDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImagesPerReq*maxImageBytes+maxBodyBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, fmt.Errorf("%w: invalid multipart form: %v", domain.ErrInvalidListingData, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["images"]
	if len(files) == 0 || len(files) > maxImagesPerReq {
		writeError(w, fmt.Errorf("%w: between 1 and %d images are required", domain.ErrInvalidListingData, maxImagesPerReq))
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageBytes {
			writeError(w, fmt.Errorf("%w: %s exceeds 2 MB", domain.ErrInvalidListingData, fh.Filename))
			return
		}
		data, err := readPart(fh)
		if err != nil {
			writeError(w, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidListingData, fh.Filename, err))
			return
		}
		contentType := http.DetectContentType(data)
		if !strings.HasPrefix(contentType, "image/") {
			writeError(w, fmt.Errorf("%w: %s is not an image", domain.ErrInvalidListingData, fh.Filename))
			return
		}

		url, err := h.storage.Upload(r.Context(), fh.Filename, contentType, data)
		if err != nil {
			h.logger.Error("Image upload failed", zap.String("file", fh.Filename), zap.Error(err))
			writeError(w, err)
			return
		}
		urls = append(urls, url)
	}
	writeSuccess(w, http.StatusCreated, "urls", urls)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidListingData, err)
	}
	return nil
}
