package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/services"
)

type ListingHandler struct {
	listingService *services.ListingService
	timeout        time.Duration
	maxBodyBytes   int64
	log            *zap.Logger
}

func NewListingHandler(listingService *services.ListingService, timeout time.Duration, maxBodyBytes int64, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		timeout:        timeout,
		maxBodyBytes:   maxBodyBytes,
		log:            log,
	}
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req models.CreateListingRequest
	if err := decodeJSONObject(r.Body, &req, models.CreateListingFields...); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.log.Debug("listing validation failed", zap.Any("errors", errs))
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := h.listingService.Create(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrImageRejected) {
			writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Photo rejected: violates community guidelines"))
			return
		}
		h.log.Error("create listing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(err.Error()))
		return
	}

	h.log.Info("listing created", zap.String("id", id))
	writeJSON(w, http.StatusOK, models.CreatedResponse{ID: id})
}

func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	q := models.ListingQuery{
		Category: optionalQuery(r, "category"),
		Q:        optionalQuery(r, "q"),
	}

	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	listings, err := h.listingService.List(ctx, q)
	if err != nil {
		h.log.Error("list listings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, listings)
}
