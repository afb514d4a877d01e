package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/queue"
	"github.com/damoah/buildflow/internal/repository"
	queue_publisher "github.com/damoah/buildflow/internal/service"
)

// RequestStore persists material requests. Satisfied by
// *repository.MaterialRequestRepo.
type RequestStore interface {
	Create(ctx context.Context, m *model.MaterialRequest) error
	GetByID(ctx context.Context, id uint64) (*model.MaterialRequest, error)
	List(ctx context.Context, status string, supervisorID uint64) ([]*model.MaterialRequest, error)
	Transition(ctx context.Context, id uint64, from, to string) (*model.MaterialRequest, error)
}

// RequestHandler bundles dependencies for the material request endpoints.
// Every status transition publishes an event to the broker; publish
// failures are logged inside the publisher and never fail the request.
type RequestHandler struct {
	Requests    RequestStore
	Credentials CredentialReader
	Publish     func(ctx context.Context, event queue.MaterialRequestEvent) error
}

func NewRequestHandler(requests RequestStore, credentials CredentialReader) *RequestHandler {
	if requests == nil || credentials == nil {
		panic("nil repository passed to NewRequestHandler")
	}
	return &RequestHandler{
		Requests:    requests,
		Credentials: credentials,
		Publish:     queue_publisher.PublishMaterialRequestEvent,
	}
}

// supervisorProfileID maps the authenticated credential to its supervisor
// profile id.
func (h *RequestHandler) supervisorProfileID(ctx context.Context, c echo.Context) (uint64, error) {
	uid, err := getUserID(c)
	if err != nil {
		return 0, err
	}
	cred, err := h.Credentials.GetByID(ctx, uid)
	if err != nil {
		return 0, err
	}
	return cred.ProfileID, nil
}

// CreateRequest handles POST /v1/material-requests (supervisor only).
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var body struct {
		Material string `json:"material"`
		Quantity int64  `json:"quantity"`
		Unit     string `json:"unit"`
		Notes    string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Material = strings.TrimSpace(body.Material)
	if body.Material == "" || body.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "material and positive quantity are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	supID, err := h.supervisorProfileID(ctx, c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := &model.MaterialRequest{
		SupervisorID: supID,
		Material:     body.Material,
		Quantity:     body.Quantity,
		Unit:         strings.TrimSpace(body.Unit),
		Notes:        strings.TrimSpace(body.Notes),
	}
	if err := h.Requests.Create(ctx, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create request"})
	}

	h.publish(ctx, c, req)
	return c.JSON(http.StatusCreated, req)
}

// ListRequests handles GET /v1/material-requests with optional ?status=
// filtering. Supervisors see only their own requests.
func (h *RequestHandler) ListRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := strings.TrimSpace(c.QueryParam("status"))
	var supervisorID uint64
	if getRole(c) == model.RoleSupervisor {
		id, err := h.supervisorProfileID(ctx, c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		supervisorID = id
	} else if s := c.QueryParam("supervisor_id"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supervisor_id"})
		}
		supervisorID = n
	}

	items, err := h.Requests.List(ctx, status, supervisorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRequest handles GET /v1/material-requests/:id.
func (h *RequestHandler) GetRequest(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, req)
}

// ApproveRequest handles POST /v1/material-requests/:id/approve.
func (h *RequestHandler) ApproveRequest(c echo.Context) error {
	return h.transition(c, model.RequestPending, model.RequestApproved)
}

// RejectRequest handles POST /v1/material-requests/:id/reject.
func (h *RequestHandler) RejectRequest(c echo.Context) error {
	return h.transition(c, model.RequestPending, model.RequestRejected)
}

// DeliverRequest handles POST /v1/material-requests/:id/deliver.
func (h *RequestHandler) DeliverRequest(c echo.Context) error {
	return h.transition(c, model.RequestApproved, model.RequestDelivered)
}

func (h *RequestHandler) transition(c echo.Context, from, to string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	req, err := h.Requests.Transition(ctx, id, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "request is not " + from})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	h.publish(ctx, c, req)
	return c.JSON(http.StatusOK, req)
}

// publish emits the event for the request's current status. Failures are
// already logged by the publisher; the request flow continues regardless.
func (h *RequestHandler) publish(ctx context.Context, c echo.Context, req *model.MaterialRequest) {
	if h.Publish == nil {
		return
	}
	actorID, _ := getUserID(c)
	_ = h.Publish(ctx, queue.MaterialRequestEvent{
		RequestID:    req.ID,
		SupervisorID: req.SupervisorID,
		Material:     req.Material,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Status:       req.Status,
		ActorID:      actorID,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
