package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brightdesk/user-directory/internal/api/metrics"
	"github.com/brightdesk/user-directory/internal/core/domain"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

// ActiveUserSource serves the active-user listing, possibly from cache.
type ActiveUserSource interface {
	ActiveUsers(ctx context.Context) ([]*domain.User, error)
}

// BatchNotifier runs the batch notification workflow for a set of user IDs.
type BatchNotifier interface {
	ProcessUserBatch(ctx context.Context, userIDs []int64, event string, payload map[string]any) (int, error)
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
	active  ActiveUserSource
	batch   BatchNotifier
}

func NewUserHandler(service ports.UserService, active ActiveUserSource, batch BatchNotifier) *UserHandler {
	return &UserHandler{service: service, active: active, batch: batch}
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.CreateUser(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List handles GET /v1/users. The default listing is active users, served
// through the cache; other statuses go straight to the repository.
//
// @Summary      List users by status
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "User status (default: active)"
// @Success      200     {object}  userListResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	status := c.QueryParam("status")

	var (
		users []*domain.User
		err   error
	)
	if status == "" || status == string(domain.StatusActive) {
		users, err = h.active.ActiveUsers(c.Request().Context())
	} else {
		users, err = h.service.UsersByStatus(c.Request().Context(), status)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(users))
}

// Delete handles DELETE /v1/users/:id. The acting user must be an admin
// ranking strictly above the target.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), ports.DeleteUserInput{
		UserID:  id,
		ActorID: actorID,
	}); err != nil {
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// AddRelationship handles POST /v1/users/:id/relationships.
//
// @Summary      Link two users under a relationship type
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "User ID"
// @Param        body  body      addRelationshipRequest  true  "Relationship"
// @Success      201   {object}  relationshipResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id}/relationships [post]
func (h *UserHandler) AddRelationship(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req addRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.service.AddRelationship(c.Request().Context(), ports.AddRelationshipInput{
		UserID:  id,
		OtherID: req.OtherID,
		Type:    req.Type,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, relationshipResponse{
		UserID:  id,
		OtherID: req.OtherID,
		Type:    req.Type,
	})
}

// GetRelationships handles GET /v1/users/:id/relationships/:type.
//
// @Summary      List users linked under a relationship type
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int     true  "User ID"
// @Param        type  path      string  true  "Relationship type"
// @Success      200   {object}  relationshipListResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/relationships/{type} [get]
func (h *UserHandler) GetRelationships(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	relType := c.Param("type")

	user, err := h.service.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}

	linked := user.Relationships(relType)
	items := make([]userResponse, 0, len(linked))
	for _, other := range linked {
		items = append(items, toUserResponse(other))
	}
	return c.JSON(http.StatusOK, relationshipListResponse{
		UserID: id,
		Type:   relType,
		Items:  items,
		Total:  len(items),
	})
}

// NotifyBatch handles POST /v1/users/batch/notify — runs the batch
// notification workflow and returns 202 with the number of users notified.
//
// @Summary      Send a bulk notification to a batch of users
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchNotifyRequest  true  "Batch details"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/batch/notify [post]
func (h *UserHandler) NotifyBatch(c echo.Context) error {
	var req batchNotifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	count, err := h.batch.ProcessUserBatch(c.Request().Context(), req.UserIDs, req.Event, req.Payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "notifications accepted",
		Count:   count,
	})
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
