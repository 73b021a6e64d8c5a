// Profile and worker HTTP handlers.
//
//   - POST /profiles        (create account profile)
//   - GET  /profiles/{id}   (fetch)
//   - POST /workers         (attach a worker record to the acting user)
//   - GET  /workers/{id}    (fetch)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

// CreateProfileRequest is the JSON payload for creating a profile.
type CreateProfileRequest struct {
	Name      string  `json:"name" binding:"required" example:"Ana Domingos"`
	Phone     string  `json:"phone" example:"+244900000000"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	UserType  string  `json:"user_type" example:"client"`
	City      string  `json:"city" example:"Luanda"`
}

// CreateWorkerRequest is the JSON payload for registering the acting user as
// a worker.
type CreateWorkerRequest struct {
	ServiceType string  `json:"service_type" binding:"required" example:"electrician"`
	Description *string `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price" example:"5000"`
	PricePerKm  float64 `json:"price_per_km" example:"150"`
}

// CreateProfile godoc
// @ID          createProfile
// @Summary     Create a profile
// @Tags        Profiles
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Account id the profile belongs to"
// @Param       body       body    handlers.CreateProfileRequest  true  "Profile payload"
//
// @Success     201  {object}  domain.Profile
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /profiles [post]
func (h *Handlers) CreateProfile(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p := &domain.Profile{
		ID:        uid,
		Name:      req.Name,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		UserType:  req.UserType,
		City:      req.City,
	}
	if p.UserType == "" {
		p.UserType = "client"
	}
	if p.City == "" {
		p.City = "Luanda"
	}
	created, err := h.profileSvc.CreateProfile(c.Request.Context(), p)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Fetch a profile
// @Tags        Profiles
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       id         path    string  true  "Account id"  format(uuid)
//
// @Success     200  {object}  domain.Profile
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Router      /profiles/{id} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	if _, okAuth := requireUser(c); !okAuth {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "profile id must be a UUID")
		return
	}
	p, err := h.profileSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// CreateWorker godoc
// @ID          createWorker
// @Summary     Register as a worker
// @Description Attaches a worker record to the acting user's profile.
// @Tags        Profiles
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       body       body    handlers.CreateWorkerRequest  true  "Worker payload"
//
// @Success     201  {object}  domain.Worker
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Router      /workers [post]
func (h *Handlers) CreateWorker(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	var req CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	w := &domain.Worker{
		UserID:      uid,
		ServiceType: req.ServiceType,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		PricePerKm:  req.PricePerKm,
		IsAvailable: true,
	}
	created, err := h.profileSvc.CreateWorker(c.Request.Context(), w)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

// GetWorker godoc
// @ID          getWorker
// @Summary     Fetch a worker
// @Tags        Profiles
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Acting user id"
// @Param       id         path    string  true  "Worker id"  format(uuid)
//
// @Success     200  {object}  domain.Worker
// @Failure     404  {object}  handlers.ErrorResponse  "Worker not found"
// @Router      /workers/{id} [get]
func (h *Handlers) GetWorker(c *gin.Context) {
	if _, okAuth := requireUser(c); !okAuth {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "worker id must be a UUID")
		return
	}
	w, err := h.profileSvc.GetWorker(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, w)
}
