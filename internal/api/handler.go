package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/floodwatch/floodwatch/internal/auth"
	"github.com/floodwatch/floodwatch/internal/models"
	"github.com/floodwatch/floodwatch/internal/observability"
	"github.com/floodwatch/floodwatch/internal/report"
	"github.com/floodwatch/floodwatch/internal/repository"
	"github.com/floodwatch/floodwatch/internal/zones"
)

type Handler struct {
	alerts   repository.AlertStore
	shelters repository.ShelterStore
	users    repository.UserStore
	authMgr  *auth.Manager
	registry *zones.Registry
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

func NewHandler(
	alerts repository.AlertStore,
	shelters repository.ShelterStore,
	users repository.UserStore,
	authMgr *auth.Manager,
	registry *zones.Registry,
	metrics *observability.Metrics,
	clock clockwork.Clock,
) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{
		alerts:   alerts,
		shelters: shelters,
		users:    users,
		authMgr:  authMgr,
		registry: registry,
		metrics:  metrics,
		clock:    clock,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/users/register", h.registerUser)
	r.POST("/api/users/login", h.login)

	authed := r.Group("/api")
	authed.Use(h.authMgr.Middleware())

	authed.GET("/alerts", h.listAlerts)
	authed.POST("/alerts", auth.RequireRole(models.RoleCoordinator, models.RoleAdmin), h.createAlert)
	authed.PUT("/alerts/:id/acknowledge", auth.RequireRole(models.RoleResponder, models.RoleAdmin), h.acknowledgeAlert)

	authed.GET("/shelters", h.listShelters)
	authed.POST("/shelters", auth.RequireRole(models.RoleAdmin), h.createShelter)

	authed.GET("/zones", h.getZones)

	reports := authed.Group("/reports")
	reports.Use(auth.RequireRole(models.RoleAdmin, models.RoleCoordinator))
	reports.GET("/alerts.csv", h.exportAlertsCSV)
	reports.GET("/summary", h.reportSummary)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createAlertRequest struct {
	Zone     string `json:"zone"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Time     string `json:"time"`
}

func (h *Handler) createAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save alert"})
		return
	}

	alert, err := h.alerts.CreateAlert(c.Request.Context(), req.Zone, req.Message, models.Severity(req.Severity), req.Time)
	if err != nil {
		var verr *repository.ValidationError
		if errors.As(err, &verr) {
			h.metrics.AlertsRejected.Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		slog.Error("failed to create alert", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save alert"})
		return
	}

	if !h.registry.Contains(alert.Zone) {
		// Legal but won't correlate with any map polygon.
		slog.Warn("alert zone not in registry", "zone", alert.Zone, "id", alert.ID)
	}

	h.metrics.AlertsCreated.WithLabelValues(string(alert.Severity)).Inc()
	slog.Info("alert created", "id", alert.ID, "zone", alert.Zone, "severity", alert.Severity)
	c.JSON(http.StatusCreated, alert)
}

func (h *Handler) listAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		slog.Error("failed to list alerts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) acknowledgeAlert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}

	alert, err := h.alerts.AcknowledgeAlert(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		slog.Error("failed to acknowledge alert", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to acknowledge alert"})
		return
	}

	slog.Info("alert acknowledged", "id", id)
	h.metrics.AlertsAcknowledged.Inc()
	c.JSON(http.StatusOK, alert)
}

type createShelterRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Capacity  int     `json:"capacity"`
	Contact   string  `json:"contact"`
}

func (h *Handler) createShelter(c *gin.Context) {
	var req createShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save shelter"})
		return
	}

	shelter := &models.Shelter{
		Name:      req.Name,
		Type:      models.ShelterType(req.Type),
		Longitude: req.Longitude,
		Latitude:  req.Latitude,
		Capacity:  req.Capacity,
		Contact:   req.Contact,
	}
	if err := h.shelters.AddShelter(c.Request.Context(), shelter); err != nil {
		var verr *repository.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		slog.Error("failed to add shelter", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save shelter"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Shelter added", "shelter": shelter})
}

func (h *Handler) listShelters(c *gin.Context) {
	shelters, err := h.shelters.ListShelters(c.Request.Context())
	if err != nil {
		slog.Error("failed to list shelters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch shelters"})
		return
	}
	c.JSON(http.StatusOK, shelters)
}

func (h *Handler) getZones(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		slog.Error("failed to list alerts for zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zones"})
		return
	}

	fc := h.registry.Overlay(alerts)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	role := models.RoleResponder
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
	}

	// Privileged roles can only be granted by an admin.
	if role != models.RoleResponder {
		caller, err := h.authMgr.UserFromRequest(c)
		if err != nil || caller.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin token required to register this role"})
			return
		}
	}

	user := &models.User{Username: req.Username, Role: role}
	if err := user.SetPassword(req.Password); err != nil {
		slog.Error("failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
			return
		}
		slog.Error("failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	slog.Info("user registered", "username", user.Username, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	user, err := h.users.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.authMgr.GenerateToken(user)
	if err != nil {
		slog.Error("failed to sign token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) exportAlertsCSV(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		slog.Error("failed to list alerts for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	filename := report.Filename(h.clock.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	h.metrics.ReportsExported.Inc()
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(report.AlertsCSV(alerts)))
}

func (h *Handler) reportSummary(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		slog.Error("failed to list alerts for summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, report.Summarize(alerts))
}
