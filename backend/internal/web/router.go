package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the HTML pages and the JSON API
type Handler struct {
	store Store
	log   *zap.Logger
}

// NewHandler creates a handler backed by store
func NewHandler(store Store, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

var templateFuncs = template.FuncMap{
	// dict builds a map from alternating keys and values for sub-templates
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}

// ParseTemplates parses the embedded page templates
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// NewRouter builds the gin engine with middleware, pages and API routes.
// Call gin.SetMode before NewRouter to pick the gin mode.
func NewRouter(h *Handler) (*gin.Engine, error) {
	tmpl, err := ParseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(requestID())
	router.Use(requestLogger(h.log))
	router.Use(gin.Recovery())

	router.GET("/health", h.health)

	// Pages
	router.GET("/", h.home)
	router.GET("/addpeople", h.addPeoplePage)
	router.GET("/addmeeting", h.addMeetingPage)
	router.POST("/createPerson", h.createPerson)
	router.POST("/createMeeting", h.createMeeting)
	router.POST("/addparticipant", h.addParticipant)
	router.POST("/searchPerson", h.searchPerson)
	router.POST("/showContacts", h.showContacts)
	router.GET("/person/:id", h.personDetails)
	router.POST("/changeStatus", h.changeStatus)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/people", h.apiListPeople)
		api.POST("/people", h.apiCreatePerson)
		api.GET("/people/:id", h.apiGetPerson)
		api.POST("/people/:id/status", h.apiChangeStatus)
		api.GET("/contacts/:phone", h.apiContacts)
		api.GET("/meetings", h.apiListMeetings)
		api.POST("/meetings", h.apiCreateMeeting)
		api.GET("/meetings/:id", h.apiGetMeeting)
		api.POST("/meetings/:id/participants", h.apiAddParticipant)
	}

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"status":  http.StatusNotFound,
			"message": "Page not found.",
		})
	})

	return router, nil
}

func (h *Handler) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
