package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/minerdev/codenames-api/internal/openapi"
	"github.com/minerdev/codenames-api/internal/schema"
	"github.com/minerdev/codenames-api/pkg/response"
)

// HandlerFunc produces the status and body of a described route.
// The body is validated against the schema declared for the status.
type HandlerFunc func(c *gin.Context) (int, any, error)

// ResponseSpec declares one response of a route. A nil Schema means no body.
type ResponseSpec struct {
	Description string
	Schema      *schema.Schema
}

// Route is one entry of the dispatch table.
type Route struct {
	Method     string
	Path       string
	Summary    string
	Responses  map[int]ResponseSpec
	Handler    HandlerFunc
	Middleware []gin.HandlerFunc
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

type Registry struct {
	Engine *gin.Engine
	Logger *logrus.Logger

	info        openapi.Info
	middlewares []gin.HandlerFunc
	modules     []Module
	routes      []Route
	index       map[string]struct{}
	mounted     bool
	doc         *openapi.Document
}

func NewRegistry(engine *gin.Engine, info openapi.Info, logger *logrus.Logger) *Registry {
	return &Registry{
		Engine: engine,
		Logger: logger,
		info:   info,
		index:  make(map[string]struct{}),
	}
}

// Use adds middleware applied to every described route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// Register adds a route to the dispatch table.
func (r *Registry) Register(route Route) error {
	route.Method = strings.ToUpper(route.Method)
	fail := func(reason string) error {
		return &ConfigurationError{Method: route.Method, Path: route.Path, Reason: reason}
	}

	if r.mounted {
		return fail("registry already mounted")
	}
	if !supportedMethods[route.Method] {
		return fail("unsupported method")
	}
	if !strings.HasPrefix(route.Path, "/") {
		return fail("path must start with /")
	}
	if route.Handler == nil {
		return fail("missing handler")
	}
	if len(route.Responses) == 0 {
		return fail("no responses declared")
	}
	key := route.Method + " " + route.Path
	if _, dup := r.index[key]; dup {
		return fail("already registered")
	}

	r.index[key] = struct{}{}
	r.routes = append(r.routes, route)
	return nil
}

// MustRegister is Register for bootstrap code, it panics on error.
func (r *Registry) MustRegister(route Route) {
	if err := r.Register(route); err != nil {
		panic(err)
	}
}

// Routes returns the registered routes in registration order.
func (r *Registry) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// RegisterAll lets every module register itself, then mounts all routes
// on the engine. The registry is immutable afterwards.
func (r *Registry) RegisterAll() error {
	if r.mounted {
		return errors.New("router: registry already mounted")
	}
	for _, m := range r.modules {
		if err := m.Register(r); err != nil {
			return fmt.Errorf("register module %T: %w", m, err)
		}
	}

	api := r.Engine.Group("/", r.middlewares...)
	for _, route := range r.routes {
		handlers := append(append([]gin.HandlerFunc{}, route.Middleware...), r.dispatch(route))
		api.Handle(route.Method, route.Path, handlers...)
	}
	r.Engine.NoRoute(r.notFound)

	r.doc = r.build()
	r.mounted = true
	return nil
}

// Describe returns the OpenAPI document of the registered routes.
func (r *Registry) Describe() *openapi.Document {
	if r.doc != nil {
		return r.doc
	}
	return r.build()
}

func (r *Registry) build() *openapi.Document {
	doc := &openapi.Document{
		OpenAPI: openapi.Version,
		Info:    r.info,
		Paths:   make(map[string]*openapi.PathItem),
	}
	components := make(map[string]*openapi.Schema)

	for _, route := range r.routes {
		path := openAPIPath(route.Path)
		item, ok := doc.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			doc.Paths[path] = item
		}

		op := &openapi.Operation{Summary: route.Summary, Responses: make(map[string]*openapi.Response)}
		for status, decl := range route.Responses {
			resp := &openapi.Response{Description: decl.Description}
			if decl.Schema != nil {
				components[decl.Schema.Name()] = decl.Schema.OpenAPI()
				resp.Content = map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.RefTo(decl.Schema.Name())},
				}
			}
			op.Responses[fmt.Sprint(status)] = resp
		}
		// methods were checked in Register
		_ = item.Set(route.Method, op)
	}

	if len(components) > 0 {
		doc.Components = &openapi.Components{Schemas: components}
	}
	return doc
}

func (r *Registry) dispatch(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, body, err := route.Handler(c)
		if err != nil {
			r.fail(c, route, err)
			return
		}

		decl, ok := route.Responses[status]
		if !ok {
			r.fail(c, route, &schema.ValidationError{
				Schema:  route.Method + " " + route.Path,
				Details: map[string]string{"status": fmt.Sprintf("undeclared response status %d", status)},
			})
			return
		}
		if decl.Schema == nil {
			c.Status(status)
			return
		}
		if err := decl.Schema.Validate(body); err != nil {
			r.fail(c, route, err)
			return
		}
		c.JSON(status, body)
	}
}

func (r *Registry) fail(c *gin.Context, route Route, err error) {
	entry := r.Logger.WithFields(logrus.Fields{
		"method":     route.Method,
		"path":       route.Path,
		"request_id": c.GetString("request_id"),
	}).WithError(err)

	var verr *schema.ValidationError
	var herr *HTTPError
	switch {
	case errors.As(err, &verr):
		entry.Error("response failed schema validation")
		response.Error(c, http.StatusInternalServerError, "response failed schema validation",
			response.ErrorDetail{Kind: "SchemaValidationError", Details: verr.Details})
	case errors.As(err, &herr):
		if herr.Status >= http.StatusInternalServerError {
			entry.Error("request failed")
		}
		response.Error(c, herr.Status, herr.Message, nil)
	default:
		entry.Error("request failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func (r *Registry) notFound(c *gin.Context) {
	err := &NotFoundError{Method: c.Request.Method, Path: c.Request.URL.Path}
	r.Logger.WithField("request_id", c.GetString("request_id")).Debug(err.Error())
	response.Error(c, http.StatusNotFound, "route not found", response.ErrorDetail{Kind: "NotFoundError"})
}

// openAPIPath rewrites gin parameters (:id, *rest) to OpenAPI templates.
func openAPIPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") || strings.HasPrefix(p, "*") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
