package controllers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"brandvault/internal/api/middleware"
	"brandvault/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// BaseController provides generic CRUD operations for any model
type BaseController[T any] struct {
	service services.BaseService[T]
	scope   func(echo.Context) func(*gorm.DB) *gorm.DB
	audit   *auditSpec
}

type auditSpec struct {
	logger       *services.ActivityLogger
	entityType   string
	createAction string
	updateAction string
	deleteAction string
}

type ControllerOption[T any] func(*BaseController[T])

// WithScope attaches a per-request data-visibility filter to listings. This
// is where regional/origin scoping reaches generic routes.
func WithScope[T any](scope func(echo.Context) func(*gorm.DB) *gorm.DB) ControllerOption[T] {
	return func(c *BaseController[T]) { c.scope = scope }
}

// WithAudit appends an activity-log row after each successful mutation.
func WithAudit[T any](logger *services.ActivityLogger, entityType, createAction, updateAction, deleteAction string) ControllerOption[T] {
	return func(c *BaseController[T]) {
		c.audit = &auditSpec{
			logger:       logger,
			entityType:   entityType,
			createAction: createAction,
			updateAction: updateAction,
			deleteAction: deleteAction,
		}
	}
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T], opts ...ControllerOption[T]) *BaseController[T] {
	c := &BaseController[T]{service: service}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

// stampOwner fills the entity's CreatedBy/UploadedBy field, when it has one,
// with the authenticated user.
func stampOwner[T any](ctx echo.Context, entity *T) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	v := reflect.ValueOf(entity).Elem()
	for _, name := range []string{"CreatedBy", "UploadedBy"} {
		field := v.FieldByName(name)
		if field.IsValid() && field.Kind() == reflect.String && field.String() == "" {
			field.SetString(userID)
		}
	}
}

func (c *BaseController[T]) logAction(ctx echo.Context, action, entityID string) {
	if c.audit == nil || action == "" {
		return
	}
	c.audit.logger.Log(ctx.Request().Context(), middleware.GetUserID(ctx),
		action, c.audit.entityType, entityID, nil)
}

func entityID[T any](entity *T) string {
	v := reflect.ValueOf(entity).Elem().FieldByName("ID")
	if v.IsValid() && v.Kind() == reflect.String {
		return v.String()
	}
	return ""
}

// Create handles creation of new entities
func (c *BaseController[T]) Create(ctx echo.Context) error {
	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	stampOwner(ctx, &entity)

	includes := parseIncludes(ctx)
	if err := c.service.Create(ctx.Request().Context(), &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.audit != nil {
		c.logAction(ctx, c.audit.createAction, entityID(&entity))
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}
	includes := parseIncludes(ctx)
	entity, err := c.service.Get(ctx.Request().Context(), id, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *BaseController[T]) List(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// Remaining query parameters become column filters
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		switch key {
		case "page", "limit", "include", "sort", "order":
			continue
		}
		if len(values) > 0 && isFilterableColumn[T](key) {
			filters[key] = values[0]
		}
	}

	q := services.ListQuery{
		Page:    page,
		Limit:   limit,
		Filters: filters,
		Sort:    sortColumn[T](ctx.QueryParam("sort")),
		Order:   ctx.QueryParam("order"),
	}
	if c.scope != nil {
		q.Scope = c.scope(ctx)
	}

	entities, total, err := c.service.List(ctx.Request().Context(), q, parseIncludes(ctx)...)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles updating an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	includes := parseIncludes(ctx)
	if err := c.service.Update(ctx.Request().Context(), id, &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.audit != nil {
		c.logAction(ctx, c.audit.updateAction, id)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.audit != nil {
		c.logAction(ctx, c.audit.deleteAction, id)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// isFilterableColumn accepts only query keys matching a struct field's json
// name, keeping arbitrary query params out of the WHERE clause.
func isFilterableColumn[T any](key string) bool {
	return fieldToColumn[T](key) != ""
}

func sortColumn[T any](key string) string {
	return fieldToColumn[T](key)
}

func fieldToColumn[T any](key string) string {
	if key == "" {
		return ""
	}
	var entity T
	t := reflect.TypeOf(entity)
	if t.Kind() != reflect.Struct {
		return ""
	}
	return lookupColumn(t, key)
}

// lookupColumn walks the struct's fields, descending into anonymous embedded
// structs so Base columns (id, createdAt) stay sortable.
func lookupColumn(t reflect.Type, key string) string {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if column := lookupColumn(field.Type, key); column != "" {
				return column
			}
			continue
		}
		jsonName := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if jsonName == key {
			return toSnake(field.Name)
		}
	}
	return ""
}

func toSnake(name string) string {
	var out []rune
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := rune(name[i-1])
				if prev < 'A' || prev > 'Z' {
					out = append(out, '_')
				}
			}
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

// RegisterRoutes registers CRUD routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"POST", "GET", "PUT", "DELETE"}
	}

	for _, method := range methods {
		switch method {
		case "POST":
			g.POST(path, c.Create)
		case "GET":
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case "PUT":
			g.PUT(path+"/:id", c.Update)
		case "DELETE":
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}
