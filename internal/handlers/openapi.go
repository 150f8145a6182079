package handlers

import (
	"Testify/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// apiOperation — публичная операция API: по ней регистрируется маршрут chi
// и строится описание в OpenAPI, так что документ не расходится с роутером.
type apiOperation struct {
	Method      string
	Pattern     string // шаблон chi, он же путь в OpenAPI
	OperationID string
	Summary     string
	Tag         string
	PathParams  map[string]string
	QueryParams map[string]string // обязательные query-параметры
	Body        any
	Status      int
	Response    any
	Errors      map[int]string
	Handler     http.HandlerFunc
}

func publicAPI(spaces *SpaceHandler, testimonials *TestimonialHandler) []apiOperation {
	return []apiOperation{
		{
			Method:      http.MethodGet,
			Pattern:     "/api/testimonials",
			OperationID: "listTestimonials",
			Summary:     "Published testimonials of a space, newest first",
			Tag:         "Testimonials",
			QueryParams: map[string]string{"spaceId": "The ID of the space to retrieve testimonials for."},
			Status:      http.StatusOK,
			Response:    testimonialsResponse{},
			Errors: map[int]string{
				http.StatusBadRequest:          "Invalid or missing spaceId.",
				http.StatusInternalServerError: "Internal Server Error.",
			},
			Handler: testimonials.List,
		},
		{
			Method:      http.MethodPost,
			Pattern:     "/api/testimonials/{id}",
			OperationID: "createTestimonial",
			Summary:     "Leave a testimonial in a space; it stays hidden until the owner publishes it",
			Tag:         "Testimonials",
			PathParams:  map[string]string{"id": "The ID of the space."},
			Body:        createTestimonialRequest{},
			Status:      http.StatusCreated,
			Response:    model.Testimonial{},
			Errors: map[int]string{
				http.StatusBadRequest:          "Invalid input.",
				http.StatusNotFound:            "Space not found.",
				http.StatusTooManyRequests:     "Too many submissions from this address.",
				http.StatusInternalServerError: "Internal Server Error.",
			},
			Handler: testimonials.Create,
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/api/spaces/{id}/wall",
			OperationID: "getWall",
			Summary:     "Wall of love: published testimonials of a space",
			Tag:         "Spaces",
			PathParams:  map[string]string{"id": "The ID of the space."},
			Status:      http.StatusOK,
			Response:    model.Wall{},
			Errors: map[int]string{
				http.StatusNotFound:            "Space not found.",
				http.StatusInternalServerError: "Internal Server Error.",
			},
			Handler: spaces.Wall,
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/api/spaces/{id}/collector",
			OperationID: "getCollectorConfig",
			Summary:     "Public settings of the testimonial collection form",
			Tag:         "Spaces",
			PathParams:  map[string]string{"id": "The ID of the space."},
			Status:      http.StatusOK,
			Response:    model.CollectorConfig{},
			Errors: map[int]string{
				http.StatusNotFound:            "Space not found.",
				http.StatusInternalServerError: "Internal Server Error.",
			},
			Handler: spaces.Collector,
		},
	}
}

var pathParamRe = regexp.MustCompile(`\{([^}/]+)\}`)

// buildOpenAPI собирает и проверяет документ; схемы выводятся из Go-типов запросов и ответов
func buildOpenAPI(ctx context.Context, serverURL string, ops []apiOperation) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Testify API",
			Version:     "1.0.0",
			Description: "API for managing Testify spaces and testimonials.",
		},
		Servers: openapi3.Servers{{URL: serverURL, Description: "Current environment"}},
		Paths:   openapi3.NewPaths(),
	}

	schemas := openapi3.Schemas{}
	schemaOf := func(v any) (*openapi3.SchemaRef, error) {
		return openapi3gen.NewSchemaRefForValue(v, schemas)
	}
	errSchema, err := schemaOf(errorResponse{})
	if err != nil {
		return nil, fmt.Errorf("error schema: %w", err)
	}

	for _, op := range ops {
		o := openapi3.NewOperation()
		o.OperationID = op.OperationID
		o.Summary = op.Summary
		o.Tags = []string{op.Tag}

		for _, m := range pathParamRe.FindAllStringSubmatch(op.Pattern, -1) {
			p := openapi3.NewPathParameter(m[1]).
				WithDescription(op.PathParams[m[1]]).
				WithSchema(openapi3.NewStringSchema())
			o.Parameters = append(o.Parameters, &openapi3.ParameterRef{Value: p})
		}
		for _, name := range sortedKeys(op.QueryParams) {
			p := openapi3.NewQueryParameter(name).
				WithDescription(op.QueryParams[name]).
				WithRequired(true).
				WithSchema(openapi3.NewStringSchema())
			o.Parameters = append(o.Parameters, &openapi3.ParameterRef{Value: p})
		}

		if op.Body != nil {
			body, err := schemaOf(op.Body)
			if err != nil {
				return nil, fmt.Errorf("%s body schema: %w", op.OperationID, err)
			}
			o.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(body),
			}
		}

		resp, err := schemaOf(op.Response)
		if err != nil {
			return nil, fmt.Errorf("%s response schema: %w", op.OperationID, err)
		}
		opts := []openapi3.NewResponsesOption{
			openapi3.WithStatus(op.Status, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription(http.StatusText(op.Status)).WithJSONSchemaRef(resp),
			}),
		}
		for _, code := range sortedKeys(op.Errors) {
			opts = append(opts, openapi3.WithStatus(code, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription(op.Errors[code]).WithJSONSchemaRef(errSchema),
			}))
		}
		o.Responses = openapi3.NewResponses(opts...)

		doc.AddOperation(op.Pattern, op.Method, o)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	return doc, nil
}

func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// OpenAPIHandler отдаёт описание публичного API; servers подставляется из конфигурации
func OpenAPIHandler(serverURL string, ops []apiOperation) (http.HandlerFunc, error) {
	doc, err := buildOpenAPI(context.Background(), serverURL, ops)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}, nil
}

var referenceTmpl = template.Must(template.New("reference").Parse(strings.TrimSpace(`
<!doctype html>
<html>
  <head>
    <title>Testify API Reference</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
  </head>
  <body>
    <script id="api-reference" data-url="{{.}}"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`)))

// ReferenceHandler — интерактивная справка по API (Scalar) поверх документа docURL
func ReferenceHandler(docURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = referenceTmpl.Execute(w, docURL)
	}
}
