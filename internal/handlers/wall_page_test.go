package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallPage(t *testing.T) {
	s := newTestServer(t, 5)
	owner := s.register(t, "acme")
	space := createSpace(t, s, owner, "Acme")

	t.Run("empty wall", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/spaces/"+space.ID+"/wall?backgroundColor=F5F1EB", nil, 0)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rr.Body.String(), "No testimonials published yet.")
		assert.Contains(t, rr.Body.String(), "#F5F1EB")
	})

	t.Run("published cards with colors", func(t *testing.T) {
		tm := submit(t, s, space.ID, "jane", "1.1.1.1")
		hidden := submit(t, s, space.ID, "ghost", "1.1.1.1")
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/testimonials/"+tm.ID+"/publish", nil, owner).Code)

		rr := s.do(t, http.MethodGet, "/spaces/"+space.ID+"/wall?cardColor=fffdfa&cardTextColor=%3Cscript%3E", nil, 0)
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "jane")
		assert.Contains(t, body, "@jane")
		assert.Contains(t, body, "background-color: #fffdfa")
		assert.NotContains(t, body, hidden.AuthorName)
		assert.NotContains(t, body, "<script>")
	})

	t.Run("unknown space", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/spaces/00000000-0000-0000-0000-000000000000/wall", nil, 0)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Could not load testimonials.")
	})
}

func TestOpenAPIDoc(t *testing.T) {
	s := newTestServer(t, 5)

	rr := s.do(t, http.MethodGet, "/api/doc", nil, 0)
	require.Equal(t, http.StatusOK, rr.Code, "document must build and validate")

	type operation struct {
		OperationID string `json:"operationId"`
		RequestBody *struct {
			Content map[string]struct {
				Schema struct {
					Properties map[string]any `json:"properties"`
				} `json:"schema"`
			} `json:"content"`
		} `json:"requestBody"`
		Responses map[string]struct {
			Content map[string]struct {
				Schema struct {
					Properties map[string]any `json:"properties"`
				} `json:"schema"`
			} `json:"content"`
		} `json:"responses"`
	}
	var doc struct {
		OpenAPI string `json:"openapi"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.True(t, strings.HasPrefix(doc.OpenAPI, "3.0"))
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, s.cfg.AppURL, doc.Servers[0].URL)

	// каждая публичная операция роутера описана, и каждая описанная обслуживается
	served := map[string]bool{}
	routes, ok := s.router.(chi.Routes)
	require.True(t, ok)
	require.NoError(t, chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		served[method+" "+route] = true
		return nil
	}))
	public := []string{
		"GET /api/testimonials",
		"POST /api/testimonials/{id}",
		"GET /api/spaces/{id}/wall",
		"GET /api/spaces/{id}/collector",
	}
	documented := map[string]bool{}
	for path, ops := range doc.Paths {
		for method := range ops {
			key := strings.ToUpper(method) + " " + path
			documented[key] = true
			assert.True(t, served[key], "documented but not routed: %s", key)
		}
	}
	for _, key := range public {
		assert.True(t, served[key], "not routed: %s", key)
		assert.True(t, documented[key], "not documented: %s", key)
	}

	// схемы выводятся из типов запросов и ответов
	create := doc.Paths["/api/testimonials/{id}"]["post"]
	require.NotNil(t, create.RequestBody)
	body := create.RequestBody.Content["application/json"].Schema.Properties
	assert.Contains(t, body, "authorName")
	assert.Contains(t, body, "socialUrl")
	assert.NotContains(t, body, "isPublished", "publish flag is not client input")
	created := create.Responses["201"].Content["application/json"].Schema.Properties
	assert.Contains(t, created, "isPublished")
	assert.Contains(t, create.Responses, "429")

	list := doc.Paths["/api/testimonials"]["get"]
	assert.Contains(t, list.Responses["200"].Content["application/json"].Schema.Properties, "testimonials")
	assert.Contains(t, list.Responses["400"].Content["application/json"].Schema.Properties, "error")
}

func TestAPIReference(t *testing.T) {
	s := newTestServer(t, 5)

	rr := s.do(t, http.MethodGet, "/api/reference", nil, 0)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `data-url="/api/doc"`)
}
