package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"go-component-cache/internal/cache"
	"go-component-cache/internal/cache/service"
	"go-component-cache/internal/cache/ttl"
	"go-component-cache/internal/interfaces"
	"go-component-cache/internal/interfaces/mock"
	"go-component-cache/internal/limiter"
	"go-component-cache/internal/models"
)

func testComponent(componentType, language string) models.Component {
	return models.Component{
		ComponentID:      "id-" + componentType + "-" + language,
		ComponentName:    componentType,
		ComponentType:    componentType,
		Language:         language,
		Template:         "<div>{l10n.title}</div>",
		LocalizedStrings: map[string]string{"title": "Hello"},
		Metadata: models.ComponentMetadata{
			LastUpdated:  "2024-01-15T10:30:00Z",
			RequiredKeys: []string{"title"},
		},
	}
}

// setupTestServer wires a server over a real cache and the given limiter
func setupTestServer(t *testing.T, ctrl *gomock.Controller, lim interfaces.Limiter) (*Server, *mock.MockGenerator) {
	t.Helper()

	componentCache, err := ttl.New[models.CacheKey, models.Component](16, time.Minute)
	require.NoError(t, err)

	if lim == nil {
		lim, err = limiter.New(4, time.Second, zaptest.NewLogger(t))
		require.NoError(t, err)
	}

	generator := mock.NewMockGenerator(ctrl)
	keyBuilder := cache.NewKeyBuilder(
		[]string{"welcome", "navigation", "user_profile", "footer"},
		[]string{"en", "es", "fr", "de"},
	)
	logger := zaptest.NewLogger(t)
	svc := service.NewComponentService(keyBuilder, componentCache, lim, generator, logger)

	return NewServer(svc, "en", logger), generator
}

func doRequest(t *testing.T, server *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	server.createRouter().ServeHTTP(w, req)
	return w
}

func TestHandleGetComponent_MissThenHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, generator := setupTestServer(t, ctrl, nil)
	generator.EXPECT().Generate(gomock.Any(), "welcome", "es").Return(testComponent("welcome", "es"), nil).Times(1)

	w := doRequest(t, server, http.MethodGet, "/api/component/welcome?lang=es")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var first ComponentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.Equal(t, "welcome", first.ComponentType)
	assert.Equal(t, "es", first.Language)
	assert.Equal(t, "Hello", first.LocalizedData["title"])

	w = doRequest(t, server, http.MethodGet, "/api/component/welcome?lang=es")
	require.Equal(t, http.StatusOK, w.Code)

	var second ComponentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.ComponentID, second.ComponentID)
}

func TestHandleGetComponent_DefaultLanguage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, generator := setupTestServer(t, ctrl, nil)
	generator.EXPECT().Generate(gomock.Any(), "footer", "en").Return(testComponent("footer", "en"), nil)

	w := doRequest(t, server, http.MethodGet, "/api/component/footer")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ComponentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "en", resp.Language)
}

func TestHandleGetComponent_Errors(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		generateErr    error
		expectGenerate bool
		expectedStatus int
		expectCatalog  bool
	}{
		{
			name:           "unknown component",
			target:         "/api/component/sidebar?lang=en",
			expectedStatus: http.StatusBadRequest,
			expectCatalog:  true,
		},
		{
			name:           "unknown language",
			target:         "/api/component/welcome?lang=xx",
			expectedStatus: http.StatusBadRequest,
			expectCatalog:  true,
		},
		{
			name:           "generation failure",
			target:         "/api/component/navigation?lang=fr",
			generateErr:    errors.New("template store unavailable"),
			expectGenerate: true,
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			server, generator := setupTestServer(t, ctrl, nil)
			if tt.expectGenerate {
				generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.Component{}, tt.generateErr)
			}

			w := doRequest(t, server, http.MethodGet, tt.target)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			if tt.expectCatalog {
				assert.Equal(t, []string{"footer", "navigation", "user_profile", "welcome"}, resp.AvailableComponents)
				assert.Equal(t, []string{"de", "en", "es", "fr"}, resp.AvailableLanguages)
			} else {
				assert.Empty(t, resp.AvailableComponents)
			}
		})
	}
}

func TestHandleGetComponent_AdmissionTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lim := mock.NewMockLimiter(ctrl)
	lim.EXPECT().Run(gomock.Any(), gomock.Any()).Return(&models.AdmissionTimeoutError{Timeout: 50 * time.Millisecond})

	server, _ := setupTestServer(t, ctrl, lim)

	w := doRequest(t, server, http.MethodGet, "/api/component/user_profile?lang=de")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestHandleInvalidateComponent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, generator := setupTestServer(t, ctrl, nil)
	generator.EXPECT().Generate(gomock.Any(), "welcome", "en").Return(testComponent("welcome", "en"), nil).Times(2)

	w := doRequest(t, server, http.MethodGet, "/api/component/welcome?lang=en")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodDelete, "/cache/component/welcome?lang=en")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/component/welcome?lang=en")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ComponentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Cached)

	w = doRequest(t, server, http.MethodDelete, "/cache/component/sidebar?lang=en")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHealthAndStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, generator := setupTestServer(t, ctrl, nil)
	generator.EXPECT().Generate(gomock.Any(), "footer", "fr").Return(testComponent("footer", "fr"), nil)

	w := doRequest(t, server, http.MethodGet, "/api/component/footer?lang=fr")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, serviceName, health.Service)
	assert.Equal(t, 1, health.CacheSize)
	assert.Equal(t, int64(4), health.ConcurrencyLimit)

	w = doRequest(t, server, http.MethodGet, "/cache/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.ServiceStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Cache.Size)
	assert.Equal(t, 16, stats.Cache.Capacity)
	assert.Equal(t, uint64(1), stats.Cache.Misses)
	assert.Equal(t, int64(4), stats.GenerationsLimit)
}

func TestMethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _ := setupTestServer(t, ctrl, nil)
	w := doRequest(t, server, http.MethodPost, "/api/component/welcome")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
