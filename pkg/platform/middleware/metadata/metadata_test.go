package metadata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"digitalidentity/pkg/requestcontext"
)

type MetadataSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestMetadataSuite(t *testing.T) {
	suite.Run(t, new(MetadataSuite))
}

func (s *MetadataSuite) SetupSuite() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newRouter captures the context seen by the final handler.
func (s *MetadataSuite) newRouter(captured *context.Context, extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(Correlation(s.logger))
	r.Use(CallerMetadata)
	for _, mw := range extra {
		r.Use(mw)
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		*captured = r.Context()
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (s *MetadataSuite) TestCorrelation() {
	s.Run("keeps a valid correlation id", func() {
		var captured context.Context
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, id)
		rec := httptest.NewRecorder()

		s.newRouter(&captured).ServeHTTP(rec, req)

		s.Equal(id, requestcontext.RequestID(captured))
		s.Equal(id, rec.Header().Get(HeaderCorrelationID))
	})

	s.Run("generates one when header is not a guid", func() {
		var captured context.Context
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, "abc")
		rec := httptest.NewRecorder()

		s.newRouter(&captured).ServeHTTP(rec, req)

		got := requestcontext.RequestID(captured)
		_, err := uuid.Parse(got)
		s.NoError(err)
		s.NotEqual("abc", got)
	})

	s.Run("generates one when header is missing", func() {
		var captured context.Context
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.newRouter(&captured).ServeHTTP(rec, req)

		s.NotEmpty(requestcontext.RequestID(captured))
	})
}

func (s *MetadataSuite) TestRequireTouchpoint() {
	s.Run("missing touchpoint is rejected", func() {
		var captured context.Context
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.newRouter(&captured, RequireTouchpoint(s.logger)).ServeHTTP(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Nil(captured, "handler must not run")
	})

	s.Run("touchpoint is stored in context", func() {
		var captured context.Context
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderTouchpointID, "0000000101")
		rec := httptest.NewRecorder()

		s.newRouter(&captured, RequireTouchpoint(s.logger)).ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
		s.Equal("0000000101", requestcontext.TouchpointID(captured))
	})
}

func (s *MetadataSuite) TestRequireCallbackURL() {
	s.Run("missing apimurl is rejected", func() {
		var captured context.Context
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderTouchpointID, "0000000101")
		rec := httptest.NewRecorder()

		s.newRouter(&captured, RequireTouchpoint(s.logger), RequireCallbackURL(s.logger)).ServeHTTP(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("apimurl is stored in context", func() {
		var captured context.Context
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderTouchpointID, "0000000101")
		req.Header.Set(HeaderCallbackURL, "https://apim.example.com/identities/")
		rec := httptest.NewRecorder()

		s.newRouter(&captured, RequireTouchpoint(s.logger), RequireCallbackURL(s.logger)).ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
		s.Equal("https://apim.example.com/identities/", requestcontext.CallbackURL(captured))
	})
}
