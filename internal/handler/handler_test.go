package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attaboy/blackjack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	t.Run("200 with body", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("204 with nil body", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondJSON(w, http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestRespondError(t *testing.T) {
	t.Run("AppError maps to correct status", func(t *testing.T) {
		tests := []struct {
			err        *domain.AppError
			wantStatus int
			wantCode   string
		}{
			{domain.ErrInvalidEmail("bad"), 400, "INVALID_EMAIL"},
			{domain.ErrUnauthorized(), 401, "UNAUTHORIZED"},
			{domain.ErrNotYourTurn(), 403, "NOT_YOUR_TURN"},
			{domain.ErrGameNotFound(), 404, "GAME_NOT_FOUND"},
			{domain.ErrGameFinished(), 409, "GAME_FINISHED"},
			{domain.ErrEnrollmentClosed(), 410, "ENROLLMENT_CLOSED"},
			{domain.ErrRateLimitExceeded(), 429, "RATE_LIMIT_EXCEEDED"},
			{domain.ErrInternal("oops", nil), 500, "INTERNAL_ERROR"},
		}

		for _, tt := range tests {
			t.Run(tt.wantCode, func(t *testing.T) {
				w := httptest.NewRecorder()
				RespondError(w, tt.err)
				assert.Equal(t, tt.wantStatus, w.Code)

				var body map[string]any
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body["code"])
			})
		}
	})

	t.Run("details are included", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondError(w, domain.ErrInvalidPlayerCount(1, 10, 11))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "11", body.Details["provided"])
	})

	t.Run("generic error returns 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondError(w, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid JSON body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"name":"test","value":42}`)
		r := httptest.NewRequest(http.MethodPost, "/", body)
		var dst struct {
			Name  string `json:"name"`
			Value int    `json:"value"`
		}
		require.NoError(t, DecodeJSON(r, &dst))
		assert.Equal(t, "test", dst.Name)
		assert.Equal(t, 42, dst.Value)
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		body := bytes.NewBufferString(`{invalid`)
		r := httptest.NewRequest(http.MethodPost, "/", body)
		var dst map[string]any
		require.Error(t, DecodeJSON(r, &dst))
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates ID when none provided", func(t *testing.T) {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, GetRequestID(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("uses provided X-Request-ID", func(t *testing.T) {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "my-custom-id", GetRequestID(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Request-ID", "my-custom-id")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "my-custom-id", w.Header().Get("X-Request-ID"))
	})
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestJSONContentType(t *testing.T) {
	h := JSONContentType(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("specific origin echoed", func(t *testing.T) {
		h := CORS([]string{"https://play.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://play.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "https://play.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no header", func(t *testing.T) {
		h := CORS([]string{"https://play.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("OPTIONS returns 204", func(t *testing.T) {
		h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		r := httptest.NewRequest(http.MethodOptions, "/", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { h.ServeHTTP(w, r) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestDeprecationHeaders(t *testing.T) {
	h := DeprecationHeaders(6)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "v1", w.Header().Get("X-API-Version"))
	assert.Equal(t, "false", w.Header().Get("X-API-Deprecated"))
	assert.NotEmpty(t, w.Header().Get("X-API-Sunset-Date"))
}
