package http //nolint:testpackage // Shares the package name with net/http.

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/skill4green/internal/advisor"
	"github.com/davidbz/skill4green/internal/catalog"
	"github.com/davidbz/skill4green/internal/config"
	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/mocks"
	"github.com/davidbz/skill4green/internal/provider/echo"
	"github.com/davidbz/skill4green/internal/vision/ssim"
)

type testDeps struct {
	generator  *mocks.MockGenerator
	similarity *mocks.MockSimilarityOracle
	detector   *mocks.MockDetector
	router     http.Handler
}

func newTestDeps(t *testing.T, serverCfg *config.ServerConfig) *testDeps {
	t.Helper()

	c, err := catalog.New(nil)
	require.NoError(t, err)

	deps := &testDeps{
		generator:  mocks.NewMockGenerator(t),
		similarity: mocks.NewMockSimilarityOracle(t),
		detector:   mocks.NewMockDetector(t),
	}

	calculator := domain.NewImpactCalculator(c, &domain.ImpactConfig{
		EmissionFactor: 0.084,
		Tariff:         0.95,
		CurrencySymbol: "R$",
	})
	verification := domain.NewVerificationService(deps.similarity, deps.detector, &domain.VerificationConfig{
		SimilarityThreshold: 0.75,
		DeltaMin:            1,
	})

	handler := NewHandler(
		advisor.NewService(deps.generator, calculator),
		verification,
		domain.NewGenerationService(echo.NewProvider()),
		serverCfg,
	)
	deps.router = NewRouter(handler, nil)

	return deps
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, path string, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, data := range files {
		part, err := writer.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestHandleHealth(t *testing.T) {
	deps := newTestDeps(t, nil)

	w := doJSON(t, deps.router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, healthResponse{Status: "ok", Model: "echo"}, decodeBody[healthResponse](t, w))
}

func TestHandleRecommendations(t *testing.T) {
	t.Run("should return parsed items truncated to max_items", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.generator.EXPECT().
			Generate(mock.Anything, mock.Anything, 0.5, 500).
			Return("- Turn off AC\n- Swap to LED\n- Sleep monitors").
			Once()

		w := doJSON(t, deps.router, http.MethodPost, "/ai/recommendations",
			`{"user_summary":{"user":{"id":"u1","name":"Ana"},"department":"IT","skills":["automation"],
			  "recent_tasks":[{"task_code":"LED_REPLACE","count":2}],"goals":{"dept_kwh_reduction_pct":5}},
			  "max_items":2}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, []string{"Turn off AC", "Swap to LED"}, decodeBody[advisor.Recommendations](t, w).Items)
	})

	t.Run("should default max_items and fall back on empty generation", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.generator.EXPECT().Generate(mock.Anything, mock.Anything, 0.5, 500).Return("").Once()

		w := doJSON(t, deps.router, http.MethodPost, "/ai/recommendations", `{"user_summary":{"user":{"id":"u1"}}}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, advisor.FallbackRecommendations[:4], decodeBody[advisor.Recommendations](t, w).Items)
	})

	t.Run("should use refresh temperature on refresh endpoint", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.generator.EXPECT().Generate(mock.Anything, mock.Anything, 0.6, 500).Return("Fresh idea").Once()

		w := doJSON(t, deps.router, http.MethodPost, "/ai/recommendations/refresh", `{"user_summary":{"user":{"id":"u1"}}}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, []string{"Fresh idea"}, decodeBody[advisor.Recommendations](t, w).Items)
	})

	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "malformed json", body: `{"user_summary":`, detail: "invalid request body"},
		{name: "missing user_summary", body: `{"max_items":2}`, detail: "user_summary is required"},
		{name: "missing user id", body: `{"user_summary":{"user":{}}}`, detail: "user_summary.user.id is required"},
		{name: "max_items too small", body: `{"user_summary":{"user":{"id":"u1"}},"max_items":0}`, detail: "max_items"},
		{name: "max_items too large", body: `{"user_summary":{"user":{"id":"u1"}},"max_items":9}`, detail: "max_items"},
	}

	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			deps := newTestDeps(t, nil)

			w := doJSON(t, deps.router, http.MethodPost, "/ai/recommendations", tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			require.Contains(t, decodeBody[errorResponse](t, w).Detail, tt.detail)
		})
	}
}

func TestHandleMotivation(t *testing.T) {
	t.Run("should compute impact and render template on empty generation", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.generator.EXPECT().Generate(mock.Anything, mock.Anything, 0.4, 160).Return("").Once()

		w := doJSON(t, deps.router, http.MethodPost, "/ai/motivation",
			`{"task_code":"LED_REPLACE","executions":2,"name":"Ana"}`)

		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody[advisor.Motivation](t, w)
		require.Equal(t, "LED_REPLACE", body.Computed.TaskCode)
		require.Equal(t, 2, body.Computed.Executions)
		require.InDelta(t, 1.0, body.Computed.KWh, 1e-9)
		require.InDelta(t, 0.084, body.Computed.CO2, 1e-9)
		require.InDelta(t, 0.95, body.Computed.Cost, 1e-9)
		require.True(t, strings.HasPrefix(body.Message, "Congratulations, Ana!"))
	})

	t.Run("should default executions to 1", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.generator.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("Nice work!").Once()

		w := doJSON(t, deps.router, http.MethodPost, "/ai/motivation", `{"task_code":"AC_OFF_AFTER_HOURS"}`)

		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody[advisor.Motivation](t, w)
		require.Equal(t, "Nice work!", body.Message)
		require.Equal(t, 1, body.Computed.Executions)
		require.InDelta(t, 1.2, body.Computed.KWh, 1e-9)
	})

	t.Run("should reject missing task_code", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		w := doJSON(t, deps.router, http.MethodPost, "/ai/motivation", `{"executions":1}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, decodeBody[errorResponse](t, w).Detail, "task_code")
	})

	t.Run("should reject zero executions", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		w := doJSON(t, deps.router, http.MethodPost, "/ai/motivation", `{"task_code":"LED_REPLACE","executions":0}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, decodeBody[errorResponse](t, w).Detail, "executions")
	})

	t.Run("should reject wrong method", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		w := doJSON(t, deps.router, http.MethodGet, "/ai/motivation", "")

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleCompare(t *testing.T) {
	t.Run("should return score and verdict", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.similarity.EXPECT().Score(mock.Anything, []byte("b"), []byte("a")).Return(0.5, nil).Once()

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/compare", map[string][]byte{"before": []byte("b"), "after": []byte("a")}))

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, domain.Comparison{SSIM: 0.5, Verdict: domain.VerdictChanged}, decodeBody[domain.Comparison](t, w))
	})

	t.Run("should return 400 for undecodable image", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.similarity.EXPECT().
			Score(mock.Anything, mock.Anything, mock.Anything).
			Return(0, fmt.Errorf("before image: %w", domain.ErrInvalidImage)).
			Once()

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/compare", map[string][]byte{"before": []byte("x"), "after": []byte("y")}))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, decodeBody[errorResponse](t, w).Detail, "invalid image")
	})

	t.Run("should return 400 for an image declaring huge dimensions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
		small := buf.Bytes()

		huge := bytes.Clone(small)
		binary.BigEndian.PutUint32(huge[16:20], 60000)
		binary.BigEndian.PutUint32(huge[20:24], 60000)
		binary.BigEndian.PutUint32(huge[29:33], crc32.ChecksumIEEE(huge[12:29]))

		verification := domain.NewVerificationService(
			ssim.NewOracle(&ssim.Config{ImageSize: 64, MaxPixels: 1 << 26}),
			mocks.NewMockDetector(t),
			&domain.VerificationConfig{SimilarityThreshold: 0.75, DeltaMin: 1},
		)
		router := NewRouter(NewHandler(nil, verification, nil, nil), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, multipartRequest(t, "/cv/compare", map[string][]byte{"before": small, "after": huge}))

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, decodeBody[errorResponse](t, w).Detail, "invalid image")
	})

	t.Run("should return 500 without leaking unexpected errors", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.similarity.EXPECT().
			Score(mock.Anything, mock.Anything, mock.Anything).
			Return(0, errors.New("secret internal state")).
			Once()

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/compare", map[string][]byte{"before": []byte("x"), "after": []byte("y")}))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotContains(t, w.Body.String(), "secret")
	})
}

func TestHandleVerify(t *testing.T) {
	t.Run("should degrade when the detector fails", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.similarity.EXPECT().Score(mock.Anything, mock.Anything, mock.Anything).Return(0.9, nil).Once()
		deps.detector.EXPECT().
			Detect(mock.Anything, mock.Anything).
			Return(nil, domain.ErrDetectorUnavailable).
			Maybe()

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/verify", map[string][]byte{"before": []byte("b"), "after": []byte("a")}))

		require.Equal(t, http.StatusOK, w.Code)

		verdict := decodeBody[domain.VerificationVerdict](t, w)
		require.Equal(t, domain.VerdictSmallChange, verdict.Verdict)
		require.False(t, verdict.Approved)
		require.Equal(t, domain.MessageRejected, verdict.Message)
		require.InDelta(t, 0.9, verdict.Similarity.Score, 1e-9)
		require.InDelta(t, 0.75, verdict.Similarity.Threshold, 1e-9)
		require.False(t, verdict.Detection.Enabled)
		require.False(t, verdict.Detection.Changed)
	})

	t.Run("should approve on class count change", func(t *testing.T) {
		deps := newTestDeps(t, nil)
		deps.similarity.EXPECT().Score(mock.Anything, mock.Anything, mock.Anything).Return(0.95, nil).Once()
		deps.detector.EXPECT().
			Detect(mock.Anything, []byte("b")).
			Return(&domain.Detection{Counts: domain.ClassCountHistogram{"bottle": 3}, Total: 3}, nil).
			Once()
		deps.detector.EXPECT().
			Detect(mock.Anything, []byte("a")).
			Return(&domain.Detection{Counts: domain.ClassCountHistogram{"bottle": 1}, Total: 1}, nil).
			Once()

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/verify", map[string][]byte{"before": []byte("b"), "after": []byte("a")}))

		require.Equal(t, http.StatusOK, w.Code)

		verdict := decodeBody[domain.VerificationVerdict](t, w)
		require.Equal(t, domain.VerdictChanged, verdict.Verdict)
		require.True(t, verdict.Approved)
		require.True(t, verdict.Detection.Enabled)
		require.Equal(t, map[string]domain.ClassDelta{"bottle": {Before: 3, After: 1}}, verdict.Detection.ChangedClasses)
	})

	t.Run("should reject missing after file", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/verify", map[string][]byte{"before": []byte("b")}))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, decodeBody[errorResponse](t, w).Detail, "after file is required")
	})

	t.Run("should reject non multipart body", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		w := doJSON(t, deps.router, http.MethodPost, "/cv/verify", `{}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("should reject oversized uploads", func(t *testing.T) {
		deps := newTestDeps(t, &config.ServerConfig{MaxUploadMB: 1})

		big := bytes.Repeat([]byte("x"), 2<<20)

		w := httptest.NewRecorder()
		deps.router.ServeHTTP(w, multipartRequest(t, "/cv/verify", map[string][]byte{"before": big, "after": big}))

		require.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity}, w.Code)
	})
}
