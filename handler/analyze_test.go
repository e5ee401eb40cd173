package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devayan28/Outfitron/body"
	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/recommend"
	"github.com/Devayan28/Outfitron/service"
	"github.com/Devayan28/Outfitron/skin"
	"github.com/Devayan28/Outfitron/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnalyzer struct {
	calls  atomic.Int32
	result *model.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, _ []byte) (*model.AnalysisResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	return &r, nil
}

func testResult() *model.AnalysisResult {
	profile := skin.Profile{Tone: skin.ToneFair, Undertone: skin.UndertoneCool, Texture: skin.TextureSmooth}
	return &model.AnalysisResult{
		ID:        "id-1",
		Skin:      model.SkinSection{Profile: profile, TextureDescription: profile.TextureDescription()},
		BodyShape: body.Classification{Shape: body.ShapeAverage},
		Colors:    recommend.Palette(profile.Tone, profile.Undertone),
		Clothing:  recommend.Clothing(body.ShapeAverage),
		Skincare:  recommend.Skincare(profile.Tone, profile.Texture, profile.Undertone),
	}
}

func setup(t *testing.T, analyzer Analyzer) (*gin.Engine, *service.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Redis: config.RedisConfig{Addr: mr.Addr(), TTL: time.Hour},
		Upload: config.UploadConfig{
			MaxSize:      1024,
			UploadDir:    t.TempDir(),
			AllowedTypes: []string{"image/png", "image/jpeg"},
		},
		Analysis: config.AnalysisConfig{CleanupTempFiles: true},
	}
	cache := service.NewRedisService(&cfg.Redis)
	t.Cleanup(func() { _ = cache.Close() })

	metrics := service.NewMetrics()
	h := NewAnalyzeHandler(cfg, cache, analyzer, metrics)

	r := gin.New()
	r.POST("/analyze", h.Analyze)
	r.GET("/analysis/:key", h.GetByKey)
	r.GET("/metrics", h.Metrics)
	return r, metrics
}

type part struct {
	field, contentType string
	data               []byte
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s.png"`, p.field, p.field))
		header.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validParts() []part {
	return []part{
		{FieldSelfie, "image/png", []byte("selfie-bytes")},
		{FieldFullBody, "image/png", []byte("body-bytes")},
	}
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeCachesResult(t *testing.T) {
	analyzer := &stubAnalyzer{result: testResult()}
	r, metrics := setup(t, analyzer)

	w := do(r, multipartRequest(t, validParts()...))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.False(t, resp.Cached)
	wantKey := utils.PairKey([]byte("selfie-bytes"), []byte("body-bytes"))
	assert.Equal(t, wantKey, resp.Data.Key)
	assert.Equal(t, skin.ToneFair, resp.Data.Skin.Tone)

	w = do(r, multipartRequest(t, validParts()...))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	assert.Equal(t, int32(1), analyzer.calls.Load())
	assert.Equal(t, int64(1), metrics.Snapshot()["analyses{outcome=cached}"])

	w = do(r, httptest.NewRequest(http.MethodGet, "/analysis/"+wantKey, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, resp.Data.Colors, testResult().Colors)
}

func TestAnalyzeCleansUpUploads(t *testing.T) {
	analyzer := &stubAnalyzer{result: testResult()}
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	cfg := &config.Config{
		Upload:   config.UploadConfig{MaxSize: 1024, UploadDir: dir, AllowedTypes: []string{"image/png"}},
		Analysis: config.AnalysisConfig{CleanupTempFiles: true},
	}
	cache := service.NewRedisService(&config.RedisConfig{Addr: mr.Addr()})
	defer cache.Close()

	r := gin.New()
	r.POST("/analyze", NewAnalyzeHandler(cfg, cache, analyzer, nil).Analyze)
	require.Equal(t, http.StatusOK, do(r, multipartRequest(t, validParts()...)).Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzeRejectsBadUploads(t *testing.T) {
	r, _ := setup(t, &stubAnalyzer{result: testResult()})

	tests := []struct {
		name  string
		parts []part
	}{
		{"missing fullbody", []part{{FieldSelfie, "image/png", []byte("x")}}},
		{"missing selfie", []part{{FieldFullBody, "image/png", []byte("x")}}},
		{"wrong type", []part{{FieldSelfie, "image/gif", []byte("x")}, {FieldFullBody, "image/png", []byte("x")}}},
		{"too large", []part{{FieldSelfie, "image/png", bytes.Repeat([]byte("x"), 2048)}, {FieldFullBody, "image/png", []byte("x")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, multipartRequest(t, tt.parts...))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAnalyzeErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		stage  string
	}{
		{&service.AnalysisError{Stage: service.StageFaceDetect, Err: service.ErrNoFaceDetected}, http.StatusUnprocessableEntity, service.StageFaceDetect},
		{&service.AnalysisError{Stage: service.StageSkinSignal, Err: service.ErrNoSkinSignal}, http.StatusUnprocessableEntity, service.StageSkinSignal},
		{&service.AnalysisError{Stage: service.StageDecodeBody, Err: service.ErrUnreadableImage}, http.StatusBadRequest, service.StageDecodeBody},
		{&service.AnalysisError{Stage: service.StageQueue, Err: service.ErrQueueFull}, http.StatusServiceUnavailable, service.StageQueue},
		{fmt.Errorf("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r, _ := setup(t, &stubAnalyzer{err: tt.err})
			w := do(r, multipartRequest(t, validParts()...))
			assert.Equal(t, tt.status, w.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.stage, resp.Stage)
		})
	}
}

func TestGetByKeyNotFound(t *testing.T) {
	r, _ := setup(t, &stubAnalyzer{result: testResult()})
	w := do(r, httptest.NewRequest(http.MethodGet, "/analysis/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, metrics := setup(t, &stubAnalyzer{result: testResult()})
	metrics.RecordShape(context.Background(), body.ShapePear.String())

	w := do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"body_shapes{shape=Pear}":1}`, w.Body.String())
}
