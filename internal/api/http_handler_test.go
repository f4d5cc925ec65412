package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"knitting-catalog-service/internal/domain"
	"knitting-catalog-service/internal/metrics"
	"knitting-catalog-service/internal/service"
	"knitting-catalog-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDesignStorer is a mock implementation of store.DesignStorer
type MockDesignStorer struct {
	mock.Mock
}

func (m *MockDesignStorer) GetAll(ctx context.Context) iter.Seq2[domain.Design, error] {
	args := m.Called(ctx)
	return args.Get(0).(iter.Seq2[domain.Design, error])
}

// sequence yields designs and then err, if any.
func sequence(designs []domain.Design, err error) iter.Seq2[domain.Design, error] {
	return func(yield func(domain.Design, error) bool) {
		for _, d := range designs {
			if !yield(d, nil) {
				return
			}
		}
		if err != nil {
			yield(domain.Design{}, err)
		}
	}
}

// Helper function to get a pointer (useful for optional fields in domain structs)
func PtrTo[T any](v T) *T {
	return &v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Helper for setting up tests with a chi router and handler
func setupTestChiServer(t *testing.T, repo store.DesignStorer, m *metrics.Metrics) *httptest.Server {
	t.Helper()
	handler := NewHTTPHandler(service.NewDesignService(repo), discardLogger(), m)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func sampleDesign(t *testing.T) domain.Design {
	t.Helper()
	d, err := domain.DesignRecord{
		ID:            PtrTo(uuid.NewString()),
		Name:          PtrTo("test"),
		DesignType:    PtrTo("Sweater"),
		PatternType:   PtrTo("Text"),
		Stitches:      PtrTo(23.5),
		Rows:          PtrTo(25.0),
		TotalLength:   PtrTo(1.0),
		SleeveLength:  PtrTo(2.0),
		ShoulderWidth: PtrTo(3.0),
		BottomWidth:   PtrTo(4.0),
		ArmholeDepth:  PtrTo(5.0),
		Needle:        PtrTo("5.0mm"),
		Yarn:          nil,
		Extra:         nil,
		Price:         PtrTo(0),
		Pattern:       PtrTo("# Step1. 코를 10개 잡습니다."),
		CreatedAt:     PtrTo(time.Now().UTC().Truncate(time.Microsecond)),
	}.ToDesign()
	require.NoError(t, err)
	return d
}

func getDesigns(t *testing.T, server *httptest.Server) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, server.URL+"/designs/", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestHTTPHandler_ListDesigns_Success(t *testing.T) {
	repo := new(MockDesignStorer)
	design := sampleDesign(t)
	repo.On("GetAll", mock.Anything).Return(sequence([]domain.Design{design}, nil)).Once()
	server := setupTestChiServer(t, repo, nil)

	res := getDesigns(t, server)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var body []domain.Design
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body, 1)

	first := body[0]
	assert.Equal(t, design.ID, first.ID)
	assert.Equal(t, "test", first.Name)
	assert.Equal(t, domain.DesignTypeSweater, first.DesignType)
	assert.Equal(t, domain.PatternTypeText, first.PatternType)
	assert.Equal(t, 23.5, first.Gauge.Stitches())
	assert.Equal(t, 25.0, first.Gauge.Rows())
	require.NotNil(t, first.Needle)
	assert.Equal(t, "5.0mm", *first.Needle)
	assert.Nil(t, first.Yarn)
	assert.Nil(t, first.Extra)
	assert.Equal(t, 0, first.Price.Value())
	for i, l := range []domain.Length{
		first.Size.TotalLength(),
		first.Size.SleeveLength(),
		first.Size.ShoulderWidth(),
		first.Size.BottomWidth(),
		first.Size.ArmholeDepth(),
	} {
		v, ok := l.Value()
		assert.True(t, ok)
		assert.Equal(t, float64(i+1), v)
	}
	assert.Equal(t, "# Step1. 코를 10개 잡습니다.", first.Pattern.Value())
	assert.True(t, design.CreatedAt.Equal(first.CreatedAt))

	repo.AssertExpectations(t)
}

func TestHTTPHandler_ListDesigns_NullsAreRenderedAsNull(t *testing.T) {
	repo := new(MockDesignStorer)
	repo.On("GetAll", mock.Anything).Return(sequence([]domain.Design{sampleDesign(t)}, nil)).Once()
	server := setupTestChiServer(t, repo, nil)

	res := getDesigns(t, server)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body []map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body, 1)
	for _, key := range []string{"yarn", "extra"} {
		raw, present := body[0][key]
		require.True(t, present, "%s must not be omitted", key)
		assert.Equal(t, "null", string(raw))
	}
}

func TestHTTPHandler_ListDesigns_PreservesOrderAndCount(t *testing.T) {
	repo := new(MockDesignStorer)
	designs := []domain.Design{sampleDesign(t), sampleDesign(t), sampleDesign(t)}
	repo.On("GetAll", mock.Anything).Return(sequence(designs, nil)).Once()
	server := setupTestChiServer(t, repo, nil)

	res := getDesigns(t, server)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body []domain.Design
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body, len(designs))
	for i := range designs {
		assert.Equal(t, designs[i].ID, body[i].ID)
	}
}

func TestHTTPHandler_ListDesigns_Empty(t *testing.T) {
	repo := new(MockDesignStorer)
	repo.On("GetAll", mock.Anything).Return(sequence(nil, nil)).Once()
	server := setupTestChiServer(t, repo, nil)

	res := getDesigns(t, server)
	require.Equal(t, http.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestHTTPHandler_ListDesigns_FailsMidStream(t *testing.T) {
	repo := new(MockDesignStorer)
	upstreamErr := &store.UpstreamError{Op: "GetAll iteration", Err: errors.New("connection reset")}
	repo.On("GetAll", mock.Anything).
		Return(sequence([]domain.Design{sampleDesign(t)}, upstreamErr)).Once()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	server := setupTestChiServer(t, repo, m)

	res := getDesigns(t, server)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&errResp))
	assert.Equal(t, "Failed to retrieve designs", errResp.Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListRequests.WithLabelValues("http", metrics.OutcomeFailure)))

	repo.AssertExpectations(t)
}

func TestHTTPHandler_ListDesigns_MappingErrorIsServerError(t *testing.T) {
	repo := new(MockDesignStorer)
	repo.On("GetAll", mock.Anything).
		Return(sequence(nil, &domain.MappingError{Field: "designType", Reason: "unknown value Shawl"})).Once()
	server := setupTestChiServer(t, repo, nil)

	res := getDesigns(t, server)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestHTTPHandler_ListDesigns_RecordsSuccessMetrics(t *testing.T) {
	repo := new(MockDesignStorer)
	repo.On("GetAll", mock.Anything).
		Return(sequence([]domain.Design{sampleDesign(t), sampleDesign(t)}, nil)).Once()
	m := metrics.New(prometheus.NewRegistry())
	server := setupTestChiServer(t, repo, m)

	res := getDesigns(t, server)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListRequests.WithLabelValues("http", metrics.OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DesignsServed.WithLabelValues("http")))
}

func TestHTTPHandler_ListDesigns_EncodeFailureIsRecordedAsFailure(t *testing.T) {
	repo := new(MockDesignStorer)
	repo.On("GetAll", mock.Anything).
		Return(sequence([]domain.Design{sampleDesign(t)}, nil)).Once()
	m := metrics.New(prometheus.NewRegistry())
	handler := NewHTTPHandler(service.NewDesignService(repo), discardLogger(), m)
	handler.encode = func(any) ([]byte, error) {
		return nil, &json.UnsupportedValueError{Str: "NaN"}
	}
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	res := getDesigns(t, server)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&errResp))
	assert.Equal(t, "Failed to retrieve designs", errResp.Error)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ListRequests.WithLabelValues("http", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListRequests.WithLabelValues("http", metrics.OutcomeFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DesignsServed.WithLabelValues("http")))
	repo.AssertExpectations(t)
}

func TestHTTPHandler_Routes(t *testing.T) {
	server := setupTestChiServer(t, store.NewMemoryStore(), nil)

	res, err := http.Get(server.URL + "/designs")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode, "only the trailing-slash route is registered")

	res, err = http.Post(server.URL+"/designs/", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
