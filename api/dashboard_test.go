package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"flightdash/internal/dataset"
	"flightdash/internal/domain"
	"flightdash/internal/pipeline"
	"flightdash/internal/service/dashboard"
)

// MockDashboardUseCase is a mock implementation of dashboard.DashboardUseCase
type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) View(ctx context.Context, criteria domain.FilterCriteria) (*dashboard.View, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.View), args.Error(1)
}

func (m *MockDashboardUseCase) Options(ctx context.Context) (*dashboard.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.FilterOptions), args.Error(1)
}

func (m *MockDashboardUseCase) Snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.Snapshot), args.Error(1)
}

func testView() *dashboard.View {
	return &dashboard.View{
		Rows: domain.Table{
			{Airline: "IndiGo", FlightNumber: "6E-201", Price: 5000, Duration: 2.5, DaysLeft: 10},
			{Airline: "IndiGo", FlightNumber: "6E-305", Price: 7000, Duration: 3.0, DaysLeft: 5},
		},
		Metrics: &pipeline.Metrics{Count: 2, AvgPrice: 6000, AvgDuration: 2.75, PriceRange: 2000},
		PriceByAirline: []pipeline.GroupStat{
			{Key: "IndiGo", Mean: 6000, Count: 2},
		},
		PriceByDaysLeft: []pipeline.GroupStat{
			{Key: "5", Mean: 7000, Count: 1},
			{Key: "10", Mean: 5000, Count: 1},
		},
	}
}

func TestDashboardHandler_flights(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?airline=IndiGo", nil)

	expected := domain.FilterCriteria{Airlines: []string{"IndiGo"}}
	mockService.On("View", c.Request.Context(), expected).Return(testView(), nil)

	handler.flights(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response flightsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Empty)
	assert.Equal(t, 2, response.Total)
	assert.Len(t, response.Rows, 2)
	assert.Equal(t, "6E-201", response.Rows[0].FlightNumber)

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_flights_limit(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?limit=1", nil)

	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(testView(), nil)

	handler.flights(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response flightsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Total)
	assert.Len(t, response.Rows, 1)
}

func TestDashboardHandler_metrics(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/metrics?airline=IndiGo", nil)

	view := testView()
	view.Metrics.AvgPrice = 6033.333333333333
	view.Metrics.AvgDuration = 2.7499999
	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(view, nil)

	handler.metrics(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response metricsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Empty)
	assert.Equal(t, 2, response.TotalFlights)
	assert.Equal(t, 6033.3, response.AvgPrice)
	assert.Equal(t, 2.7, response.AvgDuration)
	assert.Equal(t, 2000.0, response.PriceRange)
}

func TestDashboardHandler_metrics_empty(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/metrics?airline=NoSuchAirline", nil)

	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(&dashboard.View{Empty: true, Rows: domain.Table{}}, nil)

	handler.metrics(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response metricsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Empty)
	assert.Zero(t, response.TotalFlights)
}

func TestDashboardHandler_metrics_invalidRange(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/metrics?price_min=9000&price_max=5000", nil)

	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(nil, domain.ErrInvalidPriceRange)

	handler.metrics(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_priceRangeParams(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?price_min=5000&price_max=9000", nil)

	mockService.On("View", c.Request.Context(), mock.MatchedBy(func(criteria domain.FilterCriteria) bool {
		return criteria.Price != nil && criteria.Price.Min == 5000 && criteria.Price.Max == 9000
	})).Return(testView(), nil)

	handler.flights(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_priceMinWithoutMax(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?price_min=5000", nil)

	handler.flights(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "View")
}

func TestDashboardHandler_priceByAirline(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/charts/price-by-airline", nil)

	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(testView(), nil)

	handler.priceByAirline(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response chartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Empty)
	assert.Len(t, response.Series, 1)
	assert.Equal(t, "IndiGo", response.Series[0].Key)
	assert.Equal(t, 6000.0, response.Series[0].MeanPrice)
}

func TestDashboardHandler_priceByDaysLeft_empty(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/charts/price-by-days-left?class=First", nil)

	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(&dashboard.View{Empty: true, Rows: domain.Table{}}, nil)

	handler.priceByDaysLeft(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response chartResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Empty)
	assert.Empty(t, response.Series)
}

func TestDashboardHandler_options(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/options", nil)

	options := &dashboard.FilterOptions{
		Airlines: []string{"IndiGo", "Vistara"},
		PriceMin: 1105,
		PriceMax: 123071,
	}
	mockService.On("Options", c.Request.Context()).Return(options, nil)

	handler.options(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dashboard.FilterOptions
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"IndiGo", "Vistara"}, response.Airlines)
	assert.Equal(t, 123071.0, response.PriceMax)
}

func TestDashboardHandler_export(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights/export?airline=IndiGo", nil)

	mockService.On("View", c.Request.Context(), mock.AnythingOfType("domain.FilterCriteria")).Return(testView(), nil)

	handler.export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "flights.xlsx")
	assert.NotZero(t, w.Body.Len())
}
