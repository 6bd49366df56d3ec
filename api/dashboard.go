package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"flightdash/internal/domain"
	"flightdash/internal/pipeline"
	"flightdash/internal/service/dashboard"
)

type DashboardHandler struct {
	service dashboard.DashboardUseCase
}

func NewDashboardHandler(service dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.flights)
	router.GET("/flights/export", h.export)
	router.GET("/metrics", h.metrics)
	router.GET("/options", h.options)
	router.GET("/charts/price-by-airline", h.priceByAirline)
	router.GET("/charts/price-by-days-left", h.priceByDaysLeft)
}

type flightsResponse struct {
	Empty bool                  `json:"empty"`
	Total int                   `json:"total"`
	Rows  []domain.FlightRecord `json:"rows"`
}

type metricsResponse struct {
	Empty        bool    `json:"empty"`
	TotalFlights int     `json:"total_flights"`
	AvgPrice     float64 `json:"avg_price"`
	AvgDuration  float64 `json:"avg_duration"`
	PriceRange   float64 `json:"price_range"`
}

type chartPoint struct {
	Key       string  `json:"key"`
	MeanPrice float64 `json:"mean_price"`
	Count     int     `json:"count"`
}

type chartResponse struct {
	Empty  bool         `json:"empty"`
	Series []chartPoint `json:"series"`
}

func (h *DashboardHandler) flights(c *gin.Context) {
	criteria, ok := parseCriteria(c)
	if !ok {
		return
	}

	view, err := h.service.View(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, err)
		return
	}

	rows := view.Rows
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	c.JSON(http.StatusOK, flightsResponse{
		Empty: view.Empty,
		Total: len(view.Rows),
		Rows:  rows,
	})
}

func (h *DashboardHandler) metrics(c *gin.Context) {
	criteria, ok := parseCriteria(c)
	if !ok {
		return
	}

	view, err := h.service.View(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, err)
		return
	}
	if view.Empty {
		c.JSON(http.StatusOK, metricsResponse{Empty: true})
		return
	}

	c.JSON(http.StatusOK, metricsResponse{
		TotalFlights: view.Metrics.Count,
		AvgPrice:     round1(view.Metrics.AvgPrice),
		AvgDuration:  round1(view.Metrics.AvgDuration),
		PriceRange:   view.Metrics.PriceRange,
	})
}

func (h *DashboardHandler) options(c *gin.Context) {
	options, err := h.service.Options(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *DashboardHandler) priceByAirline(c *gin.Context) {
	h.chart(c, func(view *dashboard.View) []pipeline.GroupStat { return view.PriceByAirline })
}

func (h *DashboardHandler) priceByDaysLeft(c *gin.Context) {
	h.chart(c, func(view *dashboard.View) []pipeline.GroupStat { return view.PriceByDaysLeft })
}

func (h *DashboardHandler) chart(c *gin.Context, series func(*dashboard.View) []pipeline.GroupStat) {
	criteria, ok := parseCriteria(c)
	if !ok {
		return
	}

	view, err := h.service.View(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, err)
		return
	}
	if view.Empty {
		c.JSON(http.StatusOK, chartResponse{Empty: true, Series: []chartPoint{}})
		return
	}

	stats := series(view)
	points := make([]chartPoint, len(stats))
	for i, s := range stats {
		points[i] = chartPoint{Key: s.Key, MeanPrice: round1(s.Mean), Count: s.Count}
	}
	c.JSON(http.StatusOK, chartResponse{Series: points})
}

// parseCriteria builds FilterCriteria from query parameters. Categorical
// parameters repeat (?airline=IndiGo&airline=Vistara); price_min and
// price_max must be supplied together. On invalid input it writes a 400 and
// returns ok=false.
func parseCriteria(c *gin.Context) (domain.FilterCriteria, bool) {
	criteria := domain.FilterCriteria{
		Airlines:          c.QueryArray("airline"),
		SourceCities:      c.QueryArray("source_city"),
		DestinationCities: c.QueryArray("destination_city"),
		Classes:           c.QueryArray("class"),
		Stops:             c.QueryArray("stops"),
	}

	minStr, hasMin := c.GetQuery("price_min")
	maxStr, hasMax := c.GetQuery("price_max")
	if hasMin != hasMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_min and price_max must be supplied together"})
		return criteria, false
	}
	if hasMin {
		priceMin, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_min"})
			return criteria, false
		}
		priceMax, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_max"})
			return criteria, false
		}
		criteria.Price = &domain.PriceRange{Min: priceMin, Max: priceMax}
	}
	return criteria, true
}

// writeError maps pipeline errors to status codes. A bad price range is the
// caller's fault; everything else, including a misconfigured column mapping,
// surfaces as a server error rather than being swallowed.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidPriceRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
