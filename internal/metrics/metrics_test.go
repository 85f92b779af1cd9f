package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_RecommendationsTotal(t *testing.T) {
	before := getCounterVecValue(RecommendationsTotal, "success")
	RecommendationsTotal.WithLabelValues("success").Inc()
	after := getCounterVecValue(RecommendationsTotal, "success")

	if after != before+1 {
		t.Errorf("Expected success counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_DataQualityExclusionsTotal(t *testing.T) {
	before := getCounterVecValue(DataQualityExclusionsTotal, "unknown_rating")
	DataQualityExclusionsTotal.WithLabelValues("unknown_rating").Inc()
	after := getCounterVecValue(DataQualityExclusionsTotal, "unknown_rating")

	if after != before+1 {
		t.Errorf("Expected exclusion counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9090)

	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected address 'localhost:9090', got '%s'", srv.Addr)
	}

	if srv.Handler == nil {
		t.Error("Expected handler to be set")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}
