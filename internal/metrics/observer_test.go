package metrics_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grokimg/internal/domain"
	"grokimg/internal/metrics"
)

func TestPrometheusObserver_RecordUpload(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := metrics.NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	o.RecordUpload(domain.ImageKindRemoteURL, 20*time.Millisecond, 128, nil)
	o.RecordUpload(domain.ImageKindRemoteURL, 5*time.Millisecond, 0,
		fmt.Errorf("resolving image: %w", &domain.DownloadError{StatusCode: 404}))
	o.RecordUpload(domain.ImageKindDataURI, time.Millisecond, 0, &domain.UploadError{StatusCode: 429})

	series, err := testutil.GatherAndCount(reg, "test_upload_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
	assert.Equal(t, float64(128), counterValue(t, reg, "test_uploaded_base64_bytes_total"))

	count, err := testutil.GatherAndCount(reg, "test_upload_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusObserver_RecordStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := metrics.NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	o.RecordStore(10, nil)
	o.RecordStore(10, nil)
	o.RecordStore(0, domain.ErrUnsupportedFileType)
	o.RecordStore(0, domain.ErrEmptyImage)

	expected := `
# HELP test_stored_images_total Count of images written to the local cache by result.
# TYPE test_stored_images_total counter
test_stored_images_total{result="empty"} 1
test_stored_images_total{result="ok"} 2
test_stored_images_total{result="unsupported_type"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_stored_images_total"))
}

func TestNewPrometheusObserver_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewPrometheusObserver("test", reg)
	require.NoError(t, err)
	second, err := metrics.NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	first.RecordStore(1, nil)
	second.RecordStore(1, nil)

	count, err := testutil.GatherAndCount(reg, "test_stored_images_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilObserverIsSafe(t *testing.T) {
	var o *metrics.PrometheusObserver

	assert.NotPanics(t, func() {
		o.RecordUpload(domain.ImageKindRawBase64, time.Second, 1, nil)
		o.RecordStore(1, nil)
	})
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.Nop().RecordUpload(domain.ImageKindRawBase64, time.Second, 1, nil)
		metrics.Nop().RecordStore(1, nil)
	})
}

func counterValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}
