// Package metrics exports image pipeline telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"grokimg/internal/domain"
)

const defaultNamespace = "grokimg"

// Observer captures telemetry for image operations.
type Observer interface {
	RecordUpload(kind domain.ImageKind, duration time.Duration, sizeBytes int, err error)
	RecordStore(sizeBytes int, err error)
}

// PrometheusObserver exports image metrics to Prometheus.
type PrometheusObserver struct {
	uploadDuration *prometheus.HistogramVec
	uploadErrors   *prometheus.CounterVec
	uploadBytes    prometheus.Counter
	storedImages   *prometheus.CounterVec
}

// NewPrometheusObserver registers upload and store metrics on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Latency of resolving and uploading an image to Grok.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		uploadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_errors_total",
			Help:      "Count of failed Grok uploads by input kind and failure stage.",
		}, []string{"kind", "reason"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_base64_bytes_total",
			Help:      "Cumulative base64 payload size successfully uploaded to Grok.",
		}),
		storedImages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_images_total",
			Help:      "Count of images written to the local cache by result.",
		}, []string{"result"}),
	}

	var err error
	if o.uploadDuration, err = register(reg, o.uploadDuration); err != nil {
		return nil, err
	}
	if o.uploadErrors, err = register(reg, o.uploadErrors); err != nil {
		return nil, err
	}
	if o.uploadBytes, err = register(reg, o.uploadBytes); err != nil {
		return nil, err
	}
	if o.storedImages, err = register(reg, o.storedImages); err != nil {
		return nil, err
	}
	return o, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register image metric: %w", err)
	}
	return c, nil
}

// RecordUpload tracks upload latency, payload size, and failures.
func (o *PrometheusObserver) RecordUpload(kind domain.ImageKind, duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	o.uploadDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
	if err != nil {
		o.uploadErrors.WithLabelValues(string(kind), failureReason(err)).Inc()
		return
	}
	o.uploadBytes.Add(float64(sizeBytes))
}

// RecordStore counts local cache writes.
func (o *PrometheusObserver) RecordStore(_ int, err error) {
	if o == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = failureReason(err)
	}
	o.storedImages.WithLabelValues(result).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDownloadFailed):
		return "download"
	case errors.Is(err, domain.ErrUploadFailed):
		return "upstream"
	case errors.Is(err, domain.ErrImageTooLarge):
		return "too_large"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return "unsupported_type"
	case errors.Is(err, domain.ErrEmptyImage):
		return "empty"
	default:
		return "other"
	}
}

type nopObserver struct{}

func (nopObserver) RecordUpload(domain.ImageKind, time.Duration, int, error) {}

func (nopObserver) RecordStore(int, error) {}

// Nop returns an Observer that discards everything.
func Nop() Observer {
	return nopObserver{}
}
