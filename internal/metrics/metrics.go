// Package metrics exposes Prometheus instrumentation for the slideshow daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArtworkAdvances counts artwork handed to the display, by trigger ("timer", "next", "previous", "overlay")
	ArtworkAdvances = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framed_artwork_advances_total",
			Help: "Total number of artwork changes requested from the display",
		},
		[]string{"trigger"},
	)

	DisplayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framed_display_errors_total",
			Help: "Total number of failed display surface operations",
		},
		[]string{"operation"},
	)

	// Uploads counts uploads to the display by result ("success", "download_failed", "prepare_failed", "upload_failed")
	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framed_uploads_total",
			Help: "Total number of external artwork uploads attempted",
		},
		[]string{"result"},
	)

	ProviderArtworks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "framed_provider_artworks",
			Help: "Number of artworks returned by the last provider load",
		},
		[]string{"provider"},
	)

	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framed_provider_errors_total",
			Help: "Total number of failed provider catalog loads",
		},
		[]string{"provider"},
	)

	QueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "framed_queue_size",
			Help: "Number of artworks in the playback queue",
		},
	)

	PoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "framed_pool_size",
			Help: "Number of artworks available for random selection",
		},
	)

	RotationActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "framed_rotation_active",
			Help: "1 while the slideshow is running",
		},
	)
)
