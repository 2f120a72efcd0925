package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemStore     = "store"
	SystemAuction   = "auction"
	SystemPayment   = "payment"
	SystemProjector = "projector"
)

const (
	MetricBatchDurationSeconds = "batch_duration_seconds"
	MetricBatchFailuresTotal   = "batch_failures_total"
	MetricAuctionsTotal        = "committed_total"
	MetricAuctionBidAmount     = "bid_amount"
	MetricPaymentsTotal        = "recorded_total"
	MetricEventsTotal          = "events_total"
	MetricLedgerAmountTotal    = "ledger_amount_total"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogram    = "histogram"
	TypeHistogramVec = "histogramVec"
)

type definition struct {
	kind      string
	subsystem string
	name      string
	help      string
	labels    []string
}

var definitions = []definition{
	{TypeHistogramVec, SystemStore, MetricBatchDurationSeconds, "Duration of atomic write batches.", []string{"result"}},
	{TypeCounterVec, SystemStore, MetricBatchFailuresTotal, "Failed write batches by failing op.", []string{"op"}},
	{TypeCounter, SystemAuction, MetricAuctionsTotal, "Auctions committed.", nil},
	{TypeHistogram, SystemAuction, MetricAuctionBidAmount, "Winning bid amounts in minor units.", nil},
	{TypeCounterVec, SystemPayment, MetricPaymentsTotal, "Payments recorded by channel.", []string{"channel"}},
	{TypeCounterVec, SystemProjector, MetricEventsTotal, "Ledger events projected by type and result.", []string{"type", "result"}},
	{TypeCounterVec, SystemProjector, MetricLedgerAmountTotal, "Ledger volume in minor units by entry kind.", []string{"kind"}},
}

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogram = make(map[string]prometheus.Histogram)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create registers every engine metric on the default registry and enables
// recording. It must be called once per process.
func Create(host string, env string, nameSpace string) error {
	return CreateWithRegisterer(prometheus.DefaultRegisterer, host, env, nameSpace)
}

func CreateWithRegisterer(reg prometheus.Registerer, host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace

	for _, d := range definitions {
		if err := createMetric(reg, d); err != nil {
			return fmt.Errorf("register %s_%s: %w", d.subsystem, d.name, err)
		}
	}
	MetricSystemEnabled = true
	return nil
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createMetric(reg prometheus.Registerer, d definition) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()

	key := d.subsystem + d.name
	switch d.kind {
	case TypeCounter:
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: d.subsystem, Name: d.name, Help: d.help, ConstLabels: defaultLabels,
		})
		MetricCollectionCounters[key] = c
		return reg.Register(c)
	case TypeCounterVec:
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: d.subsystem, Name: d.name, Help: d.help, ConstLabels: defaultLabels,
		}, d.labels)
		MetricCollectionCounterVec[key] = c
		return reg.Register(c)
	case TypeHistogram:
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: d.subsystem, Name: d.name, Help: d.help, ConstLabels: defaultLabels,
			Buckets: prometheus.ExponentialBuckets(1000, 4, 10),
		})
		MetricCollectionHistogram[key] = h
		return reg.Register(h)
	case TypeHistogramVec:
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: d.subsystem, Name: d.name, Help: d.help, ConstLabels: defaultLabels,
			Buckets: prometheus.DefBuckets,
		}, d.labels)
		MetricCollectionHistogramVec[key] = h
		return reg.Register(h)
	}
	return fmt.Errorf("metric type %s is not defined", d.kind)
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func AddHistogram(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogram[subsystem+name]; ok {
		v.Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram not found", "subsystem", subsystem, "name", name)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

// ObserveBatch records one atomic batch. failedOp is empty on success.
func ObserveBatch(seconds float64, failedOp string) {
	if failedOp == "" {
		AddHistogramVec(SystemStore, MetricBatchDurationSeconds, seconds, "ok")
		return
	}
	AddHistogramVec(SystemStore, MetricBatchDurationSeconds, seconds, "failed")
	AddCounterVec(SystemStore, MetricBatchFailuresTotal, 1, failedOp)
}

func AuctionCommitted(bid int64) {
	AddCounter(SystemAuction, MetricAuctionsTotal, 1)
	AddHistogram(SystemAuction, MetricAuctionBidAmount, float64(bid))
}

func PaymentRecorded(channel string) {
	if channel == "" {
		channel = "unknown"
	}
	AddCounterVec(SystemPayment, MetricPaymentsTotal, 1, channel)
}

func EventProjected(eventType string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	AddCounterVec(SystemProjector, MetricEventsTotal, 1, eventType, result)
}

func LedgerVolume(kind string, amount int64) {
	AddCounterVec(SystemProjector, MetricLedgerAmountTotal, float64(amount), kind)
}
