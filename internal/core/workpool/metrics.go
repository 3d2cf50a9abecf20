package workpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 结果类型标签
const (
	outcomeSolved    = "solved"
	outcomeCancelled = "cancelled"
	outcomeDrained   = "drained"
	outcomeEmpty     = "empty"
)

var (
	// WorkRequestsTotal 提交的工作请求数（Counter）
	WorkRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xpeed_work_requests_total",
			Help: "提交到工作池的请求总数",
		},
		[]string{"network"},
	)

	// WorkResultsTotal 完成回调数（Counter）
	WorkResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xpeed_work_results_total",
			Help: "工作完成回调总数（solved/cancelled/drained/empty）",
		},
		[]string{"network", "outcome"},
	)

	// WorkPending 排队中的工作数（Gauge）
	WorkPending = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xpeed_work_pending",
			Help: "排队等待认领的工作数",
		},
		[]string{"network"},
	)

	// WorkInFlight 计算中的工作数（Gauge）
	WorkInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xpeed_work_in_flight",
			Help: "已被工作线程认领、正在搜索的工作数",
		},
		[]string{"network"},
	)

	// WorkHashesTotal 哈希尝试次数（Counter）
	WorkHashesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xpeed_work_hashes_total",
			Help: "搜索后端累计哈希尝试次数",
		},
		[]string{"network", "engine"},
	)

	// WorkFaultsTotal 后端故障次数（Counter）
	WorkFaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xpeed_work_faults_total",
			Help: "搜索后端故障总数",
		},
		[]string{"network", "engine"},
	)

	// WorkGenerateSeconds 从提交到回调的耗时（Histogram，秒）
	WorkGenerateSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xpeed_work_generate_seconds",
			Help:    "工作从提交到完成回调的耗时（秒）",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"network", "outcome"},
	)
)

func init() {
	// 注册所有指标
	prometheus.MustRegister(WorkRequestsTotal)
	prometheus.MustRegister(WorkResultsTotal)
	prometheus.MustRegister(WorkPending)
	prometheus.MustRegister(WorkInFlight)
	prometheus.MustRegister(WorkHashesTotal)
	prometheus.MustRegister(WorkFaultsTotal)
	prometheus.MustRegister(WorkGenerateSeconds)
}
