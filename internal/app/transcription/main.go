package transcription

import (
	"time"

	"github.com/airenas/audio2text/internal/pkg/clean"
	"github.com/airenas/audio2text/internal/pkg/inform"
	"github.com/airenas/audio2text/internal/pkg/loader"
	"github.com/airenas/audio2text/internal/pkg/metrics"
	"github.com/airenas/audio2text/internal/pkg/mongo"
	"github.com/airenas/audio2text/internal/pkg/pool"
	"github.com/airenas/audio2text/internal/pkg/processor"
	"github.com/airenas/audio2text/internal/pkg/saver"
	"github.com/airenas/audio2text/internal/pkg/store"
	"github.com/airenas/audio2text/internal/pkg/transcriber"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/spf13/cobra"

	"github.com/heptiolabs/healthcheck"
)

var rootCmd = &cobra.Command{
	Use:   "transcriptionService",
	Short: "Audio transcription service",
	Long:  `HTTP server to upload audio files and track their transcription`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8000)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/jobs/")
	cmdapp.Config.SetDefault("pool.workers", 2)
	cmdapp.Config.SetDefault("transcriber.serialize", true)
	cmdapp.Config.SetDefault("clean.expire", 168*time.Hour)
	cmdapp.Config.SetDefault("clean.runEvery", 30*time.Minute)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting transcriptionService")
	var data ServiceData
	var err error
	data.health = healthcheck.NewHandler()
	fs, err := saver.NewLocalFileSaver(cmdapp.Config.GetString("fileStorage.path"))
	cmdapp.CheckOrPanic(err, "Can't init file storage")
	data.FileSaver = fs
	data.health.AddLivenessCheck("fs", fs.Healthy)
	data.FileLoader = loader.NewLocalFileLoader()

	data.JobStore = initStore(data.health)

	trans, err := transcriber.NewClient()
	cmdapp.CheckOrPanic(err, "Can't init transcriber")
	var tr transcriber.Transcriber = trans
	if cmdapp.Config.GetBool("transcriber.serialize") {
		tr = transcriber.Serialized(tr)
	}

	proc, err := processor.NewProcessor(data.JobStore, tr)
	cmdapp.CheckOrPanic(err, "Can't init job processor")
	initInformer(proc)

	wp, err := pool.NewPool(cmdapp.Config.GetInt("pool.workers"), proc.Process)
	cmdapp.CheckOrPanic(err, "Can't init worker pool")
	wp.Start()
	defer wp.Close()
	data.Dispatcher = wp

	stopCleaner := initCleaner(data.JobStore)
	defer stopCleaner()

	err = initMetrics(&data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")
	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

// initStore selects the job store.
// Mongo is used when configured and reachable, otherwise the service
// degrades to the in-memory store
func initStore(health healthcheck.Handler) store.Store {
	if cmdapp.Config.GetString("mongo.url") == "" {
		cmdapp.Log.Info("No mongo configured, using in-memory job store")
		return store.NewMemory()
	}
	sessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	err = sessionProvider.Healthy()
	if err != nil {
		cmdapp.Log.Warn(err)
		cmdapp.Log.Warn("Mongo is unreachable, using in-memory job store")
		sessionProvider.Close()
		return store.NewMemory()
	}
	jt, err := mongo.NewJobTable(sessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init mongo job table")
	health.AddLivenessCheck("mongo", healthcheck.Async(sessionProvider.Healthy, 10*time.Second))
	return jt
}

func initInformer(proc *processor.Processor) {
	if cmdapp.Config.GetString("mail.url") == "" {
		cmdapp.Log.Info("No mail configured, email notifications are off")
		return
	}
	maker, err := inform.NewSimpleEmailMaker(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't init email maker")
	sender, err := inform.NewSimpleEmailSender()
	cmdapp.CheckOrPanic(err, "Can't init email sender")
	informer, err := inform.NewEmailInformer(maker, sender)
	cmdapp.CheckOrPanic(err, "Can't init informer")
	proc.WithInformer(informer)
}

func initCleaner(st store.Store) func() {
	path := cmdapp.Config.GetString("fileStorage.path")
	cleaner, err := clean.NewCleaner(st, path)
	cmdapp.CheckOrPanic(err, "Can't init cleaner")
	idsProvider, err := clean.NewDirIDsProvider(path, cmdapp.Config.GetDuration("clean.expire"))
	cmdapp.CheckOrPanic(err, "Can't init old jobs provider")
	stop, err := clean.StartCleanTimer(cmdapp.Config.GetDuration("clean.runEvery"), cleaner, idsProvider)
	cmdapp.CheckOrPanic(err, "Can't start clean timer")
	return stop
}

func initMetrics(data *ServiceData) error {
	namespace := "transcription_service"
	data.metrics.uploadResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_request_durations_seconds",
			Help:      "Upload request latency distributions.",
		}, nil)
	err := metrics.Register(data.metrics.uploadResponseDur)
	if err != nil {
		return err
	}
	data.metrics.uploadRequestSize = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "upload_request_size_bytes",
			Help:      "Upload request size in bytes."}, nil)
	err = metrics.Register(data.metrics.uploadRequestSize)
	if err != nil {
		return err
	}
	data.metrics.statusResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "status_request_durations_seconds",
			Help:      "Status request latency distributions.",
		}, nil)
	err = metrics.Register(data.metrics.statusResponseDur)
	if err != nil {
		return err
	}
	data.metrics.resultResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "result_request_durations_seconds",
			Help:      "Result request latency distributions.",
		}, nil)
	err = metrics.Register(data.metrics.resultResponseDur)
	if err != nil {
		return err
	}
	data.metrics.resultResponseSize = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "result_response_size_bytes",
			Help:      "Result response size in bytes."}, nil)
	return metrics.Register(data.metrics.resultResponseSize)
}
