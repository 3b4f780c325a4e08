package transcription

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/airenas/audio2text/internal/app/transcription/api"
	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/airenas/audio2text/internal/pkg/loader"
	"github.com/airenas/audio2text/internal/pkg/output"
	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/airenas/audio2text/internal/pkg/status"
	"github.com/airenas/audio2text/internal/pkg/store"
	"github.com/badoux/checkmail"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heptiolabs/healthcheck"
)

type serviceMetric struct {
	uploadResponseDur prometheus.ObserverVec
	uploadRequestSize prometheus.ObserverVec

	statusResponseDur prometheus.ObserverVec

	resultResponseDur  prometheus.ObserverVec
	resultResponseSize prometheus.ObserverVec
}

// FileSaver saves the uploaded audio and returns the full path
type FileSaver interface {
	Save(name string, reader io.Reader) (string, error)
}

// FileLoader loads the transcript output file
type FileLoader interface {
	Load(path string) (loader.File, error)
}

// Dispatcher hands a queued job over to the workers
type Dispatcher interface {
	Submit(ID string)
}

// ServiceData keeps data required for service work
type ServiceData struct {
	FileSaver  FileSaver
	FileLoader FileLoader
	JobStore   store.Store
	Dispatcher Dispatcher

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

// StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       180 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	uh := promhttp.InstrumentHandlerDuration(data.metrics.uploadResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.uploadRequestSize, uploadHandler{data: data}))
	sh := promhttp.InstrumentHandlerDuration(data.metrics.statusResponseDur, statusHandler{data: data})
	rh := promhttp.InstrumentHandlerDuration(data.metrics.resultResponseDur,
		promhttp.InstrumentHandlerResponseSize(data.metrics.resultResponseSize, resultHandler{data: data}))
	router.Methods("POST").Path("/upload").Handler(uh)
	router.Methods("GET").Path("/status/{id}").Handler(sh)
	router.Methods("GET").Path("/result/{id}/{format}").Handler(rh)
	router.Handle("/subscribe", websocketHandler{data: data})
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}

type uploadHandler struct {
	data *ServiceData
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Saving file from %s", r.Host)

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(w, "Can't parse MultipartForm", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse MultipartForm"))
		return
	}
	defer cleanFiles(r.MultipartForm)
	err = validateFormParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	email := r.FormValue(api.PrmEmail)
	if email != "" {
		err := checkmail.ValidateFormat(email)
		if err != nil {
			http.Error(w, "Wrong email", http.StatusBadRequest)
			cmdapp.Log.Errorf("Wrong email")
			return
		}
	}
	language := r.FormValue(api.PrmLanguage)

	file, handler, err := r.FormFile(api.PrmFile)
	if err != nil {
		http.Error(w, "No file", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "No form param file"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if !checkFileExtension(ext) {
		http.Error(w, "Wrong file extension: "+ext, http.StatusBadRequest)
		cmdapp.Log.Errorf("Wrong file extension: " + ext)
		return
	}

	id := uuid.New().String()
	audioPath, err := h.data.FileSaver.Save(filepath.Join(id, "input"+ext), file)
	if err != nil {
		http.Error(w, "Can not save file", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	job := persistence.Job{ID: id, Status: status.Name(status.Queued), AudioPath: audioPath,
		Language: language, Email: email, CreatedAt: time.Now()}
	err = h.data.JobStore.Save(&job)
	if err != nil {
		http.Error(w, "Can not save job", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	h.data.Dispatcher.Submit(id)

	writeJSON(w, &api.UploadResult{ID: id})
}

type statusHandler struct {
	data *ServiceData
}

func (h statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, err := h.data.JobStore.Load(id)
	if err != nil {
		http.Error(w, "Can not get status for ID: "+id, http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if job == nil {
		http.Error(w, "Unknown ID: "+id, http.StatusNotFound)
		cmdapp.Log.Errorf("Unknown ID: " + id)
		return
	}
	writeJSON(w, statusResult(job))
}

type resultHandler struct {
	data *ServiceData
}

func (h resultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("File load request from %s", r.Host)
	id := mux.Vars(r)["id"]
	format := mux.Vars(r)["format"]
	if format != output.FormatTxt && format != output.FormatSrt && format != output.FormatJSON {
		http.Error(w, "Unknown format: "+format, http.StatusBadRequest)
		cmdapp.Log.Errorf("Unknown format: " + format)
		return
	}

	job, err := h.data.JobStore.Load(id)
	if err != nil {
		http.Error(w, "Can not get job for ID: "+id, http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if job == nil {
		http.Error(w, "Unknown ID: "+id, http.StatusNotFound)
		cmdapp.Log.Errorf("Unknown ID: " + id)
		return
	}
	if job.Status != status.Name(status.Done) {
		http.Error(w, "Job is not finished", http.StatusBadRequest)
		cmdapp.Log.Errorf("Job %s is not finished", id)
		return
	}

	file, err := h.data.FileLoader.Load(job.Outputs[format])
	if err != nil {
		http.Error(w, "Can not get file for ID: "+id, http.StatusNotFound)
		cmdapp.Log.Errorf("Can not get %s file for ID: %s", format, id)
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		http.Error(w, "Can not get file for ID: "+id, http.StatusNotFound)
		cmdapp.Log.Errorf("Can not get file info for ID: " + id)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+id+"."+format)
	w.Header().Set("Content-Type", contentType(format))
	http.ServeContent(w, r, "", fileInfo.ModTime(), file)
}

func contentType(format string) string {
	if format == output.FormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func statusResult(job *persistence.Job) *api.StatusResult {
	return &api.StatusResult{ID: job.ID, Status: job.Status, Progress: job.Progress,
		Model: job.Model, Language: job.Language, Error: job.Error}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(data)
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		f.RemoveAll()
	}
}

func checkFileExtension(ext string) bool {
	return ext == ".wav" || ext == ".mp3" || ext == ".m4a" || ext == ".ogg" ||
		ext == ".webm" || ext == ".flac"
}

func validateFormParams(r *http.Request) error {
	allowed := map[string]bool{api.PrmEmail: true, api.PrmLanguage: true}
	for k := range r.Form {
		_, f := allowed[k]
		if !f {
			return errors.Errorf("Unknown parameter '%s'", k)
		}
	}
	return nil
}
