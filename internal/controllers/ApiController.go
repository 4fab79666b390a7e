package controllers

import (
	"errors"
	"io"
	"medilens/internal/gateway"
	"medilens/internal/markdown"
	"medilens/internal/models"
	"medilens/internal/providers"
	"medilens/internal/services"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

const (
	maxRequestBodySize = 1 << 20  // 1 MB
	maxImageSize       = 10 << 20 // 10 MB
	previewLength      = 120
	historyCacheKey    = "history"
)

type ApiController struct {
	logger  providers.Logger
	session services.SessionServiceInterface
	history services.HistoryServiceInterface
	cache   providers.CacheProviderInterface
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

type viewRequest struct {
	View string `json:"view"`
	ID   string `json:"id,omitempty"`
}

type historyEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	IsImage   bool   `json:"isImage"`
	Preview   string `json:"preview"`
}

type resultResponse struct {
	Result models.AnalysisResult `json:"result"`
	Nodes  []markdown.Node       `json:"nodes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewApiController(logger providers.Logger, session services.SessionServiceInterface, history services.HistoryServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		session: session,
		history: history,
		cache:   cache,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps service and gateway errors to a status and a message that
// is safe to show to the user.
func (ac *ApiController) writeFailure(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, services.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "Please enter some text to analyze.")
	case errors.Is(err, services.ErrFileRead):
		writeError(w, http.StatusBadRequest, services.FileReadMessage)
	case errors.Is(err, services.ErrBusy):
		writeError(w, http.StatusConflict, "An analysis is already in progress.")
	case errors.Is(err, services.ErrUnknownView):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not Found")
	case errors.As(err, &gwErr) && gwErr.Kind == gateway.KindConfiguration:
		writeError(w, http.StatusServiceUnavailable, gwErr.UserMessage())
	case errors.As(err, &gwErr):
		writeError(w, http.StatusBadGateway, gwErr.UserMessage())
	default:
		ac.logger.Errorf(providers.TypeApp, "Unhandled error: %s", err)
		writeError(w, http.StatusInternalServerError, gateway.UserMessage(err))
	}
}

// serveFromCacheOrCompute stores the computed value under the key compute
// returns, which differs from cacheKey when the data changed in between.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (string, any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	storeKey, result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(storeKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// historyKey ties a cached list to the history generation it was built from.
func historyKey(gen uint64) string {
	return historyCacheKey + ":" + strconv.FormatUint(gen, 10)
}

func toEntries(results []models.AnalysisResult) []historyEntry {
	entries := make([]historyEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, historyEntry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			IsImage:   r.IsImage(),
			Preview:   markdown.Preview(r.RawText, previewLength),
		})
	}
	return entries
}

func (ac *ApiController) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	result, err := ac.session.SubmitText(r.Context(), payload.Text)
	if err != nil {
		ac.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (ac *ApiController) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		ac.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Image upload rejected: %s", err)
		writeError(w, http.StatusBadRequest, services.FileReadMessage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ac.logger.Warnf(providers.GetLogTypeByRequestType(r.Method), "Image read failed: %s", err)
		writeError(w, http.StatusBadRequest, services.FileReadMessage)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	result, err := ac.session.SubmitImage(r.Context(), data, contentType)
	if err != nil {
		ac.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (ac *ApiController) GetHistory(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, historyKey(ac.history.Generation()), func() (string, any, error) {
		gen, results := ac.history.Snapshot()
		if gen > 0 {
			ac.cache.Del(historyKey(gen - 1))
		}
		return historyKey(gen), toEntries(results), nil
	})
}

func (ac *ApiController) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, ok := ac.history.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Result: result, Nodes: markdown.Render(result.RawText)})
}

// DeleteResult answers with the remaining history. Unknown ids are not an error.
func (ac *ApiController) DeleteResult(w http.ResponseWriter, r *http.Request) {
	remaining := ac.session.Delete(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, toEntries(remaining))
}

func (ac *ApiController) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.session.State())
}

func (ac *ApiController) SetView(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload viewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	view := services.View(payload.View)
	if payload.ID != "" && view != "" && view != services.ViewResult {
		writeError(w, http.StatusBadRequest, "An id can only be opened in the result view.")
		return
	}

	var err error
	switch {
	case payload.ID != "":
		_, err = ac.session.Open(payload.ID)
	case view == services.ViewHome:
		ac.session.Back()
	default:
		err = ac.session.Navigate(view)
	}
	if err != nil {
		ac.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ac.session.State())
}
