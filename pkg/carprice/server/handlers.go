package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/service"
)

const maxFormMemory = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// PredictResponse defines the /predict HTTP response struct
type PredictResponse struct {
	Success        bool   `json:"success"`
	PredictedPrice string `json:"predicted_price"`
	RawPrice       int64  `json:"raw_price"`
}

// ModelInfoResponse defines the /model_info HTTP response struct
type ModelInfoResponse struct {
	Success bool `json:"success"`
	service.ModelInfo
}

// TypesResponse defines the /get_types HTTP response struct
type TypesResponse struct {
	Success bool     `json:"success"`
	Types   []string `json:"types"`
}

// Home renders the prediction form.
func (h *httpServer) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.home.Execute(w, h.app.HomeView()); err != nil {
		h.log.Error("render home page", map[string]interface{}{
			"error":      err.Error(),
			"request_id": RequestID(r.Context()),
		})
	}
}

// Predict defines a POST handler running one prediction over the submitted
// form, url-encoded or multipart.
func (h *httpServer) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.writeError(w, r, err)
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for name, values := range r.PostForm {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	pred, err := h.app.Predict(r.Context(), fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, PredictResponse{
		Success:        true,
		PredictedPrice: pred.Price.Formatted,
		RawPrice:       pred.Price.Raw,
	})
}

// TestData defines a GET handler returning evaluation rows for display.
func (h *httpServer) TestData(w http.ResponseWriter, r *http.Request) {
	samples, err := h.app.Samples()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, dal.CarsResponse{
		Success:     true,
		Samples:     samples,
		MakeTypeMap: h.app.MakeTypes,
	})
}

// ModelInfo defines a GET handler returning the model's evaluation metrics.
func (h *httpServer) ModelInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, ModelInfoResponse{Success: true, ModelInfo: h.app.ModelInfo()})
}

// GetTypes defines a GET handler returning the body types of a make.
func (h *httpServer) GetTypes(w http.ResponseWriter, r *http.Request) {
	types := h.app.TypesForMake(mux.Vars(r)["make"])
	if types == nil {
		types = []string{}
	}
	h.writeJSON(w, r, TypesResponse{Success: true, Types: types})
}

func (h *httpServer) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, map[string]string{"status": "ok"})
}

// writeError renders any failure as a 200 JSON {error} body.
func (h *httpServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	fields := map[string]interface{}{
		"code":       string(stdErr.Code),
		"error":      stdErr.Message,
		"path":       r.URL.Path,
		"request_id": RequestID(r.Context()),
	}
	if apperrors.IsClientError(stdErr.Code) {
		h.log.Warn("request rejected", fields)
	} else {
		h.log.Error("request failed", fields)
	}
	h.writeJSON(w, r, errorResponse{Error: stdErr.Message})
}

// writeJSON encodes v as the response body. A value that cannot be encoded
// is reported as a JSON {error} body like any other failure.
func (h *httpServer) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode response", map[string]interface{}{
			"error":      err.Error(),
			"path":       r.URL.Path,
			"request_id": RequestID(r.Context()),
		})
		body, _ = json.Marshal(errorResponse{Error: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(body, '\n'))
}
