package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes v as the response body. Once encoding starts the status
// is committed, so a failure is only logged.
func (d *Deps) respondJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		d.Log.Errorw("write json failed", "path", r.URL.Path, "error", err)
	}
}
