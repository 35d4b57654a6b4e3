package http

import (
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/formgate/pkg/domain/model"
	"github.com/secmon-lab/formgate/pkg/domain/types"
	"github.com/secmon-lab/formgate/pkg/utils/safe"
)

type formListResponse struct {
	Forms []*model.Form `json:"forms"`
}

func (s *Server) createFormHandler(w http.ResponseWriter, r *http.Request) {
	var input model.FormInput
	if err := decodeJSON(w, r, s.maxBodySize, &input); err != nil {
		handleError(w, r, err)
		return
	}

	form, err := s.uc.Form.CreateForm(r.Context(), ownerFromContext(r.Context()), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, form)
}

func (s *Server) listFormsHandler(w http.ResponseWriter, r *http.Request) {
	forms, err := s.uc.Form.ListForms(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if forms == nil {
		forms = []*model.Form{}
	}
	writeJSON(w, r, http.StatusOK, formListResponse{Forms: forms})
}

func (s *Server) getFormHandler(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.GetForm(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) updateFormHandler(w http.ResponseWriter, r *http.Request) {
	var patch model.FormPatch
	if err := decodeJSON(w, r, s.maxBodySize, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	form, err := s.uc.Form.UpdateForm(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) deleteFormHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Form.DeleteForm(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) publishFormHandler(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.PublishForm(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) unpublishFormHandler(w http.ResponseWriter, r *http.Request) {
	form, err := s.uc.Form.UnpublishForm(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, form)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Report.GetStats(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	format := types.ParseExportFormat(r.URL.Query().Get("format"))

	file, err := s.uc.Report.ExportSubmissions(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"), format)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime.FormatMediaType(file.ContentType, map[string]string{"charset": "utf-8"}))
	w.Header().Set("Content-Disposition", contentDisposition(file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, file.Body)
}

// contentDisposition marks the response as a download. Non-ASCII names are
// also sent in the RFC 5987 form.
func contentDisposition(name string) string {
	value := `attachment; filename="` + asciiFallback(name) + `"`
	if !isASCII(name) {
		value += "; filename*=UTF-8''" + url.PathEscape(name)
	}
	return value
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func asciiFallback(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c >= 0x80 {
			c = '_'
		}
		out = append(out, c)
	}
	return string(out)
}
