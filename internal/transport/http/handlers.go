package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/domain"
	"practice-quiz-service/internal/infra/xlsx"
)

const maxUploadBytes = 4 << 20

// API serves the quiz collection and play sessions over REST.
type API struct {
	service *app.PlayService
}

func NewAPI(service *app.PlayService) *API {
	return &API{service: service}
}

type selectRequest struct {
	Question *int `json:"question"`
	Option   int  `json:"option"`
	Selected bool `json:"selected"`
}

type submitRequest struct {
	Question *int `json:"question"`
}

type submitResponse struct {
	Session  app.SessionView `json:"session"`
	Accepted bool            `json:"accepted"`
}

type advanceResponse struct {
	Session  app.SessionView `json:"session"`
	Complete bool            `json:"complete"`
}

type errorResponse struct {
	Error         string `json:"error"`
	Kind          string `json:"kind,omitempty"`
	Path          string `json:"path,omitempty"`
	QuestionIndex *int   `json:"questionIndex,omitempty"`
}

func (a *API) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := a.service.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (a *API) uploadQuiz(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "quiz document too large"})
		return
	}
	q, err := a.service.Upload(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (a *API) importWorkbook(w http.ResponseWriter, r *http.Request) {
	doc, err := xlsx.ImportWorkbook(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	q, err := a.service.UploadDocument(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (a *API) getQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := a.service.GetQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (a *API) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteQuiz(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) clearQuizzes(w http.ResponseWriter, r *http.Request) {
	if err := a.service.ClearQuizzes(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) startSession(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (a *API) viewSession(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) endSession(w http.ResponseWriter, r *http.Request) {
	a.service.End(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) selectOption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid select payload"})
		return
	}
	question, err := questionOrCurrent(r.Context(), a.service, id, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := a.service.Select(r.Context(), id, question, req.Option, req.Selected)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req submitRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid submit payload"})
			return
		}
	}
	question, err := questionOrCurrent(r.Context(), a.service, id, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	view, accepted, err := a.service.Submit(r.Context(), id, question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Session: view, Accepted: accepted})
}

func (a *API) advance(w http.ResponseWriter, r *http.Request) {
	view, complete, err := a.service.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, advanceResponse{Session: view, Complete: complete})
}

func (a *API) retreat(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Retreat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) restart(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) results(w http.ResponseWriter, r *http.Request) {
	res, err := a.service.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) resultsWorkbook(w http.ResponseWriter, r *http.Request) {
	review, err := a.service.Review(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := xlsx.ExportResult(review.Quiz, review.Result)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// questionOrCurrent defaults to the question on screen when the client omits one.
func questionOrCurrent(ctx context.Context, service *app.PlayService, sessionID string, question *int) (int, error) {
	if question != nil {
		return *question, nil
	}
	view, err := service.View(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if view.Question == nil {
		return 0, domain.ErrQuestionOutOfRange
	}
	return view.Question.Index, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	writeJSON(w, status, body)
}

func errorBody(err error) (int, errorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		qi := verr.QuestionIndex
		body := errorResponse{Error: verr.Error(), Kind: string(verr.Kind), Path: verr.Path}
		if qi >= 0 {
			body.QuestionIndex = &qi
		}
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrQuestionOutOfRange), errors.Is(err, domain.ErrOptionOutOfRange):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFinished), errors.Is(err, domain.ErrEmptyQuiz):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}
	log.Printf("request failed: %v", err)
	return http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("internal error: %v", err)}
}
