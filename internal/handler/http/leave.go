package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/cmlabs-hris/leave-management-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetTeamRequests(w http.ResponseWriter, r *http.Request)
	GetPendingRequests(w http.ResponseWriter, r *http.Request)
	ReviewRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	GetMyBalances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	fileService  file.FileService
}

func NewLeaveHandler(leaveService leave.LeaveService, fileService file.FileService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		fileService:  fileService,
	}
}

type submitRequestPayload struct {
	Category  leave.Category `json:"leave_type"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Reason    string         `json:"reason"`
}

// SubmitRequest implements LeaveHandler. Accepts multipart form data
// with a JSON 'data' field and an optional 'document' file. A document
// that fails to upload fails the whole submission.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	var payload submitRequestPayload
	if err := json.Unmarshal([]byte(dataJSON), &payload); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	startDate, ok := validator.IsValidDate(payload.StartDate)
	if !ok {
		response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
		return
	}
	endDate, ok := validator.IsValidDate(payload.EndDate)
	if !ok {
		response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
		return
	}

	req := leave.SubmitRequest{
		UserID:    userID,
		Category:  payload.Category,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    payload.Reason,
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	document, header, err := r.FormFile("document")
	if err != nil && err != http.ErrMissingFile {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if document != nil {
		defer document.Close()

		url, err := l.fileService.UploadLeaveDocument(r.Context(), userID, document, header.Filename)
		if err != nil {
			slog.Error("Failed to store leave document", "error", err)
			response.BadRequest(w, "Failed to store document", nil)
			return
		}
		req.DocumentURL = &url
	}

	created, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	request, err := l.leaveService.GetRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := l.leaveService.ListMyRequests(r.Context(), userID, parseRequestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// GetTeamRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetTeamRequests(w http.ResponseWriter, r *http.Request) {
	managerID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := l.leaveService.ListTeamRequests(r.Context(), managerID, parseRequestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// GetPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	managerID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := l.leaveService.ListPendingRequests(r.Context(), managerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// ReviewRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	managerID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.RequestID = chi.URLParam(r, "id")
	req.ManagerID = managerID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	reviewed, err := l.leaveService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request reviewed successfully", reviewed)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	cancelled, err := l.leaveService.Cancel(r.Context(), requestID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", cancelled)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	year := time.Now().UTC().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
		year = parsed
	}

	balances, err := l.leaveService.MyBalances(r.Context(), userID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

func parseRequestFilter(r *http.Request) leave.RequestFilter {
	var filter leave.RequestFilter

	if s := r.URL.Query().Get("status"); s != "" {
		status := leave.Status(s)
		if status.Valid() {
			filter.Status = &status
		}
	}
	if y := r.URL.Query().Get("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			filter.Year = &year
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if offset, err := strconv.Atoi(o); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	return filter
}
