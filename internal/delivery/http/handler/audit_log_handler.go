package handler

import (
	"net/http"

	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{auditLogUsecase: auditLogUsecase}
}

func (h *AuditLogHandler) GetMyAuditLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}

	logs, err := h.auditLogUsecase.GetMyAuditLogs(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, logs)
}
