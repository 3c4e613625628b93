package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

func (h *Handler) AuditLog(c *gin.Context) {
	logs, err := h.audit.Recent(c.Request.Context(), auditPageSize)
	if err != nil {
		h.fail(c, err, "Failed to load audit log", "/dashboard")
		return
	}
	render(c, http.StatusOK, "audit_list.html", gin.H{"logs": logs})
}
