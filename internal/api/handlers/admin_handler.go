package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillproctor/internal/services"
	"github.com/yoockh/skillproctor/internal/utils"
)

// AdminHandler serves the recruiter side: intake, candidate management,
// test generation, reports and the dashboard.
type AdminHandler struct {
	candidates services.CandidateService
	tests      services.TestService
	reports    services.ReportService
}

func NewAdminHandler(candidates services.CandidateService, tests services.TestService, reports services.ReportService) *AdminHandler {
	return &AdminHandler{candidates: candidates, tests: tests, reports: reports}
}

// UploadResume accepts multipart "file" (PDF, max 10MB) plus optional
// "name" and "email" fields that override the parsed values.
func (h *AdminHandler) UploadResume(c *gin.Context) {
	const op = "AdminHandler.UploadResume"

	fh, data, sniffed, ok := readUpload(c, op, "file")
	if !ok {
		return
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only PDF files are accepted", nil))
		return
	}
	if sniffed != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file content is not a PDF", nil))
		return
	}

	res, err := h.candidates.Intake(c.Request.Context(), services.IntakeInput{
		FileName:    fh.Filename,
		ContentType: sniffed,
		Data:        data,
		Name:        strings.TrimSpace(c.PostForm("name")),
		Email:       strings.TrimSpace(c.PostForm("email")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AdminHandler) ListCandidates(c *gin.Context) {
	list, err := h.candidates.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": list})
}

func (h *AdminHandler) GetCandidate(c *gin.Context) {
	d, err := h.candidates.Detail(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) DeleteCandidate(c *gin.Context) {
	if err := h.candidates.Delete(c.Request.Context(), c.Param("candidate_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate deleted"})
}

func (h *AdminHandler) GenerateTest(c *gin.Context) {
	out, err := h.tests.Generate(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) GenerateReport(c *gin.Context) {
	rep, err := h.reports.Generate(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *AdminHandler) GetReport(c *gin.Context) {
	rep, err := h.reports.Get(c.Request.Context(), c.Param("candidate_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	list, err := h.reports.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": list})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.candidates.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type resetRequest struct {
	Confirm string `json:"confirm"`
}

// ResetDatabase wipes every candidate and all their data. The body must
// carry {"confirm":"RESET"}.
func (h *AdminHandler) ResetDatabase(c *gin.Context) {
	const op = "AdminHandler.ResetDatabase"

	var req resetRequest
	if !bindJSON(c, op, &req) {
		return
	}
	if req.Confirm != "RESET" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, `confirm must be "RESET"`, nil))
		return
	}

	if err := h.candidates.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database reset"})
}
