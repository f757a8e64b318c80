package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillproctor/internal/models"
	"github.com/yoockh/skillproctor/internal/providers/stt"
	"github.com/yoockh/skillproctor/internal/services"
	"github.com/yoockh/skillproctor/internal/utils"
)

// StudentHandler serves the candidate side of the pipeline. Every route acts
// on the candidate named by the bearer token.
type StudentHandler struct {
	candidates services.CandidateService
	mcq        services.MCQService
	coding     services.CodingService
	interview  services.InterviewService
}

func NewStudentHandler(candidates services.CandidateService, mcq services.MCQService, coding services.CodingService, interview services.InterviewService) *StudentHandler {
	return &StudentHandler{candidates: candidates, mcq: mcq, coding: coding, interview: interview}
}

type SubmitMCQRequest struct {
	TestID  string            `json:"test_id" binding:"required"`
	Answers models.MCQAnswers `json:"answers"`
}

type SubmitCodeRequest struct {
	TestID    string `json:"test_id" binding:"required"`
	ProblemID int    `json:"problem_id" binding:"required"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

type RunCodeRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	InputData string `json:"input_data"`
}

type RunSQLRequest struct {
	Query string `json:"query"`
}

type EvaluateSQLRequest struct {
	Query          string `json:"query"`
	ReferenceQuery string `json:"reference_query"`
}

type AnswerRequest struct {
	InterviewID string `json:"interview_id" binding:"required"`
	Answer      string `json:"answer"`
}

func (h *StudentHandler) TestInfo(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	info, err := h.candidates.TestInfo(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *StudentHandler) StartMCQ(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.mcq.Start(c.Request.Context(), candidateID, c.Param("test_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StudentHandler) SubmitMCQ(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitMCQRequest
	if !bindJSON(c, "StudentHandler.SubmitMCQ", &req) {
		return
	}

	out, err := h.mcq.Submit(c.Request.Context(), candidateID, req.TestID, req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *StudentHandler) StartCoding(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.coding.Start(c.Request.Context(), candidateID, c.Param("test_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StudentHandler) SubmitCode(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitCodeRequest
	if !bindJSON(c, "StudentHandler.SubmitCode", &req) {
		return
	}

	out, err := h.coding.Submit(c.Request.Context(), candidateID, services.SubmitCodeInput{
		SessionID: req.TestID,
		ProblemID: req.ProblemID,
		Code:      req.Code,
		Language:  req.Language,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *StudentHandler) FinishCoding(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.coding.Finish(c.Request.Context(), candidateID, c.Param("test_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// RunCode executes against custom input without recording anything.
func (h *StudentHandler) RunCode(c *gin.Context) {
	var req RunCodeRequest
	if !bindJSON(c, "StudentHandler.RunCode", &req) {
		return
	}

	out, err := h.coding.Run(c.Request.Context(), req.Code, req.Language, req.InputData)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *StudentHandler) RunSQL(c *gin.Context) {
	var req RunSQLRequest
	if !bindJSON(c, "StudentHandler.RunSQL", &req) {
		return
	}

	out, err := h.coding.RunSQL(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *StudentHandler) EvaluateSQL(c *gin.Context) {
	var req EvaluateSQLRequest
	if !bindJSON(c, "StudentHandler.EvaluateSQL", &req) {
		return
	}

	out, err := h.coding.EvaluateSQL(c.Request.Context(), req.Query, req.ReferenceQuery)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *StudentHandler) FinishSQL(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.coding.FinishSQL(c.Request.Context(), candidateID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sql_passed": true})
}

func (h *StudentHandler) StartInterview(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.interview.Start(c.Request.Context(), candidateID, c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StudentHandler) AnswerInterview(c *gin.Context) {
	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if !bindJSON(c, "StudentHandler.AnswerInterview", &req) {
		return
	}

	turn, err := h.interview.Answer(c.Request.Context(), candidateID, req.InterviewID, req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

// AnswerInterviewAudio takes multipart "audio" plus an "interview_id" field.
func (h *StudentHandler) AnswerInterviewAudio(c *gin.Context) {
	const op = "StudentHandler.AnswerInterviewAudio"

	candidateID, ok := requireUserID(c)
	if !ok {
		return
	}

	interviewID := strings.TrimSpace(c.PostForm("interview_id"))
	if interviewID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing interview_id", nil))
		return
	}

	fh, data, sniffed, ok := readUpload(c, op, "audio")
	if !ok {
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = sniffed
	}

	turn, err := h.interview.AnswerAudio(c.Request.Context(), candidateID, interviewID, stt.Audio{
		Data:        data,
		ContentType: contentType,
		Language:    c.PostForm("language"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}
