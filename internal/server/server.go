package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imsarthakshrma/Lumora/internal/core"
	"github.com/imsarthakshrma/Lumora/internal/email"
)

type Server struct {
	Agent    *core.Agent
	Mail     *email.Agent
	Invoices *email.InvoiceProcessor
}

func NewServer(agent *core.Agent, mail *email.Agent, invoices *email.InvoiceProcessor) *Server {
	return &Server{Agent: agent, Mail: mail, Invoices: invoices}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.Healthz)
	r.POST("/emails/process", s.ProcessEmail)
	r.POST("/tasks", s.ProcessTask)
	r.POST("/tasks/batch", s.BatchLearn)
	r.POST("/ask", s.Ask)

	return r
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ProcessEmailRequest struct {
	Raw        string `json:"raw" binding:"required"`
	DraftReply bool   `json:"draft_reply"`
}

func (s *Server) ProcessEmail(c *gin.Context) {
	var req ProcessEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg, err := email.Parse(req.Raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse email"})
		return
	}
	s.Mail.Enrich(msg)

	record := messageRecord(msg)
	ext, err := s.Agent.Extractor.ExtractFromEmail(c.Request.Context(), record)
	if err != nil {
		log.Printf("Email extraction failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process email"})
		return
	}
	result := s.Agent.ObserveInteraction(c.Request.Context(), record, ext)

	resp := gin.H{"email": msg, "result": result}

	// Invoices get the approval/rejection workflow instead of a
	// generic reply.
	if email.DetectInvoice(msg) {
		if invoiceResult := s.processInvoice(c.Request.Context(), msg); invoiceResult != nil {
			resp["invoice"] = invoiceResult
			if req.DraftReply {
				resp["reply"] = invoiceResult.Reply
			}
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	if req.DraftReply {
		reply, err := s.Mail.DraftReply(c.Request.Context(), msg)
		if err != nil {
			log.Printf("Reply drafting failed: %v", err)
		} else {
			resp["reply"] = reply
		}
	}
	c.JSON(http.StatusOK, resp)
}

type ProcessTaskRequest struct {
	Task map[string]any `json:"task" binding:"required"`
}

func (s *Server) ProcessTask(c *gin.Context) {
	var req ProcessTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := s.Agent.ProcessTask(c.Request.Context(), req.Task)
	if err != nil {
		if err == core.ErrEmptyTask {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to process task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

type BatchLearnRequest struct {
	Tasks []map[string]any `json:"tasks" binding:"required"`
}

func (s *Server) BatchLearn(c *gin.Context) {
	var req BatchLearnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	results := s.Agent.LearnFromTasks(c.Request.Context(), req.Tasks)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	answer := s.Agent.AnswerQuestion(c.Request.Context(), req.Question)
	if answer.Err != "" {
		c.JSON(http.StatusOK, gin.H{"answer": "", "error": answer.Err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer.Answer})
}

// processInvoice runs the invoice workflow for a detected invoice
// email. A nil result means the mail was not an invoice after all (or
// the workflow failed) and the caller falls back to the generic reply.
func (s *Server) processInvoice(ctx context.Context, msg *email.Message) *email.InvoiceResult {
	inv, err := s.Invoices.ExtractInvoice(ctx, msg)
	if err != nil {
		log.Printf("Invoice extraction failed: %v", err)
		return nil
	}
	if !inv.IsInvoice {
		return nil
	}

	result, err := s.Invoices.Process(ctx, msg, inv)
	if err != nil {
		log.Printf("Invoice processing failed: %v", err)
		return nil
	}
	return result
}

func messageRecord(msg *email.Message) map[string]any {
	data, err := json.Marshal(msg)
	if err != nil {
		return map[string]any{"subject": msg.Subject, "body": msg.Body}
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return map[string]any{"subject": msg.Subject, "body": msg.Body}
	}
	return record
}
