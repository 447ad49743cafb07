package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/services"
)

// defaultSource names ciphertext that arrived in a request body.
const defaultSource = "request"

// CrackRequest is the JSON body of POST /crack. Ciphertext is base64.
type CrackRequest struct {
	Ciphertext []byte `json:"ciphertext"`
	Source     string `json:"source,omitempty"`
	Async      bool   `json:"async,omitempty"`
	services.CrackOptions
}

// CrackHandler recovers the key of a ciphertext. The body is either a
// CrackRequest or, with Content-Type application/octet-stream, the raw
// ciphertext with options in the query string. Async requests return 202
// with a job ID.
func (api *API) CrackHandler(c *gin.Context) {
	var req CrackRequest
	if c.ContentType() == "application/octet-stream" {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			SendInvalidJSONError(c, err)
			return
		}
		req.Ciphertext = body
		if result := bindCrackQuery(c, &req); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateCrackOptions(req.CrackOptions); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if req.Source == "" {
		req.Source = defaultSource
	}

	if req.Async {
		jobID, err := api.engine.CrackAsync(req.Ciphertext, req.Source, req.CrackOptions)
		if err != nil {
			if stderrors.Is(err, errors.ErrInvalidInput) {
				SendEngineError(c, "crack", err)
				return
			}
			SendJobExecutionError(c, "crack", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Key search started for '" + req.Source + "' (" + strconv.Itoa(len(req.Ciphertext)) + " bytes)",
			"job_id":  jobID,
		})
		return
	}

	result, err := api.engine.Crack(c.Request.Context(), req.Ciphertext, req.Source, req.CrackOptions)
	if err != nil {
		SendEngineError(c, "crack", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// bindCrackQuery reads CrackRequest fields from the query string.
func bindCrackQuery(c *gin.Context, req *CrackRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	req.Source = c.Query("source")
	req.Strategy = c.Query("strategy")

	if v := c.Query("async"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result.AddError("async", "async must be a boolean")
		}
		req.Async = b
	}
	if v := c.Query("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			result.AddError("workers", "workers must be an integer")
		}
		req.Workers = n
	}
	if v := c.Query("early_stop"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result.AddError("early_stop", "early_stop must be a boolean")
		}
		req.EarlyStop = &b
	}
	if v := c.Query("early_stop_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			result.AddError("early_stop_score", "early_stop_score must be an integer")
		}
		req.EarlyStopScore = &n
	}

	return result
}

// GetJobResultHandler returns the recovered key and plaintext of a finished crack job
func (api *API) GetJobResultHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	if result := ValidateJobID(jobID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := api.engine.GetResult(jobID)
	if err == nil {
		c.JSON(http.StatusOK, result)
		return
	}
	if !stderrors.Is(err, errors.ErrResultNotFound) {
		SendEngineError(c, "result lookup", err)
		return
	}

	job, jobErr := api.engine.GetJob(jobID)
	if jobErr != nil {
		SendJobNotFoundError(c, jobID)
		return
	}
	if job.Status.IsTerminal() {
		SendError(c, http.StatusNotFound, ErrorCodeResultNotFound,
			"Job '"+jobID+"' finished with status '"+string(job.Status)+"' and has no result")
		return
	}
	SendError(c, http.StatusConflict, ErrorCodeResultNotReady,
		"Job '"+jobID+"' is still "+string(job.Status))
}
