package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListResultsHandler returns every archived crack result, newest first
func (api *API) ListResultsHandler(c *gin.Context) {
	results := api.engine.ListResults()
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// DeleteResultHandler removes an archived result and its file
func (api *API) DeleteResultHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	if result := ValidateJobID(jobID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteResult(jobID); err != nil {
		SendEngineError(c, "delete result", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": "Result for job '" + jobID + "' deleted",
		"job_id":  jobID,
	})
}
