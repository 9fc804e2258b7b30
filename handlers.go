package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/models/reports"
	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"bitbucket.org/mmdatafocus/recon_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

func statementHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountId, fromDate, toDate, ok := statementParams(c)
		if !ok {
			return
		}
		report, err := reports.GetAccountStatementReport(c.Request.Context(), accountId, fromDate, toDate)
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "statementHandler", "GetAccountStatementReport", accountId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build statement"})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func statementExportHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountId, fromDate, toDate, ok := statementParams(c)
		if !ok {
			return
		}
		report, err := reports.GetAccountStatementReport(c.Request.Context(), accountId, fromDate, toDate)
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "statementExportHandler", "GetAccountStatementReport", accountId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build statement"})
			return
		}
		f, err := reports.ExportAccountStatementExcel(report)
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "statementExportHandler", "ExportAccountStatementExcel", accountId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render workbook"})
			return
		}
		writeWorkbook(c, f, fmt.Sprintf("statement_%d_%s.xlsx", accountId, fromDate.Format(dateLayout)))
	}
}

func statementParams(c *gin.Context) (int, time.Time, time.Time, bool) {
	accountId, err := strconv.Atoi(c.Query("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountId must be an integer"})
		return 0, time.Time{}, time.Time{}, false
	}
	fromDate, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return 0, time.Time{}, time.Time{}, false
	}
	toDate, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return 0, time.Time{}, time.Time{}, false
	}
	if toDate.Before(fromDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return 0, time.Time{}, time.Time{}, false
	}
	return accountId, fromDate, toDate, true
}

func criteriaFromQuery(c *gin.Context) models.FilterCriteria {
	var criteria models.FilterCriteria
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			criteria.FromDate = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			criteria.ToDate = &t
		}
	}
	criteria.Agency = c.Query("agency")
	criteria.Service = c.Query("service")
	criteria.Country = c.Query("country")
	for _, s := range c.QueryArray("status") {
		criteria.Statuses = append(criteria.Statuses, models.ReconciliationStatus(s))
	}
	for _, t := range c.QueryArray("treatment") {
		criteria.Treatments = append(criteria.Treatments, models.TreatmentLevel(t))
	}
	criteria.OnlyWithDiscrepancies = c.Query("onlyDiscrepancies") == "true"
	return criteria
}

func listReconciliationHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.ListReconciliationRows(c.Request.Context(), criteriaFromQuery(c))
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "listReconciliationHandler", "ListReconciliationRows", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rows"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rows": rows})
	}
}

func reconciliationExportHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.ListReconciliationRows(c.Request.Context(), criteriaFromQuery(c))
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "reconciliationExportHandler", "ListReconciliationRows", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rows"})
			return
		}
		f, err := reports.ExportReconciliationRowsExcel(rows)
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "reconciliationExportHandler", "ExportReconciliationRowsExcel", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render workbook"})
			return
		}
		writeWorkbook(c, f, "reconciliation.xlsx")
	}
}

type ingestRequest struct {
	Date    string           `json:"date" validate:"required"`
	Records []map[string]any `json:"records" validate:"required,min=1"`
}

func ingestReconciliationHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}

		db := config.GetDB()
		created := make([]models.ReconciliationRow, 0, len(req.Records))
		for _, record := range req.Records {
			row := models.RowFromRecord(record, date, models.DefaultReportAliases)
			row = workflow.ReconcileRow(row)
			if err := models.CreateReconciliationRow(c.Request.Context(), db, &row); err != nil {
				config.LogError(c.Request.Context(), logger, "handlers.go", "ingestReconciliationHandler", "CreateReconciliationRow", record, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist rows", "created": created})
				return
			}
			created = append(created, row)
		}
		c.JSON(http.StatusCreated, gin.H{"rows": created})
	}
}

type updateRowRequest struct {
	TotalTransactions *int                         `json:"total_transactions"`
	Matches           *int                         `json:"matches"`
	BoOnly            *int                         `json:"bo_only"`
	PartnerOnly       *int                         `json:"partner_only"`
	Mismatches        *int                         `json:"mismatches"`
	Status            *models.ReconciliationStatus `json:"status"`
	Treatment         *models.TreatmentLevel       `json:"treatment"`
	Comment           *string                      `json:"comment"`
	TicketId          *string                      `json:"ticket_id"`
}

func updateReconciliationHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}
		var req updateRowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		db := config.GetDB()
		row, err := models.GetReconciliationRowById(ctx, db, id)
		if err != nil {
			respondRowError(c, err)
			return
		}
		if row.IsLocked() {
			respondRowError(c, utils.ErrorRowLocked)
			return
		}

		updated := *row
		if req.TotalTransactions != nil {
			updated.TotalTransactions = *req.TotalTransactions
		}
		if req.Matches != nil {
			updated.Matches = *req.Matches
		}
		if req.BoOnly != nil {
			updated.BoOnly = *req.BoOnly
		}
		if req.PartnerOnly != nil {
			updated.PartnerOnly = *req.PartnerOnly
		}
		if req.Mismatches != nil {
			updated.Mismatches = *req.Mismatches
		}
		if req.Treatment != nil && updated.Treatment != models.TreatmentLevelTermine {
			updated.Treatment = *req.Treatment
		}
		if req.Comment != nil {
			updated.Comment = *req.Comment
		}
		if req.TicketId != nil {
			updated.TicketId = req.TicketId
		}

		if req.Status != nil && *req.Status != updated.Status {
			updated = workflow.ApplyRowStatus(updated, *req.Status)
		} else {
			updated = workflow.ReconcileRow(updated)
		}

		lock, err := workflow.AcquireRowEditLock(ctx, updated.ID)
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "updateReconciliationHandler", "AcquireRowEditLock", updated.ID, err)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		defer workflow.ReleaseRowEditLock(ctx, lock)

		if err := models.UpdateReconciliationRow(ctx, db, &updated); err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "updateReconciliationHandler", "UpdateReconciliationRow", updated.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist row"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteReconciliationHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}
		if err := models.DeleteReconciliationRow(c.Request.Context(), config.GetDB(), id); err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "deleteReconciliationHandler", "DeleteReconciliationRow", id, err)
			respondRowError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type bulkStatusRequest struct {
	Ids    []int                       `json:"ids" validate:"required,min=1"`
	Status models.ReconciliationStatus `json:"status" validate:"required"`
}

func bulkStatusHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		db := config.GetDB()
		rows, err := models.ListReconciliationRowsByIds(ctx, db, req.Ids)
		if err != nil {
			config.LogError(c.Request.Context(), logger, "handlers.go", "bulkStatusHandler", "ListReconciliationRowsByIds", req.Ids, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load rows"})
			return
		}

		outcome := workflow.ApplyStatusToRows(ctx, db, logger, rows, req.Status)
		failed := make([]gin.H, 0, len(outcome.Failed))
		for _, f := range outcome.Failed {
			failed = append(failed, gin.H{"row": f.Row, "error": f.Err.Error()})
		}
		c.JSON(http.StatusOK, gin.H{
			"applied": outcome.Applied,
			"skipped": outcome.Skipped,
			"failed":  failed,
		})
	}
}

type transferRequest struct {
	Bucket string  `json:"bucket" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
}

func transferHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}
		var req transferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		bucket, ok := models.ParseDiscrepancyBucket(req.Bucket)
		if !ok {
			respondRowError(c, utils.ErrorInvalidBucket)
			return
		}
		// Transfers move whole transactions; fractional amounts are invalid.
		if req.Amount != float64(int(req.Amount)) {
			respondRowError(c, utils.ErrorInvalidAmount)
			return
		}

		ctx := c.Request.Context()
		db := config.GetDB()
		row, err := models.GetReconciliationRowById(ctx, db, id)
		if err != nil {
			respondRowError(c, err)
			return
		}

		updated, err := workflow.TransferDiscrepancy(ctx, db, logger, *row, bucket, int(req.Amount))
		if err != nil {
			respondRowError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func respondRowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRowLocked):
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorInvalidAmount),
		errors.Is(err, utils.ErrorAmountExceedsAvailable),
		errors.Is(err, utils.ErrorInvalidBucket):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
