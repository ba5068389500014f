package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vendoranalysis/normalization"
	apperrors "vendoranalysis/server/errors"
	"vendoranalysis/server/middleware"
	"vendoranalysis/server/services"
)

// startAnalysisRequest тело запроса на запуск анализа
type startAnalysisRequest struct {
	Vendors []*normalization.VendorRecord `json:"vendors"`
	Spend   map[string]float64            `json:"spend"`
}

// handleStartAnalysis запускает анализ в фоне.
// Записи берутся из тела запроса; при пустом списке - из базы.
func (s *Server) handleStartAnalysis(c *gin.Context) {
	var req startAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleGinError(c, apperrors.NewValidationError("некорректное тело запроса", err))
		return
	}

	records := req.Vendors
	if len(records) == 0 {
		if s.db == nil {
			middleware.HandleGinError(c,
				apperrors.NewValidationError("список поставщиков пуст, база не подключена", nil))
			return
		}

		var err error
		records, err = s.db.ListVendors(s.config.Analysis.Country)
		if err != nil {
			middleware.HandleGinError(c, apperrors.NewInternalError("ошибка чтения базы поставщиков", err))
			return
		}
	}

	taskID, err := s.analysisService.StartAnalysis(records, req.Spend)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": taskID,
		"status":  services.TaskStatusRunning,
		"vendors": len(records),
	})
}

// handleTaskStatus возвращает статус задачи анализа
func (s *Server) handleTaskStatus(c *gin.Context) {
	task, err := s.analysisService.GetTask(c.Param("taskId"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// handleTaskDuplicates возвращает найденные пары дубликатов
func (s *Server) handleTaskDuplicates(c *gin.Context) {
	result, err := s.analysisService.GetResult(c.Param("taskId"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threshold": s.analysisService.Threshold(),
		"total":     len(result.Pairs),
		"pairs":     result.Pairs,
	})
}

// handleTaskPlan возвращает план консолидации
func (s *Server) handleTaskPlan(c *gin.Context) {
	result, err := s.analysisService.GetResult(c.Param("taskId"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	var totalSavings float64
	for _, opp := range result.Opportunities {
		totalSavings += opp.EstimatedSavings
	}

	c.JSON(http.StatusOK, gin.H{
		"total":         len(result.Opportunities),
		"total_savings": totalSavings,
		"opportunities": result.Opportunities,
	})
}

// handleTaskWarnings возвращает предупреждения качества данных
func (s *Server) handleTaskWarnings(c *gin.Context) {
	result, err := s.analysisService.GetResult(c.Param("taskId"))
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(result.Warnings),
		"warnings": result.Warnings,
	})
}

// compareNamesRequest тело запроса на сравнение двух названий
type compareNamesRequest struct {
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
}

// handleCompareNames синхронно сравнивает два названия всеми алгоритмами
func (s *Server) handleCompareNames(c *gin.Context) {
	var req compareNamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleGinError(c, apperrors.NewValidationError("некорректное тело запроса", err))
		return
	}

	result, err := s.similarityService.CompareNames(req.Name1, req.Name2)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
