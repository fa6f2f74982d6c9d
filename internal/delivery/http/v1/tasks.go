package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/services"
)

type userSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type getTaskResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	Priority      string               `json:"priority"`
	Type          string               `json:"type"`
	StartDateTime time.Time            `json:"start_date_time"`
	EndDateTime   *time.Time           `json:"end_date_time"`
	CreatedBy     userSummaryResponse  `json:"created_by"`
	AssignedTo    *userSummaryResponse `json:"assigned_to"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	resp := getTaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        string(task.Status),
		Priority:      string(task.Priority),
		Type:          string(task.Type),
		StartDateTime: task.StartDateTime,
		EndDateTime:   task.EndDateTime,
		CreatedBy:     userSummaryResponse{ID: task.CreatedBy},
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
	if task.Creator != nil {
		resp.CreatedBy.Name = task.Creator.Name
	}
	if task.AssignedTo != nil {
		resp.AssignedTo = &userSummaryResponse{ID: *task.AssignedTo}
		if task.Assignee != nil {
			resp.AssignedTo.Name = task.Assignee.Name
			resp.AssignedTo.Email = task.Assignee.Email
		}
	}
	return resp
}

type createTaskRequest struct {
	Title         string     `json:"title" binding:"max=255"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	StartDateTime *time.Time `json:"start_date_time"`
	EndDateTime   *time.Time `json:"end_date_time"`
	AssignedTo    *string    `json:"assigned_to"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if req.Title == "" || req.Type == "" || req.StartDateTime == nil {
		abort(c, newBadRequestError("title, start_date_time and type are required"))
		return
	}

	params := services.CreateTaskParams{
		CreatorID:     userID,
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: *req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		AssignedTo:    req.AssignedTo,
	}
	if params.Type, err = models.ParseTaskType(req.Type); err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	if req.Status != "" {
		if params.Status, err = models.ParseTaskStatus(req.Status); err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
	}
	if req.Priority != "" {
		if params.Priority, err = models.ParseTaskPriority(req.Priority); err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newServiceError(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	tasks, err := h.tasks.ListTasks(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newServiceError(err))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}

	h.logger.Info().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	task, err := h.tasks.GetTask(c, c.Param("id"), userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", c.Param("id")).
			Msg("failed to get task")
		abort(c, newServiceError(err))
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title         *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description   *string    `json:"description,omitempty"`
	Type          *string    `json:"type,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	StartDateTime *time.Time `json:"start_date_time,omitempty"`
	EndDateTime   *time.Time `json:"end_date_time,omitempty"`
	AssignedTo    *string    `json:"assigned_to,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		ID:            c.Param("id"),
		RequesterID:   userID,
		Title:         req.Title,
		Description:   req.Description,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		AssignedTo:    req.AssignedTo,
	}
	if req.Type != nil {
		v, err := models.ParseTaskType(*req.Type)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		params.Type = &v
	}
	if req.Status != nil {
		v, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		params.Status = &v
	}
	if req.Priority != nil {
		v, err := models.ParseTaskPriority(*req.Priority)
		if err != nil {
			abort(c, newBadRequestError(err.Error()))
			return
		}
		params.Priority = &v
	}

	task, err := h.tasks.UpdateTask(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to update task")
		abort(c, newServiceError(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type setTaskStatusRequest struct {
	Status string `json:"status" form:"status"`
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req setTaskStatusRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to bind json")
			abort(c, newBadRequestError(errInvalidRequestBody.Error()))
			return
		}
	}
	if req.Status == "" {
		req.Status = c.Query("status")
	}
	if req.Status == "" {
		h.logger.Error().Msg("no status provided")
		abort(c, newBadRequestError("status is required"))
		return
	}

	task, err := h.tasks.UpdateTaskStatus(c, services.UpdateTaskStatusParams{
		ID:          c.Param("id"),
		RequesterID: userID,
		Status:      models.TaskStatus(req.Status),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", c.Param("id")).
			Msg("failed to update task status")
		abort(c, newServiceError(err))
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Str("status", string(task.Status)).
		Msg("updated task status")
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	taskID := c.Param("id")

	err := h.tasks.DeleteTask(c, taskID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abort(c, newServiceError(err))
		return
	}

	h.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
