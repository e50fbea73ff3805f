package handlers

import (
	"errors"
	"tidyops/internal/app"
	taskController "tidyops/internal/controllers/tasks"
	"tidyops/internal/logger"
	"tidyops/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TaskHandler struct {
	Handler
	taskController taskController.TaskControllerInterface
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	log := logger.New("handlers").File("task_handler")
	return &TaskHandler{
		taskController: app.Controllers.Task,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks")
	tasks.Post("", h.createTask)
	tasks.Get("", h.queryTasks)
	tasks.Get("/:id", h.getTask)
	tasks.Patch("/:id", h.updateTask)
	tasks.Post("/:id/assign", h.assignTask)
	tasks.Post("/:id/start", h.startTask)
	tasks.Post("/:id/complete", h.completeTask)
	tasks.Post("/:id/cancel", h.cancelTask)
	tasks.Post("/:id/fail", h.failTask)
	tasks.Post("/:id/quality-check", h.recordQualityCheck)
	tasks.Post("/:id/resolve-review", h.resolveReview)
}

func taskErrorStatus(err error) int {
	switch {
	case errors.Is(err, taskController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, taskController.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, taskController.ErrInvalidStateTransition):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrAlreadyAssigned):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrNoEligibleCleaner):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func taskError(c *fiber.Ctx, err error, fallback string) error {
	status := taskErrorStatus(err)
	message := fallback
	if status != fiber.StatusInternalServerError {
		message = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseTaskID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (h *TaskHandler) createTask(c *fiber.Ctx) error {
	var req taskController.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.CreateTask(c.UserContext(), &req)
	if err != nil {
		return taskError(c, err, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) queryTasks(c *fiber.Ctx) error {
	var req taskController.QueryTasksRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}

	tasks, err := h.taskController.QueryTasks(c.UserContext(), &req)
	if err != nil {
		return taskError(c, err, "Failed to query tasks")
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *TaskHandler) getTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	task, err := h.taskController.GetTask(c.UserContext(), taskID)
	if err != nil {
		return taskError(c, err, "Failed to get task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) updateTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req taskController.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.UpdateTask(c.UserContext(), taskID, &req)
	if err != nil {
		return taskError(c, err, "Failed to update task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) assignTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req taskController.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.AssignTask(c.UserContext(), taskID, &req)
	if err != nil {
		return taskError(c, err, "Failed to assign task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) startTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req taskController.StartTaskRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	task, err := h.taskController.StartTask(c.UserContext(), taskID, &req)
	if err != nil {
		return taskError(c, err, "Failed to start task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) completeTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req taskController.CompleteTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.CompleteTask(c.UserContext(), taskID, &req)
	if err != nil {
		return taskError(c, err, "Failed to complete task")
	}

	return c.JSON(fiber.Map{"task": task})
}

type closeTaskRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *TaskHandler) cancelTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req closeTaskRequest
	_ = c.BodyParser(&req)

	task, err := h.taskController.CancelTask(c.UserContext(), taskID, req.Reason)
	if err != nil {
		return taskError(c, err, "Failed to cancel task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) failTask(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req closeTaskRequest
	_ = c.BodyParser(&req)

	task, err := h.taskController.FailTask(c.UserContext(), taskID, req.Reason)
	if err != nil {
		return taskError(c, err, "Failed to fail task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) recordQualityCheck(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req taskController.QualityCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	task, err := h.taskController.RecordQualityCheck(c.UserContext(), taskID, &req)
	if err != nil {
		return taskError(c, err, "Failed to record quality check")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) resolveReview(c *fiber.Ctx) error {
	taskID, err := parseTaskID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	task, err := h.taskController.ResolveReview(c.UserContext(), taskID)
	if err != nil {
		return taskError(c, err, "Failed to resolve review")
	}

	return c.JSON(fiber.Map{"task": task})
}
