package handler

import (
	"net/http"

	"wellsync/internal/middleware"
	"wellsync/internal/model"
	"wellsync/internal/service"

	"github.com/gin-gonic/gin"
)

// TodoHandler handles todo requests. Routes are guarded by the permission
// middleware, which loads the todo for non-create actions.
type TodoHandler struct {
	service service.TodoService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(s service.TodoService) *TodoHandler {
	return &TodoHandler{service: s}
}

// loadedTodo returns the instance attached by the permission middleware
func loadedTodo(c *gin.Context) (*model.Todo, bool) {
	data, ok := middleware.ResourceData(c)
	if !ok {
		return nil, false
	}
	todo, ok := data.(*model.Todo)
	return todo, ok
}

func (h *TodoHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	todo, err := h.service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	todos, err := h.service.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list todos"})
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

func (h *TodoHandler) Get(c *gin.Context) {
	todo, ok := loadedTodo(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) Update(c *gin.Context) {
	todo, ok := loadedTodo(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req model.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), todo, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	todo, ok := loadedTodo(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), todo.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}
	c.Status(http.StatusNoContent)
}
