package workout

import (
	"fittrack_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for workout handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new workout handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger.Named("workout_handler")}
}

// RegisterRoutes sets up the routes for workouts and their children.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	workouts := router.Group("/workouts", authMW)
	{
		workouts.GET("", h.listWorkouts)
		workouts.POST("", h.createWorkout)
		workouts.GET("/:id", h.getWorkout)
		workouts.PATCH("/:id", h.updateWorkout)
		workouts.DELETE("/:id", h.deleteWorkout)
		workouts.GET("/:id/days", h.listDays)
		workouts.POST("/:id/days", h.addDay)
		workouts.GET("/:id/exercises", h.listExercises)
		workouts.POST("/:id/exercises", h.addExercise)
	}

	router.DELETE("/workout-days/:id", authMW, h.deleteDay)

	exercises := router.Group("/exercises", authMW)
	{
		exercises.PATCH("/:id", h.updateExercise)
		exercises.DELETE("/:id", h.deleteExercise)
		exercises.GET("/:id/sets", h.listSets)
		exercises.POST("/:id/sets", h.addSet)
	}

	sets := router.Group("/exercise-sets", authMW)
	{
		sets.PATCH("/:id", h.updateSet)
		sets.DELETE("/:id", h.deleteSet)
	}
}

func (h *Handler) listWorkouts(c *gin.Context) {
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.ListWorkouts(c.Request.Context(), page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Workouts retrieved successfully.", rows, common.NewPagination(total, page.Page, page.PageSize))
}

func (h *Handler) createWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if !common.BindJSON(c, &req) {
		return
	}
	w, err := h.service.CreateWorkout(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Workout created successfully.", w)
}

func (h *Handler) getWorkout(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	w, err := h.service.GetWorkout(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Workout retrieved successfully.", w)
}

func (h *Handler) updateWorkout(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if !common.BindJSON(c, &req) {
		return
	}
	w, err := h.service.UpdateWorkout(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Workout updated successfully.", w)
}

func (h *Handler) deleteWorkout(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteWorkout(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listDays(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	days, err := h.service.ListDays(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Workout days retrieved successfully.", days)
}

func (h *Handler) addDay(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req AddDayRequest
	if !common.BindJSON(c, &req) {
		return
	}
	d, err := h.service.AddDay(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Workout day added successfully.", d)
}

func (h *Handler) deleteDay(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteDay(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listExercises(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	page := common.GetPaginationParams(c)
	rows, total, err := h.service.ListExercises(c.Request.Context(), id, page)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Exercises retrieved successfully.", rows, common.NewPagination(total, page.Page, page.PageSize))
}

func (h *Handler) addExercise(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if !common.BindJSON(c, &req) {
		return
	}
	e, err := h.service.AddExercise(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Exercise added successfully.", e)
}

func (h *Handler) updateExercise(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if !common.BindJSON(c, &req) {
		return
	}
	e, err := h.service.UpdateExercise(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Exercise updated successfully.", e)
}

func (h *Handler) deleteExercise(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteExercise(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) listSets(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	sets, err := h.service.ListSets(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Exercise sets retrieved successfully.", sets)
}

func (h *Handler) addSet(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateSetRequest
	if !common.BindJSON(c, &req) {
		return
	}
	set, err := h.service.AddSet(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Exercise set added successfully.", set)
}

func (h *Handler) updateSet(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSetRequest
	if !common.BindJSON(c, &req) {
		return
	}
	set, err := h.service.UpdateSet(c.Request.Context(), id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Exercise set updated successfully.", set)
}

func (h *Handler) deleteSet(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteSet(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
