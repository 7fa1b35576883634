package handler

import (
	"eduquiz/internal/dto"
	"eduquiz/internal/middleware"
	"eduquiz/internal/service"
	"eduquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler exposes the quiz-attempt lifecycle over HTTP.
type AttemptHandler struct {
	attemptService service.AttemptService
	validator      *validation.Validator
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService service.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		validator:      validation.NewValidator(),
	}
}

// StartAttempt begins a new attempt on a quiz.
// @Summary Start a quiz attempt
// @Description Creates a new in-progress attempt for the authenticated user.
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.StartAttemptRequest true "Quiz to attempt"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation failure"
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /attempts [post]
func (h *AttemptHandler) StartAttempt(c *fiber.Ctx) error {
	var req dto.StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.ValidateID("quiz_id", req.QuizID); err != nil {
		return err
	}

	caller := middleware.CallerFromContext(c)
	attempt, err := h.attemptService.StartAttempt(c.Context(), caller, req.QuizID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAttemptResponse(attempt))
}

// GetAttempt returns the current state of an attempt.
// @Summary Get an attempt
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 403 {object} middleware.ErrorResponse "Not the owner"
// @Failure 404 {object} middleware.ErrorResponse "Attempt not found"
// @Router /attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if err := h.validator.ValidateID("attempt_id", attemptID); err != nil {
		return err
	}

	caller := middleware.CallerFromContext(c)
	attempt, err := h.attemptService.GetAttempt(c.Context(), caller, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToAttemptResponse(attempt))
}

// SubmitAnswer records one answer on an in-progress attempt.
// @Summary Submit an answer
// @Description Appends an answer to the attempt. Rejected once the attempt is completed.
// @Tags attempts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Attempt ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.AttemptResponse
// @Failure 409 {object} middleware.ErrorResponse "Attempt already completed"
// @Router /attempts/{id}/answers [post]
func (h *AttemptHandler) SubmitAnswer(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if err := h.validator.ValidateID("attempt_id", attemptID); err != nil {
		return err
	}

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.ValidateSubmitAnswer(req.QuestionIndex, req.SelectedOption); err != nil {
		return err
	}

	caller := middleware.CallerFromContext(c)
	attempt, err := h.attemptService.SubmitAnswer(c.Context(), caller, attemptID, req.QuestionIndex, req.SelectedOption)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToAttemptResponse(attempt))
}

// FinishAttempt completes the attempt and returns the score summary.
// @Summary Finish an attempt
// @Description Scores the attempt, records the result, awards points and queues recommendation generation.
// @Tags attempts
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.ScoreSummaryResponse
// @Failure 409 {object} middleware.ErrorResponse "Attempt already completed"
// @Router /attempts/{id}/finish [post]
func (h *AttemptHandler) FinishAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("id")
	if err := h.validator.ValidateID("attempt_id", attemptID); err != nil {
		return err
	}

	caller := middleware.CallerFromContext(c)
	summary, err := h.attemptService.FinishAttempt(c.Context(), caller, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToScoreSummaryResponse(summary))
}
