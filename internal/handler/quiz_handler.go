package handler

import (
	"eduquiz/internal/domain"
	"eduquiz/internal/dto"
	"eduquiz/internal/middleware"
	"eduquiz/internal/service"
	"eduquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler exposes quiz reads and the teacher-facing mutations over HTTP.
type QuizHandler struct {
	quizService service.QuizService
	validator   *validation.Validator
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		validator:   validation.NewValidator(),
	}
}

// canSeeAnswers reports whether the caller may read correct-answer indices.
func canSeeAnswers(caller domain.Caller) bool {
	return caller.Role == domain.RoleTeacher || caller.Role == domain.RoleAdmin
}

// GetAllQuizzes lists every quiz.
// @Summary List quizzes
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuizResponse
// @Router /quizzes [get]
func (h *QuizHandler) GetAllQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.quizService.GetAllQuizzes(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuizResponses(quizzes))
}

// GetQuizzesByCategory lists quizzes in one category.
// @Summary List quizzes by category
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} dto.QuizResponse
// @Router /quizzes/category/{category} [get]
func (h *QuizHandler) GetQuizzesByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if err := h.validator.ValidateCategory(category); err != nil {
		return err
	}

	quizzes, err := h.quizService.GetQuizzesByCategory(c.Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuizResponses(quizzes))
}

// GetQuiz returns one quiz. Correct answers are stripped for takers.
// @Summary Get a quiz
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.validator.ValidateID("quiz_id", quizID); err != nil {
		return err
	}

	quiz, err := h.quizService.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}
	caller := middleware.CallerFromContext(c)
	return c.JSON(dto.ToQuizResponse(quiz, canSeeAnswers(caller)))
}

// GetQuizStats returns aggregate stats for one quiz.
// @Summary Get quiz stats
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizStatsResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{id}/stats [get]
func (h *QuizHandler) GetQuizStats(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.validator.ValidateID("quiz_id", quizID); err != nil {
		return err
	}

	stats, err := h.quizService.GetQuizStats(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizStatsResponse{
		QuizID:       stats.QuizID,
		Attempts:     stats.Attempts,
		AverageScore: stats.AverageScore,
	})
}

// CreateQuiz stores a new quiz. Teachers and admins only.
// @Summary Create a quiz
// @Tags quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz"
// @Success 201 {object} dto.QuizResponse
// @Failure 403 {object} middleware.ErrorResponse "Insufficient role"
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	caller := middleware.CallerFromContext(c)
	quiz, err := h.quizService.CreateQuiz(c.Context(), caller, req.ToDomainQuiz())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToQuizResponse(quiz, true))
}

// UpdateQuiz replaces an existing quiz. Teachers and admins only.
// @Summary Update a quiz
// @Tags quizzes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.CreateQuizRequest true "Quiz"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.validator.ValidateID("quiz_id", quizID); err != nil {
		return err
	}

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	quiz := req.ToDomainQuiz()
	quiz.ID = quizID

	caller := middleware.CallerFromContext(c)
	updated, err := h.quizService.UpdateQuiz(c.Context(), caller, quiz)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuizResponse(updated, true))
}

// DeleteQuiz removes a quiz. Teachers and admins only.
// @Summary Delete a quiz
// @Tags quizzes
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if err := h.validator.ValidateID("quiz_id", quizID); err != nil {
		return err
	}

	caller := middleware.CallerFromContext(c)
	if err := h.quizService.DeleteQuiz(c.Context(), caller, quizID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz deleted"})
}
