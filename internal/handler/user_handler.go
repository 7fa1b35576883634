package handler

import (
	"strconv"

	"eduquiz/internal/dto"
	"eduquiz/internal/middleware"
	"eduquiz/internal/service"
	"eduquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes profile, history, leaderboard and recommendation reads.
type UserHandler struct {
	userService service.UserService
	recService  service.RecommendationService
	validator   *validation.Validator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, recService service.RecommendationService) *UserHandler {
	return &UserHandler{
		userService: userService,
		recService:  recService,
		validator:   validation.NewValidator(),
	}
}

// GetMyProfile retrieves the profile of the authenticated user.
// @Summary Get my profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	caller := middleware.CallerFromContext(c)
	user, err := h.userService.GetUserProfile(c.Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserProfileResponse(user))
}

// GetMyResults retrieves the authenticated user's result history.
// @Summary Get my quiz results
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuizResultResponse
// @Router /users/me/results [get]
func (h *UserHandler) GetMyResults(c *fiber.Ctx) error {
	caller := middleware.CallerFromContext(c)
	results, err := h.userService.GetUserResults(c.Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToQuizResultResponses(results))
}

// GetMyRecommendation serves the learning recommendation for one of the
// user's finished quizzes, generating it on demand when the background
// pipeline has not delivered yet.
// @Summary Get my recommendation for a quiz
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 404 {object} middleware.ErrorResponse "No completed attempt for this quiz"
// @Router /users/me/recommendations/{quizId} [get]
func (h *UserHandler) GetMyRecommendation(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	if err := h.validator.ValidateID("quiz_id", quizID); err != nil {
		return err
	}

	caller := middleware.CallerFromContext(c)
	rec, err := h.recService.GetOrGenerateRecommendation(c.Context(), caller, caller.ID, quizID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToRecommendationResponse(rec))
}

// GetLeaderboard returns the top users by quiz points.
// @Summary Get the points leaderboard
// @Tags users
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {array} dto.LeaderboardEntryResponse
// @Router /leaderboard [get]
func (h *UserHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	entries, err := h.userService.GetLeaderboard(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToLeaderboardResponses(entries))
}
