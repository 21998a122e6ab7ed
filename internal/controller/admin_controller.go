package controller

import (
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/pkg/serverutils"
	"chat-moderation-be/internal/repository/contract"
	"chat-moderation-be/internal/repository/specification"
	"chat-moderation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IAdminController exposes the read-only moderation API used by the
// dashboard: the current block-list, archived cases and recent system logs.
type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListKeywords(ctx *fiber.Ctx) error
	ListCases(ctx *fiber.Ctx) error
	ListLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	keywordService service.IKeywordService
	caseRepository contract.ModerationCaseRepository
	sysLogger      logger.ILogger
}

func NewAdminController(
	keywordService service.IKeywordService,
	caseRepository contract.ModerationCaseRepository,
	sysLogger logger.ILogger,
) IAdminController {
	return &adminController{
		keywordService: keywordService,
		caseRepository: caseRepository,
		sysLogger:      sysLogger,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)
	h.Get("keywords", c.ListKeywords)
	h.Get("cases", c.ListCases)
	h.Get("logs", c.ListLogs)
}

func (c *adminController) ListKeywords(ctx *fiber.Ctx) error {
	keywords, err := c.keywordService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list keywords", dto.KeywordListResponse{Keywords: keywords}))
}

func (c *adminController) ListCases(ctx *fiber.Ctx) error {
	if c.caseRepository == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "case archive is not configured")
	}

	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if source := ctx.Query("source"); source != "" {
		specs = append(specs, specification.BySource{Source: source})
	}
	if userID := ctx.Query("flagged_user_id"); userID != "" {
		specs = append(specs, specification.ByFlaggedUser{UserID: userID})
	}

	cases, err := c.caseRepository.FindAll(ctx.Context(), specs...)
	if err != nil {
		return err
	}

	res := make([]dto.ModerationCaseResponse, 0, len(cases))
	for _, moderationCase := range cases {
		res = append(res, dto.ModerationCaseResponse{
			Id:            moderationCase.Id,
			Source:        moderationCase.Source,
			FlaggedUserId: moderationCase.FlaggedUserId,
			Subcategory:   moderationCase.Subcategory,
			Priority:      moderationCase.Priority,
			Score:         moderationCase.Score,
			Resolution:    moderationCase.Resolution,
			Details:       moderationCase.Details,
			CreatedAt:     moderationCase.CreatedAt,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list cases", res))
}

func (c *adminController) ListLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	entries, err := c.sysLogger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list logs", entries))
}
