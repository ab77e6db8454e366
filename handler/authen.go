package handler

import (
	"errors"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/database"
	"event_manager/helper"
	"event_manager/model"
	"event_manager/utils"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setAuthCookies(c *fiber.Ctx, tokens model.TokenData) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(helper.AccessTokenTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    tokens.RefreshToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
		Expires:  time.Now().Add(helper.RefreshTokenTTL),
	})
}

func issueTokens(user *model.User) (model.TokenData, error) {
	claim := model.TokenClaim{UserId: user.ID, Email: user.Email, Role: user.Role}
	access, err := helper.GenerateAccessToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	refresh, err := helper.GenerateRefreshToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{AccessToken: access, RefreshToken: refresh}, nil
}

func Register(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.RegisterInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	db := database.DB
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := helper.GetUserByEmail(db, email)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if existing != nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, constants.EMAIL_EXISTS).With("field", "email"))
	}
	if input.Phone != "" {
		taken, err := helper.PhoneTaken(db, input.Phone, 0)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		if taken {
			return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, constants.PHONE_EXISTS).With("field", "phone"))
		}
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.CAN_NOT_HASH_PASSWORD, err))
	}

	user := model.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Phone:    utils.StringPtr(input.Phone),
		Password: hash,
		Role:     constants.ROLE_USER,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_CREATE, err))
	}

	if smtpSettings.Enabled() {
		settings, to, name := smtpSettings, user.Email, user.Name
		go func() {
			if err := utils.SendWelcomeEmail(settings, to, name); err != nil {
				zap.L().Warn("welcome email failed", zap.String("email", to), zap.Error(err))
			}
		}()
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

func Login(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.LoginInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.MISSING_LOGIN_INPUT))
	}

	user, err := helper.GetUserByEmail(database.DB, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if user == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.INVALID_EMAIL))
	}
	if !helper.CheckPasswordHash(input.Password, user.Password) {
		return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.INVALID_PASSWORD))
	}
	if !user.IsActive {
		return utils.AppErrorResponse(c, apperror.New(apperror.Forbidden, constants.ACCOUNT_NOT_ACTIVE))
	}

	tokens, err := issueTokens(user)
	if err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_INTERNAL_ERROR, err))
	}
	setAuthCookies(c, tokens)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	})
}

func RefreshToken(c *fiber.Ctx) error {
	refresh := c.Cookies("refresh_token")
	if refresh == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = c.BodyParser(&body)
		refresh = body.RefreshToken
	}
	if refresh == "" {
		return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, "refresh token not found"))
	}

	token, err := helper.ParseToken(refresh)
	if err != nil || !token.Valid {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Unauthorized, "Invalid refresh token", err))
	}
	claim, err := helper.ClaimFromToken(token, "refresh")
	if err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Unauthorized, "Invalid refresh token", err))
	}

	var user model.User
	if err := database.DB.First(&user, claim.UserId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.USER_NOT_FOUND))
		}
		return utils.AppErrorResponse(c, err)
	}
	if !user.IsActive {
		return utils.AppErrorResponse(c, apperror.New(apperror.Forbidden, constants.ACCOUNT_NOT_ACTIVE))
	}

	tokens, err := issueTokens(&user)
	if err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_INTERNAL_ERROR, err))
	}
	setAuthCookies(c, tokens)
	return utils.SuccessResponse(c, fiber.StatusOK, tokens)
}

func Logout(c *fiber.Ctx) error {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Path:     "/",
			Expires:  time.Unix(0, 0),
		})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "logged out"})
}
