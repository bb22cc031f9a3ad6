package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/auth-service/internal/core/port/usecases_port"
)

type AuthHandlers struct {
	registerUC usecases_port.RegisterUserUseCasePort
	loginUC    usecases_port.LoginUserUseCasePort
	refreshUC  usecases_port.RefreshTokenUseCasePort
	validateUC usecases_port.ValidateTokenUseCasePort
	validate   *validator.Validate
}

func NewAuthHandlers(
	registerUC usecases_port.RegisterUserUseCasePort,
	loginUC usecases_port.LoginUserUseCasePort,
	refreshUC usecases_port.RefreshTokenUseCasePort,
	validateUC usecases_port.ValidateTokenUseCasePort,
) *AuthHandlers {
	return &AuthHandlers{
		registerUC: registerUC,
		loginUC:    loginUC,
		refreshUC:  refreshUC,
		validateUC: validateUC,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
	}
}

// Register handles POST /register
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Register"})

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode register request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Warn("Register request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Never log the password.
	handlerLogger := logger.WithFields(port.Fields{
		"email":    req.Email,
		"username": req.Username,
	})
	handlerLogger.Info("Processing register request", nil)

	user, tokens, err := h.registerUC.Execute(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			handlerLogger.Warn("Registration failed: email or username already in use", nil)
			WriteJSONError(w, http.StatusConflict, err.Error())
			return
		}
		handlerLogger.Error("Register use case failed with an unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	handlerLogger.Info("User registered successfully", port.Fields{"user_id": user.ID})

	RespondWithJSON(w, http.StatusCreated, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         toUserResponse(user),
	})
}

// Login handles POST /login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode login request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Warn("Login request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"email": req.Email})
	handlerLogger.Info("Processing login request", nil)

	user, tokens, err := h.loginUC.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			handlerLogger.Warn("Login failed: invalid credentials", nil)
			WriteJSONError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		handlerLogger.Error("Login use case failed with an unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	handlerLogger.Info("User logged in successfully", port.Fields{"user_id": user.ID})

	RespondWithJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         toUserResponse(user),
	})
}

// Refresh handles POST /refresh
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Refresh"})

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode refresh request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Warn("Refresh request failed validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.refreshUC.Execute(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			logger.Warn("Refresh failed: invalid refresh token", nil)
			WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		logger.Error("Refresh use case failed with an unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("Tokens refreshed successfully", nil)

	RespondWithJSON(w, http.StatusOK, TokenPairResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// ValidateToken handles POST /validate
func (h *AuthHandlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ValidateToken"})

	var req ValidateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode validation request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, err := h.validateUC.Execute(r.Context(), req.Token)
	if err != nil {
		logger.Warn("Token validation failed", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	RespondWithJSON(w, http.StatusOK, ValidateTokenResponse{
		UserID:   claims.UserID.String(),
		Email:    claims.Email,
		Username: claims.Username,
	})
}
