package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "memberdir/internal/errors"
	"memberdir/internal/model"
	"memberdir/internal/service"
)

// MemberHandler serves the HTML membership pages.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Username  string `form:"username" validate:"required"`
	Email     string `form:"email" validate:"required"`
	Password  string `form:"password" validate:"required"`
	Phone     string `form:"phone"`
	Birthdate string `form:"birthdate"`
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// EditProfileRequest represents the profile edit form.
type EditProfileRequest struct {
	Email     string `form:"email" validate:"required"`
	Password  string `form:"password" validate:"required"`
	Phone     string `form:"phone"`
	Birthdate string `form:"birthdate"`
}

// Index renders the landing page.
func (h *MemberHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

// RegisterForm renders the empty registration form.
func (h *MemberHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", nil)
}

// Register creates a member from the submitted form and redirects to the
// login page. Registration never logs the member in.
func (h *MemberHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "please enter username, email and password")
	}

	member := &model.Member{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     optional(req.Phone),
		Birthdate: optional(req.Birthdate),
	}
	if _, err := h.memberService.Register(c.Request().Context(), member); err != nil {
		return renderDomainError(c, err)
	}

	return c.Redirect(http.StatusFound, "/login")
}

// LoginForm renders the empty login form.
func (h *MemberHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", nil)
}

// Login authenticates by exact email and password match and renders the
// welcome view on success.
func (h *MemberHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "please enter email and password")
	}

	member, err := h.memberService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return renderDomainError(c, err)
	}

	return c.Render(http.StatusOK, "welcome.html", echo.Map{
		"ID":       member.ID,
		"Username": member.Username,
	})
}

// EditProfileForm renders the edit form pre-filled with the member's
// current data. Username is shown read-only.
func (h *MemberHandler) EditProfileForm(c echo.Context) error {
	id, err := memberID(c)
	if err != nil {
		return renderDomainError(c, apperrors.ErrMemberNotFound)
	}

	member, err := h.memberService.Profile(c.Request().Context(), id)
	if err != nil {
		return renderDomainError(c, err)
	}

	return c.Render(http.StatusOK, "edit_profile.html", echo.Map{
		"ID":        member.ID,
		"Username":  member.Username,
		"Email":     member.Email,
		"Password":  member.Password,
		"Phone":     valueOr(member.Phone),
		"Birthdate": valueOr(member.Birthdate),
	})
}

// EditProfile overwrites the member's email, password, phone and birthdate
// together, then redirects to the welcome view.
func (h *MemberHandler) EditProfile(c echo.Context) error {
	id, err := memberID(c)
	if err != nil {
		return renderDomainError(c, apperrors.ErrMemberNotFound)
	}

	var req EditProfileRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return renderError(c, http.StatusBadRequest, "please enter email and password")
	}

	member := &model.Member{
		ID:        id,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     optional(req.Phone),
		Birthdate: optional(req.Birthdate),
	}
	if err := h.memberService.UpdateProfile(c.Request().Context(), member); err != nil {
		return renderDomainError(c, err)
	}

	return c.Redirect(http.StatusFound, fmt.Sprintf("/welcome/%d", id))
}

// Delete removes the member and redirects to the landing page. A missing
// id is a silent no-op, so the redirect always happens.
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := memberID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	if err := h.memberService.Delete(c.Request().Context(), id); err != nil {
		return renderDomainError(c, err)
	}

	return c.Redirect(http.StatusFound, "/")
}

// Welcome renders the greeting page for a member id.
func (h *MemberHandler) Welcome(c echo.Context) error {
	id, err := memberID(c)
	if err != nil {
		return renderDomainError(c, apperrors.ErrMemberNotFound)
	}

	member, err := h.memberService.Profile(c.Request().Context(), id)
	if err != nil {
		return renderDomainError(c, err)
	}

	return c.Render(http.StatusOK, "welcome.html", echo.Map{
		"ID":       member.ID,
		"Username": member.Username,
	})
}

func memberID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func renderError(c echo.Context, status int, message string) error {
	return c.Render(status, "error.html", echo.Map{"Message": message})
}

func renderDomainError(c echo.Context, err error) error {
	pe := apperrors.MapErrorToPage(err)
	return renderError(c, pe.StatusCode, pe.Message)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
