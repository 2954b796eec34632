package handlers

import (
	"net/http"
	"strconv"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowSignup(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "signup.html", gin.H{
		"Title": "Join Warbler today.",
		"Form":  SignupForm{},
	})
}

func (h *Handler) HandleSignup(c *gin.Context) {
	var form SignupForm
	err := c.ShouldBind(&form)
	if err != nil {
		err = services.ValidationError(err)
	}

	var user *models.User
	if err == nil {
		user, err = h.accounts.Signup(c.Request.Context(), form.input())
	}
	if err != nil {
		if formStatus(err) == http.StatusInternalServerError {
			h.renderError(c, err)
			return
		}
		form.Password = ""
		h.render(c, formStatus(err), "signup.html", gin.H{
			"Title": "Join Warbler today.",
			"Error": formError(err),
			"Form":  form,
		})
		return
	}

	h.logAudit(c, &user.ID, services.ActionSignup, strconv.FormatUint(uint64(user.ID), 10), nil)
	doLogin(c, user)
	h.flashAndRedirect(c, flashSuccess, "Welcome to Warbler, "+user.Username+"!", "/")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Welcome back."})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title":    "Welcome back.",
			"Error":    formError(services.ValidationError(err)),
			"Username": form.Username,
		})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if user == nil {
		h.logAudit(c, nil, services.ActionLoginFailed, "", map[string]string{"username": form.Username})
		h.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":    "Welcome back.",
			"Error":    "Invalid credentials.",
			"Username": form.Username,
		})
		return
	}

	h.logAudit(c, &user.ID, services.ActionLogin, strconv.FormatUint(uint64(user.ID), 10), nil)
	doLogin(c, user)
	h.flashAndRedirect(c, flashSuccess, "Hello, "+user.Username+"!", "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if user := currentUser(c); user != nil {
		h.logAudit(c, &user.ID, services.ActionLogout, strconv.FormatUint(uint64(user.ID), 10), nil)
	}
	doLogout(c)
	h.flashAndRedirect(c, flashSuccess, "You have successfully logged out.", "/login")
}
