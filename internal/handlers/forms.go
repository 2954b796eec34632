package handlers

import "warbler/internal/services"

type SignupForm struct {
	Username string `form:"username" binding:"required,max=30"`
	Email    string `form:"email" binding:"required,email,max=120"`
	Password string `form:"password" binding:"required,min=6,max=72"`
	ImageURL string `form:"image_url"`
}

func (f SignupForm) input() services.SignupInput {
	return services.SignupInput{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		ImageURL: f.ImageURL,
	}
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ProfileForm is the edit form. Password is the current password.
type ProfileForm struct {
	Username       string `form:"username" binding:"required,max=30"`
	Email          string `form:"email" binding:"required,email,max=120"`
	ImageURL       string `form:"image_url"`
	HeaderImageURL string `form:"header_image_url"`
	Bio            string `form:"bio"`
	Location       string `form:"location" binding:"max=30"`
	Password       string `form:"password" binding:"required"`
}

func (f ProfileForm) input() services.ProfileInput {
	return services.ProfileInput{
		Username:       f.Username,
		Email:          f.Email,
		ImageURL:       f.ImageURL,
		HeaderImageURL: f.HeaderImageURL,
		Bio:            f.Bio,
		Location:       f.Location,
		Password:       f.Password,
	}
}

type MessageForm struct {
	Text string `form:"text" binding:"required"`
}
