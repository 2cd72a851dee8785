package httpapi

import (
	"time"

	"github.com/dmitrijs2005/blogdesk/internal/server/models"
	"github.com/dmitrijs2005/blogdesk/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
}

func (r registerRequest) input() services.RegisterInput {
	return services.RegisterInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		UserName:  r.UserName,
	}
}

// postRequest accepts both the field names the server answers with and the
// shorter ones older clients send.
type postRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Content          string   `json:"content"`
	Excerpt          string   `json:"excerpt"`
	Tags             []string `json:"tags"`
	IsPublished      bool     `json:"isPublished"`
	FeaturedImage    *string  `json:"featuredImage"`
	FeaturedImageURL *string  `json:"featuredImageUrl"`
}

func (r postRequest) input() services.PostInput {
	description := r.Description
	if description == "" {
		description = r.Content
	}
	image := r.FeaturedImageURL
	if image == nil {
		image = r.FeaturedImage
	}
	return services.PostInput{
		Title:            r.Title,
		Description:      description,
		Excerpt:          r.Excerpt,
		Tags:             r.Tags,
		FeaturedImageURL: image,
		IsPublished:      r.IsPublished,
	}
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, UserName: u.UserName, Role: u.Role}
}

type postResponse struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Excerpt          string    `json:"excerpt"`
	Tags             []string  `json:"tags"`
	FeaturedImageURL *string   `json:"featuredImageUrl"`
	IsPublished      bool      `json:"isPublished"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Status           int       `json:"status"`
	ViewCount        int       `json:"viewCount"`
}

func toPostResponse(p *models.Post) postResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return postResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Excerpt:          p.Excerpt,
		Tags:             tags,
		FeaturedImageURL: p.FeaturedImageURL,
		IsPublished:      p.IsPublished,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Status:           p.Status(),
		ViewCount:        p.ViewCount,
	}
}
