package validation

import (
	"strings"

	"github.com/Skotchmaster/cse_motors/internal/models"
)

type RegisterForm struct {
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname"  validate:"required,min=2"`
	Email     string `form:"account_email"     validate:"required,email"`
	Password  string `form:"account_password"  validate:"required,strongpassword"`
}

func (f *RegisterForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = models.NormalizeEmail(f.Email)
	f.Password = strings.TrimSpace(f.Password)
}

// LoginForm does not check password strength, so a failed login never hints
// at the rules.
type LoginForm struct {
	Email    string `form:"account_email"    validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

func (f *LoginForm) Normalize() {
	f.Email = models.NormalizeEmail(f.Email)
	f.Password = strings.TrimSpace(f.Password)
}

type ProfileForm struct {
	AccountID int    `form:"account_id"        validate:"required,gt=0"`
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname"  validate:"required,min=2"`
	Email     string `form:"account_email"     validate:"required,email"`
}

func (f *ProfileForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = models.NormalizeEmail(f.Email)
}

func (f *ProfileForm) Profile() models.Profile {
	return models.Profile{FirstName: f.FirstName, LastName: f.LastName, Email: f.Email}
}

type PasswordForm struct {
	AccountID int    `form:"account_id"       validate:"required,gt=0"`
	Password  string `form:"account_password" validate:"required,strongpassword"`
}

func (f *PasswordForm) Normalize() {
	f.Password = strings.TrimSpace(f.Password)
}

type ClassificationForm struct {
	Name string `form:"classification_name" validate:"required,min=3,max=30,alphanum"`
}

func (f *ClassificationForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

type VehicleForm struct {
	ClassificationID int     `form:"classification_id" validate:"required,gte=1"`
	Make             string  `form:"inv_make"          validate:"required,min=2,max=50"`
	Model            string  `form:"inv_model"         validate:"required,min=1,max=50"`
	Year             int     `form:"inv_year"          validate:"required,modelyear"`
	Description      string  `form:"inv_description"   validate:"required,min=8"`
	Image            string  `form:"inv_image"         validate:"required,max=255"`
	Thumbnail        string  `form:"inv_thumbnail"     validate:"required,max=255"`
	Price            float64 `form:"inv_price"         validate:"gte=0"`
	Miles            int     `form:"inv_miles"         validate:"gte=0"`
	Color            string  `form:"inv_color"         validate:"required,min=3,max=50"`
}

func (f *VehicleForm) Normalize() {
	f.Make = strings.TrimSpace(f.Make)
	f.Model = strings.TrimSpace(f.Model)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	f.Thumbnail = strings.TrimSpace(f.Thumbnail)
	f.Color = strings.TrimSpace(f.Color)
}

func (f *VehicleForm) Vehicle() *models.Vehicle {
	return &models.Vehicle{
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            f.Price,
		Miles:            f.Miles,
		Color:            f.Color,
		ClassificationID: f.ClassificationID,
	}
}

type VehicleUpdateForm struct {
	InvID int `form:"inv_id" validate:"required,gt=0"`
	VehicleForm
}

func (f *VehicleUpdateForm) Vehicle() *models.Vehicle {
	v := f.VehicleForm.Vehicle()
	v.ID = f.InvID
	return v
}

type VehicleIDForm struct {
	InvID int `form:"inv_id" validate:"required,gt=0"`
}

type FavoriteForm struct {
	InvID      int    `form:"inv_id"     validate:"required,gt=0"`
	RedirectTo string `form:"redirectTo"`
}

// SafeRedirect returns RedirectTo when it is a local path, otherwise fallback.
func (f *FavoriteForm) SafeRedirect(fallback string) string {
	r := strings.TrimSpace(f.RedirectTo)
	if !strings.HasPrefix(r, "/") || strings.HasPrefix(r, "//") || strings.HasPrefix(r, "/\\") {
		return fallback
	}
	return r
}
