package models

import (
	"fmt"
	"strings"
	"time"
)

type Account struct {
	ID           int    `gorm:"column:account_id;primaryKey;autoIncrement" json:"account_id"`
	FirstName    string `gorm:"column:account_firstname;not null"          json:"account_firstname"`
	LastName     string `gorm:"column:account_lastname;not null"           json:"account_lastname"`
	Email        string `gorm:"column:account_email;uniqueIndex;not null"  json:"account_email"`
	PasswordHash string `gorm:"column:account_password;not null"          json:"-"`
	Role         Role   `gorm:"column:account_type;not null;default:Client" json:"account_type"`
}

func (Account) TableName() string { return "account" }

// Profile is the self-editable part of an account.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
}

type NewAccount struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

type Classification struct {
	ID   int    `gorm:"column:classification_id;primaryKey;autoIncrement" json:"classification_id"`
	Name string `gorm:"column:classification_name;uniqueIndex;not null"   json:"classification_name"`
}

func (Classification) TableName() string { return "classification" }

type Vehicle struct {
	ID               int     `gorm:"column:inv_id;primaryKey;autoIncrement" json:"inv_id"`
	Make             string  `gorm:"column:inv_make;not null"               json:"inv_make"`
	Model            string  `gorm:"column:inv_model;not null"              json:"inv_model"`
	Year             int     `gorm:"column:inv_year;not null"               json:"inv_year"`
	Description      string  `gorm:"column:inv_description;not null"        json:"inv_description"`
	Image            string  `gorm:"column:inv_image;not null"              json:"inv_image"`
	Thumbnail        string  `gorm:"column:inv_thumbnail;not null"          json:"inv_thumbnail"`
	Price            float64 `gorm:"column:inv_price;not null"              json:"inv_price"`
	Miles            int     `gorm:"column:inv_miles;not null"              json:"inv_miles"`
	Color            string  `gorm:"column:inv_color;not null"              json:"inv_color"`
	ClassificationID int     `gorm:"column:classification_id;index;not null" json:"classification_id"`
}

func (Vehicle) TableName() string { return "inventory" }

// Title is the heading used on detail pages, e.g. "2019 Ford Mustang".
func (v Vehicle) Title() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model))
}

type Favorite struct {
	ID        int       `gorm:"column:favorite_id;primaryKey;autoIncrement"       json:"favorite_id"`
	AccountID int       `gorm:"column:account_id;not null;uniqueIndex:idx_fav_pair" json:"account_id"`
	InvID     int       `gorm:"column:inv_id;not null;uniqueIndex:idx_fav_pair"     json:"inv_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"                    json:"created_at"`
}

func (Favorite) TableName() string { return "account_favorite" }

// FavoriteVehicle is a saved vehicle as listed on the favorites page.
type FavoriteVehicle struct {
	FavoriteID int     `gorm:"column:favorite_id" json:"favorite_id"`
	InvID      int     `gorm:"column:inv_id"      json:"inv_id"`
	Make       string  `gorm:"column:inv_make"    json:"inv_make"`
	Model      string  `gorm:"column:inv_model"   json:"inv_model"`
	Year       int     `gorm:"column:inv_year"    json:"inv_year"`
	Thumbnail  string  `gorm:"column:inv_thumbnail" json:"inv_thumbnail"`
	Price      float64 `gorm:"column:inv_price"   json:"inv_price"`
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
