package models

import "time"

const (
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "folder"
)

// Category groups a user's records. RecordsCount is filled on listing and
// Records when a single category is fetched.
type Category struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RecordsCount *int64    `json:"records_count,omitempty"`
	Records      []Record  `json:"records,omitzero"`
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

type CategoryPatch struct {
	Name        Optional[string]  `json:"name,omitzero"`
	Description Optional[*string] `json:"description,omitzero"`
	Color       Optional[*string] `json:"color,omitzero"`
	Icon        Optional[*string] `json:"icon,omitzero"`
}

// DefaultCategory is one entry of the set every new account starts with.
type DefaultCategory struct {
	Name        string
	Description string
	Color       string
	Icon        string
}

var DefaultCategories = []DefaultCategory{
	{Name: "Passwords", Description: "Website and application passwords", Color: "#EF4444", Icon: "lock"},
	{Name: "Credit Cards", Description: "Credit and debit card information", Color: "#10B981", Icon: "credit-card"},
	{Name: "Bank Accounts", Description: "Bank account details and credentials", Color: "#3B82F6", Icon: "bank"},
	{Name: "Notes", Description: "Personal notes and important information", Color: "#F59E0B", Icon: "file-text"},
	{Name: "Social Media", Description: "Social media account credentials", Color: "#8B5CF6", Icon: "users"},
	{Name: "Work", Description: "Work-related accounts and information", Color: "#06B6D4", Icon: "briefcase"},
	{Name: "Shopping", Description: "Online shopping accounts and payment methods", Color: "#EC4899", Icon: "shopping-cart"},
	{Name: "Health", Description: "Health insurance and medical information", Color: "#84CC16", Icon: "heart"},
}
