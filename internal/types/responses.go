package types

import "time"

type UserResponse struct {
	Token    string `json:"token"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	UserID   uint   `json:"user_id"`
}

type ProfileResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}

type TaskResponse struct {
	ID            uint             `json:"id"`
	Board         uint             `json:"board"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Status        string           `json:"status"`
	Priority      string           `json:"priority"`
	Assignee      *ProfileResponse `json:"assignee"`
	Reviewer      *ProfileResponse `json:"reviewer"`
	DueDate       string           `json:"due_date"`
	CommentsCount int64            `json:"comments_count"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}
