package dto

// NotificationListRequest inbox query
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
	PaginationRequest
}

// NotificationResponse inbox entry
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"is_read"`
	ActionURL *string `json:"action_url,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// MarkAllReadResponse PUT /notifications/read-all
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
